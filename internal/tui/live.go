package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mcollide/internal/automation"
	"github.com/san-kum/mcollide/internal/config"
	"github.com/san-kum/mcollide/internal/export"
	"github.com/san-kum/mcollide/internal/scene"
	"github.com/san-kum/mcollide/internal/sim"
)

const historyLen = 60

var algorithms = []string{"hybrid", "gjk", "prims"}

// Model is the live collision view: it steps a simulator on every tick
// and redraws the scene projection, per-step counters and a contact
// history plot.
type Model struct {
	cfg      *config.Config
	registry *scene.Registry
	sim      *sim.Simulator
	canvas   *canvas
	plane    export.Plane

	step     int
	last     sim.StepStats
	contacts []float64
	pairs    []float64
	paused   bool
	speed    int
	reloads  int
	err      error

	events <-chan string

	width  int
	height int
}

func NewModel(cfg *config.Config, registry *scene.Registry) (Model, error) {
	m := Model{
		cfg:      cfg,
		registry: registry,
		canvas:   newCanvas(60, 16),
		speed:    1,
		width:    80,
		height:   24,
	}
	if err := m.rebuild(); err != nil {
		return m, err
	}
	return m, nil
}

// WithReloads makes the model reload its config whenever a path arrives on
// events.
func (m Model) WithReloads(events <-chan string) Model {
	m.events = events
	return m
}

func (m *Model) rebuild() error {
	s, err := automation.Build(m.cfg, m.registry)
	if err != nil {
		return err
	}
	m.sim = s
	m.step = 0
	m.last = sim.StepStats{}
	m.contacts = nil
	m.pairs = nil
	m.err = nil
	return nil
}

func (m Model) Done() bool { return m.step >= m.cfg.Steps }

type tickMsg time.Time

type reloadMsg struct {
	cfg *config.Config
	err error
}

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForReload(events <-chan string) tea.Cmd {
	return func() tea.Msg {
		path, ok := <-events
		if !ok {
			return nil
		}
		cfg, err := config.Load(path)
		return reloadMsg{cfg: cfg, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	if m.events != nil {
		return tea.Batch(tick(), waitForReload(m.events))
	}
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused {
			for i := 0; i < m.speed && !m.Done(); i++ {
				m.advance()
			}
		}
		return m, tick()
	case reloadMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			prev := m.cfg
			m.cfg = msg.cfg
			if err := m.rebuild(); err != nil {
				m.cfg = prev
				m.err = err
			} else {
				m.reloads++
			}
		}
		return m, waitForReload(m.events)
	}
	return m, nil
}

func (m *Model) advance() {
	st, err := m.sim.Step(m.step, automation.RunConfig(m.cfg))
	m.step++
	m.last = st
	if err != nil {
		m.err = err
	}
	m.contacts = appendCapped(m.contacts, float64(st.Contacts))
	m.pairs = appendCapped(m.pairs, float64(st.Pairs))
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyLen {
		s = s[len(s)-historyLen:]
	}
	return s
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "n":
		if !m.Done() {
			m.advance()
		}
	case "+", "=":
		m.speed = min(m.speed*2, 16)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	case "r":
		m.err = m.rebuild()
	case "v":
		m.plane = (m.plane + 1) % 3
	case "a":
		m.cfg.Collision.Algorithm = nextAlgorithm(m.cfg.Collision.Algorithm)
		m.err = m.rebuild()
	case "e", "E":
		delta := 0.01
		if msg.String() == "E" {
			delta = -0.01
		}
		if err := m.cfg.SetParam("envelope", max(m.cfg.Collision.Envelope+delta, 0)); err != nil {
			m.err = err
			break
		}
		m.err = m.rebuild()
	}
	return m, nil
}

func nextAlgorithm(cur string) string {
	for i, a := range algorithms {
		if a == cur {
			return algorithms[(i+1)%len(algorithms)]
		}
	}
	return algorithms[1]
}

func (m Model) status() string {
	switch {
	case m.Done():
		return cyan.Render("done")
	case m.paused:
		return yellow.Render("paused")
	}
	return green.Render("running")
}

func (m Model) View() string {
	var sb strings.Builder

	algo := m.cfg.Collision.Algorithm
	if algo == "" {
		algo = algorithms[0]
	}
	sb.WriteString(Title("mcollide") + "  " + white.Render(m.cfg.Scene) + dim.Render(" · "+algo) + "  " + m.status() + "\n\n")

	frac := float64(m.step) / float64(max(m.cfg.Steps, 1))
	sb.WriteString(progressBar(frac, 40) + dim.Render(fmt.Sprintf(" %d/%d  x%d", m.step, m.cfg.Steps, m.speed)) + "\n\n")

	st := m.last
	stats := []string{
		Label("shapes  ", fmt.Sprintf("%d", st.Shapes)),
		Label("pairs   ", fmt.Sprintf("%d", st.Pairs)),
		Label("contacts", fmt.Sprintf("%d", st.Contacts)),
		Label("fluid   ", fmt.Sprintf("%d", st.FluidContacts)),
		Label("bins    ", fmt.Sprintf("%d", st.ActiveBins)),
		Label("depth   ", fmt.Sprintf("%.4f", st.MaxDepth)),
		Label("broad   ", fmt.Sprintf("%.3fms", st.BroadSeconds*1e3)),
		Label("narrow  ", fmt.Sprintf("%.3fms", st.NarrowSeconds*1e3)),
		Label("envelope", fmt.Sprintf("%.3f", m.cfg.Collision.Envelope)),
		Label("pairs   ", magenta.Render(Sparkline(m.pairs, 20))),
	}
	sb.WriteString(Panel(strings.Join(stats, "\n")) + "\n")

	if m.step > 0 {
		m.canvas.draw(export.Capture(m.sim.System(), m.sim.World().Fluid), m.plane)
		sb.WriteString(Panel(dim.Render(m.canvas.String())) + "\n")
	}

	if len(m.contacts) >= 2 {
		sb.WriteString(asciigraph.Plot(m.contacts,
			asciigraph.Height(6),
			asciigraph.Width(50),
			asciigraph.Caption("contacts per step")) + "\n")
	}

	if m.reloads > 0 {
		sb.WriteString(dim.Render(fmt.Sprintf("config reloaded %d times", m.reloads)) + "\n")
	}
	if m.err != nil {
		sb.WriteString(red.Render("error: "+m.err.Error()) + "\n")
	}
	sb.WriteString(dim.Render("space pause · n step · +/- speed · a algorithm · e/E envelope · v plane · r restart · q quit"))
	return sb.String()
}

// Run opens the live view. When watchPath is set, edits to that file
// reload the config and restart the run.
func Run(cfg *config.Config, registry *scene.Registry, watchPath string) error {
	m, err := NewModel(cfg, registry)
	if err != nil {
		return err
	}
	if watchPath != "" {
		w, err := NewWatcher(watchPath)
		if err != nil {
			return err
		}
		defer w.Close()
		m = m.WithReloads(w.Events)
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
