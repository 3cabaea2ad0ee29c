package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mcollide/internal/config"
	"github.com/san-kum/mcollide/internal/scene"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := config.GetPreset("stack", "tower")
	cfg.Steps = 6
	m, err := NewModel(cfg, scene.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTicks(t *testing.T) {
	m := testModel(t)
	m = update(t, m, tickMsg(time.Now()))
	if m.step != 1 || m.last.Contacts == 0 {
		t.Fatalf("step=%d contacts=%d", m.step, m.last.Contacts)
	}

	m = update(t, m, key("+"))
	m = update(t, m, key("+"))
	if m.speed != 4 {
		t.Fatalf("speed = %d", m.speed)
	}
	m = update(t, m, tickMsg(time.Now()))
	if m.step != 5 {
		t.Errorf("step = %d, want 5", m.step)
	}
	m = update(t, m, tickMsg(time.Now()))
	if m.step != 6 || !m.Done() {
		t.Errorf("run should stop at the configured steps, got %d", m.step)
	}
	if len(m.contacts) != 6 {
		t.Errorf("history = %d", len(m.contacts))
	}

	view := m.View()
	for _, want := range []string{"stack", "done", "contacts per step"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelKeys(t *testing.T) {
	m := testModel(t)

	m = update(t, m, key("p"))
	if !m.paused {
		t.Fatal("expected paused")
	}
	m = update(t, m, tickMsg(time.Now()))
	if m.step != 0 {
		t.Errorf("paused model stepped")
	}
	m = update(t, m, key("n"))
	if m.step != 1 {
		t.Errorf("single step: step = %d", m.step)
	}

	m = update(t, m, key("a"))
	if m.cfg.Collision.Algorithm != "gjk" || m.step != 0 {
		t.Errorf("algorithm = %q step = %d", m.cfg.Collision.Algorithm, m.step)
	}

	env := m.cfg.Collision.Envelope
	m = update(t, m, key("e"))
	if m.cfg.Collision.Envelope <= env {
		t.Errorf("envelope not increased")
	}

	m = update(t, m, key("v"))
	if m.plane != 1 {
		t.Errorf("plane = %d", m.plane)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestModelReload(t *testing.T) {
	m := testModel(t)
	m = update(t, m, tickMsg(time.Now()))

	cfg := config.DefaultConfig()
	cfg.Scene = "boxes"
	cfg.Params.Count = 20
	m = update(t, m, reloadMsg{cfg: cfg})
	if m.cfg.Scene != "boxes" || m.step != 0 || m.reloads != 1 {
		t.Errorf("reload not applied: scene=%s step=%d", m.cfg.Scene, m.step)
	}

	m = update(t, m, reloadMsg{err: errors.New("bad yaml")})
	if m.err == nil || m.cfg.Scene != "boxes" {
		t.Error("failed reload should keep the config and report the error")
	}

	bad := config.DefaultConfig()
	bad.Scene = "nonexistent"
	m = update(t, m, reloadMsg{cfg: bad})
	if m.cfg.Scene != "boxes" || m.err == nil {
		t.Error("unbuildable config should be rejected")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 4); got != "────" {
		t.Errorf("empty sparkline = %q", got)
	}
	if got := Sparkline([]float64{0, 1, 2, 3, 4}, 3); got != "▁▄█" {
		t.Errorf("sparkline = %q", got)
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte("scene: boxes\n"), 0644); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("scene: spheres\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		want, _ := filepath.Abs(path)
		if got != want {
			t.Errorf("event for %s, want %s", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event")
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
