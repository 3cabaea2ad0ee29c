package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/mcollide/internal/collision"
	"github.com/san-kum/mcollide/internal/contact"
	"github.com/san-kum/mcollide/internal/scene"
)

// Simulator drives a collision system over a moving world: each step it
// synchronizes, runs the pipeline and reports contacts.
type Simulator struct {
	sys       *collision.System
	world     *scene.World
	recorder  *contact.Recorder
	metrics   []Metric
	observers []Observer
}

// New wraps a system that already holds the world's models.
func New(sys *collision.System, world *scene.World) *Simulator {
	return &Simulator{
		sys:       sys,
		world:     world,
		recorder:  contact.NewRecorder(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

// Build creates a system from cfg and registers every model of world.
func Build(cfg collision.Config, world *scene.World) (*Simulator, error) {
	sys := collision.New(cfg)
	if err := world.Register(sys); err != nil {
		return nil, err
	}
	return New(sys, world), nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) System() *collision.System   { return s.sys }
func (s *Simulator) World() *scene.World         { return s.world }
func (s *Simulator) Recorder() *contact.Recorder { return s.recorder }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Steps:   make([]StepStats, 0, cfg.Steps),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		st, err := s.Step(i, cfg)
		if err != nil {
			result.Errors = append(result.Errors, err)
		}

		for _, m := range s.metrics {
			m.Observe(st)
		}
		for _, obs := range s.observers {
			obs.OnStep(st, s.sys)
		}

		result.Steps = append(result.Steps, st)
		result.StepsTaken++
	}

	result.Contacts = s.sys.Contacts()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// Step runs one collision step. Steps after the first advance the world
// by cfg.Dt first.
func (s *Simulator) Step(i int, cfg Config) (StepStats, error) {
	if i > 0 && cfg.Dt > 0 {
		s.world.Advance(cfg.Dt)
	}
	s.world.Sync(s.sys)
	s.sys.ResetTimers()
	s.sys.Run()
	s.sys.ReportContacts(s.recorder)

	st := StepStats{
		Step:          i,
		Time:          s.world.Time,
		Shapes:        s.sys.NumShapes(),
		Pairs:         s.sys.NumPairs(),
		Contacts:      s.sys.NumContacts(),
		FluidContacts: s.sys.NumFluidContacts(),
		ActiveBins:    s.sys.NumActiveBins(),
		BroadSeconds:  s.sys.TimerBroad(),
		NarrowSeconds: s.sys.TimerNarrow(),
	}
	for _, d := range s.sys.Data().Host.Depths[:st.Contacts] {
		st.MaxDepth = max(st.MaxDepth, d)
	}

	if cfg.CheckReports {
		if err := s.recorder.Check(); err != nil {
			return st, &StepError{Step: i, Time: st.Time, Wrapped: fmt.Errorf("%w: %w", ErrReport, err)}
		}
	}
	return st, nil
}

// RunWithCallback steps until cfg.Steps or until callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(StepStats) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		st, err := s.Step(i, cfg)
		if err != nil {
			return err
		}
		if !callback(st) {
			return nil
		}
	}

	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if cfg.Dt < 0 {
		return fmt.Errorf("%w: dt must not be negative, got %f", ErrInvalidConfig, cfg.Dt)
	}
	return nil
}
