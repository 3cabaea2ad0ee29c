package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/mcollide/internal/collision"
)

var (
	// ErrReport indicates the contact container received an inconsistent
	// report bracket.
	ErrReport = errors.New("sim: inconsistent contact report")

	// ErrInvalidConfig indicates a run configuration outside valid range.
	ErrInvalidConfig = errors.New("sim: invalid run configuration")
)

// StepStats summarizes one collision step.
type StepStats struct {
	Step          int
	Time          float64
	Shapes        int
	Pairs         int
	Contacts      int
	FluidContacts int
	ActiveBins    int
	BroadSeconds  float64
	NarrowSeconds float64
	// MaxDepth is the deepest rigid penetration of the step, 0 without
	// contacts.
	MaxDepth float64
}

type Metric interface {
	Name() string
	Observe(s StepStats)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s StepStats, sys *collision.System)
}

type Config struct {
	Steps int
	// Dt advances the world between steps; 0 keeps it static.
	Dt   float64
	Seed uint64
	// CheckReports validates every contact report bracket.
	CheckReports bool
}

func DefaultConfig() Config {
	return Config{
		Steps:        100,
		Dt:           0.01,
		CheckReports: true,
	}
}

type Result struct {
	Steps      []StepStats
	Metrics    map[string]float64
	StepsTaken int
	// Contacts of the final step.
	Contacts []collision.Contact
	Errors   []error
}

// StepError wraps an error with the step it occurred in.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
