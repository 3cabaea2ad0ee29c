package metrics

import (
	"github.com/san-kum/mcollide/internal/sim"
)

func NewMeanBroadTime() *Mean {
	return NewMean("mean_broad_ms", func(s sim.StepStats) float64 { return s.BroadSeconds * 1e3 })
}

func NewMeanNarrowTime() *Mean {
	return NewMean("mean_narrow_ms", func(s sim.StepStats) float64 { return s.NarrowSeconds * 1e3 })
}

// NewMeanStepTime averages broad plus narrow time in milliseconds.
func NewMeanStepTime() *Mean {
	return NewMean("mean_step_ms", func(s sim.StepStats) float64 { return (s.BroadSeconds + s.NarrowSeconds) * 1e3 })
}

// Defaults is the metric set attached to CLI runs.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewMeanContacts(),
		NewMeanPairs(),
		NewPeakPairs(),
		NewMaxDepth(),
		NewPairEfficiency(),
		NewMeanActiveBins(),
		NewMeanFluidContacts(),
		NewMeanBroadTime(),
		NewMeanNarrowTime(),
		NewMeanStepTime(),
	}
}

// ByName returns a fresh metric of the given name, or nil.
func ByName(name string) sim.Metric {
	for _, m := range Defaults() {
		if m.Name() == name {
			return m
		}
	}
	return nil
}
