package metrics

import (
	"github.com/san-kum/mcollide/internal/sim"
)

// Mean averages one field of the step stats over a run.
type Mean struct {
	name    string
	field   func(sim.StepStats) float64
	sum     float64
	samples int
}

func NewMean(name string, field func(sim.StepStats) float64) *Mean {
	return &Mean{name: name, field: field}
}

func NewMeanContacts() *Mean {
	return NewMean("mean_contacts", func(s sim.StepStats) float64 { return float64(s.Contacts) })
}

func NewMeanPairs() *Mean {
	return NewMean("mean_pairs", func(s sim.StepStats) float64 { return float64(s.Pairs) })
}

func NewMeanFluidContacts() *Mean {
	return NewMean("mean_fluid_contacts", func(s sim.StepStats) float64 { return float64(s.FluidContacts) })
}

func NewMeanActiveBins() *Mean {
	return NewMean("mean_active_bins", func(s sim.StepStats) float64 { return float64(s.ActiveBins) })
}

func (m *Mean) Name() string { return m.name }

func (m *Mean) Observe(s sim.StepStats) {
	m.sum += m.field(s)
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}

// Peak tracks the maximum of one field.
type Peak struct {
	name  string
	field func(sim.StepStats) float64
	peak  float64
	seen  bool
}

func NewPeak(name string, field func(sim.StepStats) float64) *Peak {
	return &Peak{name: name, field: field}
}

func NewPeakPairs() *Peak {
	return NewPeak("peak_pairs", func(s sim.StepStats) float64 { return float64(s.Pairs) })
}

func NewMaxDepth() *Peak {
	return NewPeak("max_depth", func(s sim.StepStats) float64 { return s.MaxDepth })
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(s sim.StepStats) {
	v := p.field(s)
	if !p.seen || v > p.peak {
		p.peak = v
		p.seen = true
	}
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() {
	p.peak = 0
	p.seen = false
}

// PairEfficiency is the fraction of candidate pairs that produced at least
// one contact, summed over the run. Contacts beyond one per pair are
// capped out so box manifolds do not push it above 1.
type PairEfficiency struct {
	pairs    int
	contacts int
}

func NewPairEfficiency() *PairEfficiency { return &PairEfficiency{} }

func (e *PairEfficiency) Name() string { return "pair_efficiency" }

func (e *PairEfficiency) Observe(s sim.StepStats) {
	e.pairs += s.Pairs
	e.contacts += min(s.Contacts, s.Pairs)
}

func (e *PairEfficiency) Value() float64 {
	if e.pairs == 0 {
		return 1.0
	}
	return float64(e.contacts) / float64(e.pairs)
}

func (e *PairEfficiency) Reset() {
	e.pairs = 0
	e.contacts = 0
}
