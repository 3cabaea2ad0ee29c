package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/mcollide/internal/collision"
	"github.com/san-kum/mcollide/internal/scene"
)

// Factory builds one metric set per run so runs never share state.
type Factory func() []Metric

// Ensemble runs the same scene under several seeds concurrently, each run
// on its own world and collision system.
type Ensemble struct {
	generator scene.Generator
	params    scene.Params
	cfg       collision.Config
	metrics   Factory
	numRuns   int
	seedStart uint64
}

func NewEnsemble(g scene.Generator, p scene.Params, cfg collision.Config, numRuns int, seedStart uint64) *Ensemble {
	return &Ensemble{generator: g, params: p, cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) WithMetrics(f Factory) *Ensemble {
	e.metrics = f
	return e
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	// thread count is process-wide; runs share the configured pool
	runCfg := e.cfg
	runCfg.NumThreads = 0

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			p := e.params
			p.Seed = e.seedStart + uint64(i)
			c := cfg
			c.Seed = p.Seed

			s, err := Build(runCfg, e.generator(p))
			if err != nil {
				return err
			}
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}
			results[i], err = s.Run(ctx, c)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
