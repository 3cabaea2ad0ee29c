package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/mcollide/internal/sim"
)

// Builder creates a simulator for one parameter combination.
type Builder func(params map[string]float64) (*sim.Simulator, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Trial is one evaluated parameter combination.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Search evaluates every combination and returns the one minimizing
// metricName, together with all trials in evaluation order. Failing
// combinations are recorded and skipped.
func (g *GridSearch) Search(ctx context.Context, build Builder, cfg sim.Config, metricName string) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("optim: %d parameters, %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	var trials []Trial

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		t := Trial{Params: params}
		t.Value, t.Err = evaluate(ctx, build, params, cfg, metricName)
		trials = append(trials, t)
		if errors.Is(t.Err, context.Canceled) || errors.Is(t.Err, context.DeadlineExceeded) {
			return t.Err
		}
		if t.Err == nil && t.Value < best {
			best = t.Value
			bestParams = params
		}
		return nil
	})
	if err != nil {
		return bestParams, best, trials, err
	}
	if bestParams == nil {
		return nil, best, trials, fmt.Errorf("optim: no combination produced %s", metricName)
	}

	return bestParams, best, trials, nil
}

func evaluate(ctx context.Context, build Builder, params map[string]float64, cfg sim.Config, metricName string) (float64, error) {
	s, err := build(params)
	if err != nil {
		return 0, err
	}
	result, err := s.Run(ctx, cfg)
	if err != nil {
		return 0, err
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("optim: metric %s not recorded", metricName)
	}
	return val, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64) error) error {
	if depth == len(g.paramNames) {
		return visit(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		if err := ctx.Err(); err != nil {
			return err
		}
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
