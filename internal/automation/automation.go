package automation

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mcollide/internal/config"
	"github.com/san-kum/mcollide/internal/metrics"
	"github.com/san-kum/mcollide/internal/scene"
	"github.com/san-kum/mcollide/internal/sim"
)

// Scenario defines a scripted sequence of collision runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. It starts from Preset of Scene, or from the
// defaults, and applies the non-zero overrides.
type ScenarioStep struct {
	Scene     string             `yaml:"scene"`
	Preset    string             `yaml:"preset"`
	Steps     int                `yaml:"steps"`
	Dt        float64            `yaml:"dt"`
	Count     int                `yaml:"count"`
	Seed      uint64             `yaml:"seed"`
	Algorithm string             `yaml:"algorithm"`
	Params    map[string]float64 `yaml:"params"`
	SaveAs    string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("automation: scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Config resolves the step into a full run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Scene, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %s/%s", s.Scene, s.Preset)
		}
	}
	if s.Scene != "" {
		cfg.Scene = s.Scene
	}
	if s.Steps > 0 {
		cfg.Steps = s.Steps
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Count > 0 {
		cfg.Params.Count = s.Count
	}
	if s.Seed > 0 {
		cfg.Params.Seed = s.Seed
	}
	if s.Algorithm != "" {
		cfg.Collision.Algorithm = s.Algorithm
	}
	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// Build creates the world and simulator for cfg, with the default metrics
// attached.
func Build(cfg *config.Config, registry *scene.Registry) (*sim.Simulator, error) {
	world, err := registry.Get(cfg.Scene, cfg.Params)
	if err != nil {
		return nil, err
	}
	sys, err := cfg.NewSystem()
	if err != nil {
		return nil, err
	}
	if err := world.Register(sys); err != nil {
		return nil, err
	}
	s := sim.New(sys, world)
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}
	return s, nil
}

// RunConfig is the sim configuration for cfg.
func RunConfig(cfg *config.Config) sim.Config {
	return sim.Config{Steps: cfg.Steps, Dt: cfg.Dt, Seed: cfg.Params.Seed, CheckReports: true}
}

// Runner executes scenarios, logging progress to Logger.
type Runner struct {
	Registry *scene.Registry
	Logger   *log.Logger
}

func NewRunner(registry *scene.Registry, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Runner{Registry: registry, Logger: logger}
}

// RunScenario executes all steps in a scenario
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]*sim.Result, error) {
	results := make([]*sim.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		r.Logger.Printf("running step %d/%d: %s", i+1, len(scenario.Steps), cfg.Scene)

		s, err := Build(cfg, r.Registry)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := s.Run(ctx, RunConfig(cfg))
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, result)
	}

	return results, nil
}

// ParameterSweep runs one scene across a range of a collision parameter
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds the run summary for one parameter value
type SweepResult struct {
	ParamValue   float64
	MeanPairs    float64
	MeanContacts float64
	StepMillis   float64
}

// RunSweep executes a parameter sweep
func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if !config.IsTunable(sweep.ParamName) {
		return nil, fmt.Errorf("parameter %s is not tunable", sweep.ParamName)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := *sweep.Base
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		s, err := Build(&cfg, r.Registry)
		if err != nil {
			return nil, err
		}

		result, err := s.Run(ctx, RunConfig(&cfg))
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue:   paramVal,
			MeanPairs:    result.Metrics["mean_pairs"],
			MeanContacts: result.Metrics["mean_contacts"],
			StepMillis:   result.Metrics["mean_step_ms"],
		})

		r.Logger.Printf("sweep %d/%d: %s=%.4f", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloConfig runs one scene under many seeds
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Seed      uint64
}

// MonteCarloResult holds the outcome of one seeded trial
type MonteCarloResult struct {
	TrialID      int
	Seed         uint64
	MeanContacts float64
	PeakPairs    float64
	// Consistent is false when any contact report bracket was malformed.
	Consistent bool
}

// RunMonteCarlo executes seeded trials concurrently through a sim.Ensemble
func (r *Runner) RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig) ([]MonteCarloResult, error) {
	gen, err := generator(r.Registry, mc.Base.Scene)
	if err != nil {
		return nil, err
	}
	cc, err := mc.Base.CollisionConfig()
	if err != nil {
		return nil, err
	}

	ens := sim.NewEnsemble(gen, mc.Base.Params, cc, mc.NumTrials, mc.Seed).WithMetrics(metrics.Defaults)
	runs, err := ens.Run(ctx, RunConfig(mc.Base))
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, res := range runs {
		results[i] = MonteCarloResult{
			TrialID:      i,
			Seed:         mc.Seed + uint64(i),
			MeanContacts: res.Metrics["mean_contacts"],
			PeakPairs:    res.Metrics["peak_pairs"],
			Consistent:   len(res.Errors) == 0,
		}
	}
	r.Logger.Printf("monte carlo: %d trials complete", len(results))

	return results, nil
}

func generator(registry *scene.Registry, name string) (scene.Generator, error) {
	if _, err := registry.Get(name, scene.Params{Count: 1}); err != nil {
		return nil, err
	}
	return func(p scene.Params) *scene.World {
		w, _ := registry.Get(name, p)
		return w
	}, nil
}

// MonteCarloStats counts consistent and inconsistent trials
func MonteCarloStats(results []MonteCarloResult) (consistent int, inconsistent int) {
	for _, r := range results {
		if r.Consistent {
			consistent++
		} else {
			inconsistent++
		}
	}
	return
}
