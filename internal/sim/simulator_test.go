package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/collision"
	"github.com/san-kum/mcollide/internal/scene"
	"github.com/san-kum/mcollide/internal/shape"
)

// approachingPair builds two unit spheres 3 apart moving toward each other
// at 1 unit per second each.
func approachingPair() *scene.World {
	w := scene.NewWorld("pair")
	a, ma := w.AddBody(mgl64.Vec3{-1.5, 0, 0}, mgl64.QuatIdent())
	ma.AddShape(shape.NewSphere(1, mgl64.Vec3{}))
	a.Velocity = mgl64.Vec3{1, 0, 0}
	b, mb := w.AddBody(mgl64.Vec3{1.5, 0, 0}, mgl64.QuatIdent())
	mb.AddShape(shape.NewSphere(1, mgl64.Vec3{}))
	b.Velocity = mgl64.Vec3{-1, 0, 0}
	return w
}

func TestSimulatorRun(t *testing.T) {
	s, err := Build(collision.DefaultConfig(), approachingPair())
	if err != nil {
		t.Fatal(err)
	}

	cfg := Config{Steps: 11, Dt: 0.1, CheckReports: true}
	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 11 || len(result.Steps) != 11 {
		t.Fatalf("expected 11 steps, got %d", result.StepsTaken)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected step errors: %v", result.Errors)
	}

	// gap closes at 2 units/s from 1: contact from t=0.5 on
	first := result.Steps[0]
	if first.Contacts != 0 || first.Shapes != 2 {
		t.Errorf("step 0: %+v", first)
	}
	last := result.Steps[10]
	if last.Contacts != 1 {
		t.Errorf("step 10: expected 1 contact, got %d", last.Contacts)
	}
	if last.MaxDepth < 0.99 || last.MaxDepth > 1.01 {
		t.Errorf("step 10: depth = %g, want 1", last.MaxDepth)
	}
	if len(result.Contacts) != 1 {
		t.Errorf("expected final contacts, got %v", result.Contacts)
	}
}

func TestSimulatorStaticWorld(t *testing.T) {
	s, err := Build(collision.DefaultConfig(), approachingPair())
	if err != nil {
		t.Fatal(err)
	}
	result, err := s.Run(context.Background(), Config{Steps: 3})
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range result.Steps {
		if st.Contacts != 0 || st.Time != 0 {
			t.Errorf("static world changed: %+v", st)
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(collision.New(collision.DefaultConfig()), scene.NewWorld("empty"))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero steps", Config{Steps: 0, Dt: 0.1}},
		{"negative steps", Config{Steps: -1, Dt: 0.1}},
		{"negative dt", Config{Steps: 10, Dt: -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorCanceled(t *testing.T) {
	s := New(collision.New(collision.DefaultConfig()), scene.NewWorld("empty"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := s.Run(ctx, Config{Steps: 5})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("expected partial empty result, got %+v", result)
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(s StepStats) {
	t.count++
	t.sum += float64(s.Contacts)
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

type countingObserver struct{ steps []int }

func (o *countingObserver) OnStep(s StepStats, sys *collision.System) {
	o.steps = append(o.steps, s.Step)
}

func TestSimulatorMetrics(t *testing.T) {
	s, err := Build(collision.DefaultConfig(), approachingPair())
	if err != nil {
		t.Fatal(err)
	}

	metric := &testMetric{}
	obs := &countingObserver{}
	s.AddMetric(metric)
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), Config{Steps: 10, Dt: 0.1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if len(obs.steps) != 10 || obs.steps[9] != 9 {
		t.Errorf("observer saw steps %v", obs.steps)
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	s, err := Build(collision.DefaultConfig(), approachingPair())
	if err != nil {
		t.Fatal(err)
	}
	seen := 0
	err = s.RunWithCallback(context.Background(), Config{Steps: 100, Dt: 0.1}, func(st StepStats) bool {
		seen++
		return st.Contacts == 0
	})
	if err != nil {
		t.Fatal(err)
	}
	// first contact at step 5 (t=0.5)
	if seen != 6 {
		t.Errorf("callback ran %d times, want 6", seen)
	}
}

func TestEnsemble(t *testing.T) {
	e := NewEnsemble(scene.Spheres, scene.Params{Count: 50, Extent: 4, Speed: 1}, collision.DefaultConfig(), 4, 10).
		WithMetrics(func() []Metric { return []Metric{&testMetric{}} })

	results, err := e.Run(context.Background(), Config{Steps: 5, Dt: 0.05, CheckReports: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.StepsTaken != 5 {
			t.Errorf("run %d took %d steps", i, r.StepsTaken)
		}
		if _, ok := r.Metrics["test"]; !ok {
			t.Errorf("run %d missing metric", i)
		}
	}
}

func TestStepError(t *testing.T) {
	err := &StepError{Time: 1.5, Step: 150, Wrapped: ErrReport}
	expected := "step 150 (t=1.5000): sim: inconsistent contact report"
	if err.Error() != expected {
		t.Errorf("StepError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrReport) {
		t.Error("StepError should unwrap to ErrReport")
	}
}
