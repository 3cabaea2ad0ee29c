package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mcollide/internal/collision"
	"github.com/san-kum/mcollide/internal/scene"
)

const (
	DefaultScene    = "spheres"
	DefaultSteps    = 100
	DefaultDt       = 0.01
	DefaultCount    = 500
	DefaultExtent   = 10.0
	DefaultSize     = 0.5
	DefaultEnvelope = 0.03
	DefaultDensity  = 5.0
)

type Config struct {
	Scene     string          `yaml:"scene"`
	Steps     int             `yaml:"steps"`
	Dt        float64         `yaml:"dt"`
	Params    scene.Params    `yaml:"params"`
	Collision CollisionConfig `yaml:"collision"`
}

type CollisionConfig struct {
	Envelope           float64    `yaml:"envelope"`
	Algorithm          string     `yaml:"algorithm"`
	Bins               [3]int     `yaml:"bins,flow"`
	FixedBins          bool       `yaml:"fixed_bins"`
	GridDensity        float64    `yaml:"grid_density"`
	MaxBins            int        `yaml:"max_bins,omitempty"`
	MaxContactsPerPair int        `yaml:"max_contacts_per_pair"`
	FluidRadius        float64    `yaml:"fluid_radius"`
	MaxFluidNeighbors  int        `yaml:"max_fluid_neighbors"`
	Threads            int        `yaml:"threads,omitempty"`
	CheckInvariants    bool       `yaml:"check_invariants,omitempty"`
	ActiveBox          *BoxConfig `yaml:"active_box,omitempty"`
}

type BoxConfig struct {
	Min [3]float64 `yaml:"min,flow"`
	Max [3]float64 `yaml:"max,flow"`
}

func DefaultConfig() *Config {
	c := collision.DefaultConfig()
	return &Config{
		Scene: DefaultScene,
		Steps: DefaultSteps,
		Dt:    DefaultDt,
		Params: scene.Params{
			Count:  DefaultCount,
			Extent: DefaultExtent,
			Size:   DefaultSize,
			Seed:   1,
		},
		Collision: CollisionConfig{
			Envelope:           DefaultEnvelope,
			Algorithm:          c.Algorithm.String(),
			Bins:               c.BinsPerAxis,
			GridDensity:        DefaultDensity,
			MaxContactsPerPair: c.MaxContactsPerPair,
			FluidRadius:        c.FluidRadius,
			MaxFluidNeighbors:  c.MaxFluidNeighbors,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.Dt < 0 {
		return fmt.Errorf("dt must not be negative, got %f", c.Dt)
	}
	if c.Collision.Envelope < 0 {
		return fmt.Errorf("envelope must not be negative, got %f", c.Collision.Envelope)
	}
	if _, err := collision.ParseAlgorithm(c.Collision.Algorithm); err != nil {
		return err
	}
	if b := c.Collision.ActiveBox; b != nil {
		for i := 0; i < 3; i++ {
			if b.Min[i] > b.Max[i] {
				return fmt.Errorf("active box min %v exceeds max %v", b.Min, b.Max)
			}
		}
	}
	return nil
}

// CollisionConfig converts the YAML section into a collision.Config.
func (c *Config) CollisionConfig() (collision.Config, error) {
	algo, err := collision.ParseAlgorithm(c.Collision.Algorithm)
	if err != nil {
		return collision.Config{}, err
	}
	cc := collision.DefaultConfig()
	cc.Envelope = c.Collision.Envelope
	cc.Algorithm = algo
	cc.BinsPerAxis = c.Collision.Bins
	cc.FixedBins = c.Collision.FixedBins
	cc.GridDensity = c.Collision.GridDensity
	if c.Collision.MaxBins > 0 {
		cc.MaxBins = c.Collision.MaxBins
	}
	cc.MaxContactsPerPair = c.Collision.MaxContactsPerPair
	cc.FluidRadius = c.Collision.FluidRadius
	cc.MaxFluidNeighbors = c.Collision.MaxFluidNeighbors
	cc.NumThreads = c.Collision.Threads
	cc.CheckInvariants = c.Collision.CheckInvariants
	return cc, nil
}

// NewSystem builds a collision system from the config, with the active
// box applied.
func (c *Config) NewSystem() (*collision.System, error) {
	cc, err := c.CollisionConfig()
	if err != nil {
		return nil, err
	}
	sys := collision.New(cc)
	if b := c.Collision.ActiveBox; b != nil {
		sys.EnableActiveBoundingBox(mgl64.Vec3(b.Min), mgl64.Vec3(b.Max))
	}
	return sys, nil
}
