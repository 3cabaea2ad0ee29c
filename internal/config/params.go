package config

import (
	"fmt"
	"slices"
)

// Tunable lists the collision parameters SetParam accepts.
var Tunable = []string{"envelope", "density", "bins", "max_contacts", "fluid_radius"}

// SetParam sets a numeric collision parameter by name. "bins" sets a
// cubic fixed grid.
func (c *Config) SetParam(name string, v float64) error {
	cc := &c.Collision
	switch name {
	case "envelope":
		if v < 0 {
			return fmt.Errorf("envelope must not be negative, got %f", v)
		}
		cc.Envelope = v
	case "density":
		if v <= 0 {
			return fmt.Errorf("density must be positive, got %f", v)
		}
		cc.GridDensity = v
		cc.FixedBins = false
	case "bins":
		if v < 1 {
			return fmt.Errorf("bins must be at least 1, got %f", v)
		}
		n := int(v)
		cc.Bins = [3]int{n, n, n}
		cc.FixedBins = true
	case "max_contacts":
		if v < 1 {
			return fmt.Errorf("max_contacts must be at least 1, got %f", v)
		}
		cc.MaxContactsPerPair = int(v)
	case "fluid_radius":
		if v < 0 {
			return fmt.Errorf("fluid_radius must not be negative, got %f", v)
		}
		cc.FluidRadius = v
	default:
		return fmt.Errorf("unknown parameter: %s (tunable: %v)", name, Tunable)
	}
	return nil
}

func IsTunable(name string) bool { return slices.Contains(Tunable, name) }
