package collision

import (
	"fmt"
	"log"
	"strings"
)

// Algorithm selects how the narrowphase computes contacts.
type Algorithm int

const (
	// AlgorithmHybrid uses an analytic routine when one exists for the
	// kind pair and falls back to GJK/EPA otherwise.
	AlgorithmHybrid Algorithm = iota
	// AlgorithmGJK runs GJK/EPA on support functions for every pair.
	AlgorithmGJK
	// AlgorithmPrims only uses analytic routines; other pairs give no contact.
	AlgorithmPrims
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmHybrid:
		return "hybrid"
	case AlgorithmGJK:
		return "gjk"
	case AlgorithmPrims:
		return "prims"
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(s) {
	case "hybrid", "":
		return AlgorithmHybrid, nil
	case "gjk", "mpr":
		return AlgorithmGJK, nil
	case "prims":
		return AlgorithmPrims, nil
	}
	return 0, fmt.Errorf("collision: unknown narrowphase algorithm %q", s)
}

type Config struct {
	// Envelope inflates every AABB and lets the narrowphase report
	// separated pairs closer than this margin with a negative depth.
	Envelope  float64
	Algorithm Algorithm

	// BinsPerAxis is used as is when FixedBins is set. Otherwise the grid
	// resolution follows GridDensity (expected shapes per bin).
	BinsPerAxis [3]int
	FixedBins   bool
	GridDensity float64
	MaxBins     int

	MaxContactsPerPair int

	// FluidRadius is the radius of every fluid particle.
	FluidRadius       float64
	MaxFluidNeighbors int

	// CheckInvariants validates the shape database before every Run and
	// panics with a *ContractError when it is corrupt.
	CheckInvariants bool

	// NumThreads > 0 sets the process-wide worker count at New.
	NumThreads int

	Logger *log.Logger
}

func DefaultConfig() Config {
	return Config{
		Envelope:           0.03,
		Algorithm:          AlgorithmHybrid,
		BinsPerAxis:        [3]int{10, 10, 10},
		GridDensity:        5,
		MaxBins:            1 << 20,
		MaxContactsPerPair: 4,
		FluidRadius:        0.1,
		MaxFluidNeighbors:  8,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Envelope < 0 {
		c.Envelope = 0
	}
	for i := range c.BinsPerAxis {
		if c.BinsPerAxis[i] < 1 {
			c.BinsPerAxis[i] = 1
		}
	}
	if c.GridDensity <= 0 {
		c.GridDensity = d.GridDensity
	}
	if c.MaxBins <= 0 {
		c.MaxBins = d.MaxBins
	}
	if c.MaxContactsPerPair < 1 {
		c.MaxContactsPerPair = 1
	}
	if c.FluidRadius < 0 {
		c.FluidRadius = 0
	}
	if c.MaxFluidNeighbors < 1 {
		c.MaxFluidNeighbors = d.MaxFluidNeighbors
	}
	return c
}
