package config

import (
	"slices"

	"github.com/san-kum/mcollide/internal/scene"
)

func preset(sceneName string, steps int, p scene.Params, tweak func(*CollisionConfig)) *Config {
	c := DefaultConfig()
	c.Scene = sceneName
	c.Steps = steps
	c.Params = p
	if tweak != nil {
		tweak(&c.Collision)
	}
	return c
}

func algorithm(name string, maxContacts int) func(*CollisionConfig) {
	return func(c *CollisionConfig) {
		c.Algorithm = name
		c.MaxContactsPerPair = maxContacts
	}
}

func fixedGrid(n int) func(*CollisionConfig) {
	return func(c *CollisionConfig) {
		c.FixedBins = true
		c.Bins = [3]int{n, n, n}
	}
}

func density(d float64) func(*CollisionConfig) {
	return func(c *CollisionConfig) { c.GridDensity = d }
}

func activeBox(half float64) func(*CollisionConfig) {
	return func(c *CollisionConfig) {
		c.ActiveBox = &BoxConfig{Min: [3]float64{-half, -half, -half}, Max: [3]float64{half, half, half}}
	}
}

var (
	sparseSpheres = scene.Params{Count: 200, Extent: 20, Size: 0.5, Speed: 1, Seed: 1}
	denseSpheres  = scene.Params{Count: 2000, Extent: 10, Size: 0.5, Speed: 1, Seed: 1}
	boxCloud      = scene.Params{Count: 1000, Extent: 10, Size: 0.5, Speed: 1, Seed: 1}
	mixedPile     = scene.Params{Count: 500, Extent: 6, Size: 0.4, Speed: 0.5, Seed: 2}
)

var Presets = map[string]map[string]*Config{
	"spheres": {
		"sparse": preset("spheres", 100, sparseSpheres, nil),
		"dense":  preset("spheres", 100, denseSpheres, nil),
		"prims":  preset("spheres", 100, denseSpheres, algorithm("prims", 1)),
	},
	"boxes": {
		"hybrid":     preset("boxes", 100, boxCloud, nil),
		"gjk":        preset("boxes", 100, boxCloud, algorithm("gjk", 1)),
		"fixed_grid": preset("boxes", 100, boxCloud, fixedGrid(16)),
	},
	"lattice": {
		"thousand": preset("lattice", 10, scene.Params{Count: 1000, Size: 0.5, Seed: 1}, density(2)),
	},
	"stack": {
		"tower": preset("stack", 10, scene.Params{Count: 20, Extent: 5, Size: 0.5}, nil),
	},
	"pile": {
		"mixed":         preset("pile", 200, mixedPile, nil),
		"active_region": preset("pile", 200, mixedPile, activeBox(3)),
	},
	"compound": {
		"drift": preset("compound", 200, scene.Params{Count: 300, Extent: 8, Size: 0.4, Speed: 1, Seed: 4}, nil),
	},
	"fluid": {
		"block": preset("fluid", 100, scene.Params{Count: 64, Extent: 4, Size: 0.2, Speed: 1, Fluid: 4000}, nil),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(sceneName, name string) *Config {
	scenePresets, ok := Presets[sceneName]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	if cfg.Collision.ActiveBox != nil {
		box := *cfg.Collision.ActiveBox
		c.Collision.ActiveBox = &box
	}
	return &c
}

// ListPresets returns the preset names of a scene in sorted order.
func ListPresets(sceneName string) []string {
	scenePresets, ok := Presets[sceneName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
