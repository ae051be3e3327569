package config

import (
	"fmt"
	"sort"
)

// Presets are the feature sets of the clock's variants, from the plain
// static clock up to the full simulation.
var Presets = map[string]FeaturesConfig{
	"simple": {},
	"spawn": {
		SpawnAnimation: true,
	},
	"shrink": {
		SpawnAnimation:  true,
		ShrinkAnimation: true,
		DynamicScale:    true,
	},
	"full": {
		SpawnAnimation:  true,
		ShrinkAnimation: true,
		Repulsion:       true,
		Centering:       true,
		DynamicScale:    true,
	},
}

func GetPreset(name string) *Config {
	if _, ok := Presets[name]; !ok {
		return nil
	}
	cfg := DefaultConfig()
	_ = cfg.ApplyPreset(name)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) ApplyPreset(name string) error {
	f, ok := Presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %s (available: %v)", name, ListPresets())
	}
	c.Preset = name
	c.Features = f
	return nil
}
