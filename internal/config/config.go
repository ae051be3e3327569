package config

import (
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/bubbleclock/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPreset    = "full"
	DefaultFPS       = 60
	DefaultTheme     = "midnight"
	DefaultWidth     = 1280
	DefaultHeight    = 720
	DefaultLogLevel  = "info"
	DefaultUnitArea  = 1000.0
	DefaultAnimation = time.Second
)

type Config struct {
	Preset     string           `yaml:"preset"`
	Features   FeaturesConfig   `yaml:"features"`
	Categories CategoriesConfig `yaml:"categories"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Render     RenderConfig     `yaml:"render"`
	Log        LogConfig        `yaml:"log"`
	Seed       int64            `yaml:"seed"`
}

type FeaturesConfig struct {
	SpawnAnimation  bool `yaml:"spawn_animation"`
	ShrinkAnimation bool `yaml:"shrink_animation"`
	Repulsion       bool `yaml:"repulsion"`
	Centering       bool `yaml:"centering"`
	DynamicScale    bool `yaml:"dynamic_scale"`
}

type CategoriesConfig struct {
	Hours   CategoryConfig `yaml:"hours"`
	Minutes CategoryConfig `yaml:"minutes"`
	Seconds CategoryConfig `yaml:"seconds"`
}

type CategoryConfig struct {
	Color      string  `yaml:"color"`
	BaseRadius float64 `yaml:"base_radius"`
	MaxCount   int     `yaml:"max_count"`
}

type PhysicsConfig struct {
	UnitArea          float64       `yaml:"unit_area"`
	AnimationDuration time.Duration `yaml:"animation_duration"`
	MaxSpeed          float64       `yaml:"max_speed"`
	RepulsionImpulse  float64       `yaml:"repulsion_impulse"`
	CenteringStrength float64       `yaml:"centering_strength"`
	CenterOpacity     float64       `yaml:"center_opacity"`
	ResyncAfter       time.Duration `yaml:"resync_after"`
}

type RenderConfig struct {
	FPS    int    `yaml:"fps"`
	Theme  string `yaml:"theme"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:   DefaultPreset,
		Features: Presets[DefaultPreset],
		Categories: CategoriesConfig{
			Hours:   CategoryConfig{Color: "#8B5CF6", BaseRadius: 40, MaxCount: 12},
			Minutes: CategoryConfig{Color: "#3B82F6", BaseRadius: 25, MaxCount: 59},
			Seconds: CategoryConfig{Color: "#EC4899", BaseRadius: 15, MaxCount: 59},
		},
		Physics: PhysicsConfig{
			UnitArea:          DefaultUnitArea,
			AnimationDuration: DefaultAnimation,
			MaxSpeed:          0.25,
			RepulsionImpulse:  0.05,
			CenteringStrength: 0.1,
			CenterOpacity:     0.5,
			ResyncAfter:       12 * time.Hour,
		},
		Render: RenderConfig{
			FPS:    DefaultFPS,
			Theme:  DefaultTheme,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads a YAML file on top of the defaults. A preset named in the file
// sets the feature flags before the file's own features section applies.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var header struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if header.Preset != "" {
		if err := cfg.ApplyPreset(header.Preset); err != nil {
			return nil, err
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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
	if c.Render.FPS <= 0 {
		return fmt.Errorf("render.fps must be positive, got %d", c.Render.FPS)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Physics.CenterOpacity < 0 || c.Physics.CenterOpacity > 1 {
		return fmt.Errorf("physics.center_opacity must be within [0, 1], got %f", c.Physics.CenterOpacity)
	}
	_, err := c.SimConfig()
	return err
}

// SimConfig converts the file representation into the simulator's config.
func (c *Config) SimConfig() (sim.Config, error) {
	out := sim.DefaultConfig()
	specs := map[sim.Category]CategoryConfig{
		sim.Hour:   c.Categories.Hours,
		sim.Minute: c.Categories.Minutes,
		sim.Second: c.Categories.Seconds,
	}
	for cat, cc := range specs {
		col, err := ParseColor(cc.Color)
		if err != nil {
			return sim.Config{}, fmt.Errorf("categories.%s.color: %w", cat, err)
		}
		out.Categories[cat] = sim.CategorySpec{Color: col, BaseRadius: cc.BaseRadius, MaxCount: cc.MaxCount}
	}

	out.Features = sim.Features{
		SpawnAnimation:  c.Features.SpawnAnimation,
		ShrinkAnimation: c.Features.ShrinkAnimation,
		Repulsion:       c.Features.Repulsion,
		Centering:       c.Features.Centering,
		DynamicScale:    c.Features.DynamicScale,
	}
	out.UnitArea = c.Physics.UnitArea
	out.AnimationDuration = c.Physics.AnimationDuration
	out.MaxSpeed = c.Physics.MaxSpeed
	out.RepulsionImpulse = c.Physics.RepulsionImpulse
	out.CenteringStrength = c.Physics.CenteringStrength
	out.CenterOpacity = uint8(c.Physics.CenterOpacity*255 + 0.5)
	out.ResyncAfter = c.Physics.ResyncAfter
	out.Seed = c.Seed

	if err := out.Validate(); err != nil {
		return sim.Config{}, err
	}
	return out, nil
}

// ParseColor accepts "#rrggbb" or "#rgb".
func ParseColor(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}, nil
}
