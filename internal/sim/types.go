package sim

import (
	"image/color"
	"time"
)

type Category int

const (
	Hour Category = iota
	Minute
	Second
	numCategories
)

var categoryNames = [numCategories]string{"hours", "minutes", "seconds"}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// Categories lists the categories in draw order.
func Categories() []Category { return []Category{Hour, Minute, Second} }

type Phase int

const (
	Spawning Phase = iota
	Steady
	Shrinking
)

func (p Phase) String() string {
	switch p {
	case Spawning:
		return "spawning"
	case Steady:
		return "steady"
	case Shrinking:
		return "shrinking"
	}
	return "unknown"
}

type CategorySpec struct {
	Color      color.NRGBA
	BaseRadius float64
	MaxCount   int
}

// Features selects which behaviours a simulator runs. The zero value is the
// plain variant: instant spawn, instant removal, no forces, fixed scale.
type Features struct {
	SpawnAnimation  bool
	ShrinkAnimation bool
	Repulsion       bool
	Centering       bool
	DynamicScale    bool
}

func AllFeatures() Features {
	return Features{
		SpawnAnimation:  true,
		ShrinkAnimation: true,
		Repulsion:       true,
		Centering:       true,
		DynamicScale:    true,
	}
}

type Config struct {
	Categories [numCategories]CategorySpec
	Features   Features

	// UnitArea is the reference area of one bubble at scale 1.
	UnitArea float64
	// AnimationDuration covers both the spawn and the shrink animation.
	AnimationDuration time.Duration
	// MaxSpeed bounds the initial velocity on each axis, in pixels per frame.
	MaxSpeed          float64
	RepulsionImpulse  float64
	CenteringStrength float64
	// CenterOpacity is the alpha of a bubble's gradient center.
	CenterOpacity uint8
	// ResyncAfter bounds tick replay; larger gaps rebuild from the clock.
	ResyncAfter time.Duration
	Seed        int64
}

func DefaultConfig() Config {
	return Config{
		Categories: [numCategories]CategorySpec{
			Hour:   {Color: color.NRGBA{0x8B, 0x5C, 0xF6, 0xFF}, BaseRadius: 40, MaxCount: 12},
			Minute: {Color: color.NRGBA{0x3B, 0x82, 0xF6, 0xFF}, BaseRadius: 25, MaxCount: 59},
			Second: {Color: color.NRGBA{0xEC, 0x48, 0x99, 0xFF}, BaseRadius: 15, MaxCount: 59},
		},
		Features:          AllFeatures(),
		UnitArea:          1000,
		AnimationDuration: time.Second,
		MaxSpeed:          0.25,
		RepulsionImpulse:  0.05,
		CenteringStrength: 0.1,
		CenterOpacity:     0x80,
		ResyncAfter:       12 * time.Hour,
	}
}

// MaxTotal is the largest population the configured categories allow.
func (c Config) MaxTotal() int {
	n := 0
	for _, spec := range c.Categories {
		n += spec.MaxCount
	}
	return n
}

func (c Config) Spec(cat Category) CategorySpec { return c.Categories[cat] }

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type Viewport interface {
	Size() (w, h float64)
}

// Gradient is a radial fill from Inner at the center to Outer at the edge.
type Gradient struct {
	Inner, Outer color.NRGBA
}

type Circle struct {
	X, Y, R float64
	Paint   Gradient
}

type Surface interface {
	Viewport
	Clear()
	FillCircle(c Circle)
}

type Observer interface {
	OnFrame(s *Simulator, now time.Time)
}
