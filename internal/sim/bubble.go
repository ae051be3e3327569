package sim

import (
	"math"
	"time"
)

// referenceFrame is the frame length the per-frame physics constants were
// tuned against.
const referenceFrame = time.Second / 60

// overshoot is the peak radius of the spawn animation relative to target.
const overshoot = 1.1

type Bubble struct {
	ID       uint64
	X, Y     float64
	VX, VY   float64
	Target   float64
	Radius   float64
	Category Category
	Paint    Gradient
	Phase    Phase
	// Age is the time spent in the current animated phase.
	Age     time.Duration
	Removed bool

	born uint64
}

// frames converts an elapsed duration into reference frames.
func frames(dt time.Duration) float64 {
	if dt <= 0 {
		return 0
	}
	return float64(dt) / float64(referenceFrame)
}

func progress(age, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	p := float64(age) / float64(duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// spawnRadius ramps 0% to 110% over the first half, then settles to 100%.
func spawnRadius(target, p float64) float64 {
	if p < 0.5 {
		return target * (p * 2 * overshoot)
	}
	return target * (overshoot - (p-0.5)*0.2)
}

// animate derives Radius from Phase, Age and Target.
func (b *Bubble) animate(duration time.Duration) {
	switch b.Phase {
	case Spawning:
		p := progress(b.Age, duration)
		if p >= 1 {
			b.Radius = b.Target
			b.Phase = Steady
			b.Age = 0
			return
		}
		b.Radius = spawnRadius(b.Target, p)
	case Steady:
		b.Radius = b.Target
	case Shrinking:
		p := progress(b.Age, duration)
		b.Radius = b.Target * (1 - p)
		if p >= 1 {
			b.Radius = 0
			b.Removed = true
		}
	}
}

// shrink starts the shrink animation from the bubble's current size so a
// bubble retired mid-spawn does not pop back to full size first.
func (b *Bubble) shrink(duration time.Duration) {
	ratio := 1.0
	if b.Target > 0 {
		ratio = math.Min(b.Radius/b.Target, 1)
	}
	b.Phase = Shrinking
	b.Age = time.Duration((1 - ratio) * float64(duration))
	b.animate(duration)
}

// Step advances the bubble by dt: radius animation, integration, wall bounce
// and, when enabled, the centering force.
func (b *Bubble) Step(dt time.Duration, w, h float64, cfg *Config) {
	if b.Removed {
		return
	}
	if dt > 0 {
		b.Age += dt
	}
	b.animate(cfg.AnimationDuration)
	if b.Removed {
		return
	}

	k := frames(dt)
	b.X += b.VX * k
	b.Y += b.VY * k
	b.bounce(w, h)

	if cfg.Features.Centering {
		b.center(w, h, cfg.CenteringStrength, k)
	}
}

// bounce reflects velocity off the viewport edges. Only a velocity pointing
// out of bounds is flipped, so a bubble still overlapping the wall while
// moving back inside keeps its direction.
func (b *Bubble) bounce(w, h float64) {
	if (b.X-b.Radius < 0 && b.VX < 0) || (b.X+b.Radius > w && b.VX > 0) {
		b.VX = -b.VX
	}
	if (b.Y-b.Radius < 0 && b.VY < 0) || (b.Y+b.Radius > h && b.VY > 0) {
		b.VY = -b.VY
	}
}

func (b *Bubble) valid() bool {
	for _, v := range [...]float64{b.X, b.Y, b.VX, b.VY, b.Radius, b.Target} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// reset puts a corrupted bubble back into a drawable state at the center.
func (b *Bubble) reset(w, h, target float64) {
	b.X, b.Y = w/2, h/2
	b.VX, b.VY = 0, 0
	b.Target = target
	b.Radius = target
	b.Phase = Steady
	b.Age = 0
}
