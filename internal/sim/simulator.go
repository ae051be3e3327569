package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// MaxFrameGap is the longest frame time a frontend passes to Frame. A
// stalled or suspended frontend resumes with one capped frame; the population
// still catches up from the clock.
const MaxFrameGap = 250 * time.Millisecond

// ClampFrame limits dt to [0, MaxFrameGap].
func ClampFrame(dt time.Duration) time.Duration {
	if dt < 0 {
		return 0
	}
	if dt > MaxFrameGap {
		return MaxFrameGap
	}
	return dt
}

// Simulator owns one clock's bubble population. It is driven from a single
// frame loop and is not safe for concurrent use.
type Simulator struct {
	cfg       Config
	clock     Clock
	viewport  Viewport
	rng       *rand.Rand
	log       zerolog.Logger
	observers []Observer

	bubbles []*Bubble
	counts  [numCategories]int
	nextID  uint64

	initialized bool
	last        time.Time
	lastMinute  int
	area        float64
	scale       float64
	pass        uint64
	frameCount  uint64
}

func New(cfg Config, clock Clock, viewport Viewport) (*Simulator, error) {
	if clock == nil {
		return nil, ErrNilClock
	}
	if viewport == nil {
		return nil, ErrNilViewport
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Simulator{
		cfg:       cfg,
		clock:     clock,
		viewport:  viewport,
		rng:       rand.New(rand.NewSource(seed)),
		log:       zerolog.Nop(),
		observers: make([]Observer, 0),
		bubbles:   make([]*Bubble, 0, cfg.MaxTotal()),
	}, nil
}

func (s *Simulator) SetLogger(l zerolog.Logger) { s.log = l.With().Str("component", "sim").Logger() }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

// Frame runs one frame: reconcile against the clock, step every bubble by
// dt, separate overlapping bubbles and drop finished ones.
func (s *Simulator) Frame(dt time.Duration) {
	now := s.clock.Now()
	s.Reconcile(now)

	w, h := s.viewport.Size()
	for _, b := range s.bubbles {
		b.Step(dt, w, h, &s.cfg)
	}
	if s.cfg.Features.Repulsion {
		repelAll(s.bubbles, s.cfg.RepulsionImpulse, frames(dt))
	}
	s.heal(w, h)
	s.sweep()
	s.frameCount++

	for _, o := range s.observers {
		o.OnFrame(s, now)
	}
}

// heal resets any bubble whose state went non-finite.
func (s *Simulator) heal(w, h float64) {
	for _, b := range s.bubbles {
		if b.valid() {
			continue
		}
		s.log.Warn().Uint64("id", b.ID).Str("category", b.Category.String()).Msg("non-finite bubble state reset")
		b.reset(w, h, s.cfg.Categories[b.Category].BaseRadius*s.scale)
	}
}

func (s *Simulator) sweep() {
	live := s.bubbles[:0]
	for _, b := range s.bubbles {
		if !b.Removed {
			live = append(live, b)
		}
	}
	for i := len(live); i < len(s.bubbles); i++ {
		s.bubbles[i] = nil
	}
	s.bubbles = live
}

// Render clears the surface and draws every bubble still on screen.
func (s *Simulator) Render(surface Surface) {
	surface.Clear()
	for _, b := range s.bubbles {
		if b.Removed {
			continue
		}
		surface.FillCircle(Circle{X: b.X, Y: b.Y, R: math.Max(b.Radius, 0), Paint: b.Paint})
	}
}

// Now reads the simulator's clock.
func (s *Simulator) Now() time.Time { return s.clock.Now() }

func (s *Simulator) Initialized() bool { return s.initialized }
func (s *Simulator) Config() Config    { return s.cfg }
func (s *Simulator) Scale() float64    { return s.scale }
func (s *Simulator) Frames() uint64    { return s.frameCount }

// Count returns the number of active (not retiring) bubbles in cat.
func (s *Simulator) Count(cat Category) int {
	if cat < 0 || cat >= numCategories {
		return 0
	}
	return s.counts[cat]
}

func (s *Simulator) Active() int {
	return s.counts[Hour] + s.counts[Minute] + s.counts[Second]
}

// Retiring returns the number of bubbles still playing their shrink animation.
func (s *Simulator) Retiring() int {
	n := 0
	for _, b := range s.bubbles {
		if b.Phase == Shrinking && !b.Removed {
			n++
		}
	}
	return n
}

// Bubbles returns a copy of the current population.
func (s *Simulator) Bubbles() []Bubble {
	out := make([]Bubble, 0, len(s.bubbles))
	for _, b := range s.bubbles {
		out = append(out, *b)
	}
	return out
}
