package sim

import (
	"math"
	"time"
)

// FixedScale sizes bubbles so that maxTotal bubbles of unitArea each cover
// the viewport area.
func FixedScale(area float64, maxTotal int, unitArea float64) float64 {
	if area <= 0 || maxTotal <= 0 || unitArea <= 0 {
		return 0
	}
	return math.Sqrt(area / (float64(maxTotal) * unitArea))
}

// DynamicScale grows bubbles as the live population shrinks. A population
// below one is treated as one.
func DynamicScale(area float64, live, maxTotal int, unitArea float64) float64 {
	if live < 1 {
		live = 1
	}
	base := FixedScale(area, maxTotal, unitArea)
	if base == 0 {
		return 0
	}
	return base * math.Sqrt(float64(maxTotal)/float64(live))
}

// TwelveHour maps a 24-hour clock hour onto 1..12.
func TwelveHour(h int) int {
	h %= 12
	if h == 0 {
		return 12
	}
	return h
}

func (s *Simulator) scaleFor(live int) float64 {
	if s.cfg.Features.DynamicScale {
		return DynamicScale(s.area, live, s.cfg.MaxTotal(), s.cfg.UnitArea)
	}
	return FixedScale(s.area, s.cfg.MaxTotal(), s.cfg.UnitArea)
}

func (s *Simulator) currentArea() float64 {
	w, h := s.viewport.Size()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Init populates the simulator from the clock: one bubble per elapsed hour
// (12-hour form), minute and second, all at full size.
func (s *Simulator) Init() {
	s.initAt(s.clock.Now())
}

func (s *Simulator) initAt(now time.Time) {
	h, m, sec := now.Clock()
	counts := [numCategories]int{
		Hour:   min(TwelveHour(h), s.cfg.Categories[Hour].MaxCount),
		Minute: min(m, s.cfg.Categories[Minute].MaxCount),
		Second: min(sec, s.cfg.Categories[Second].MaxCount),
	}

	s.bubbles = s.bubbles[:0]
	s.counts = [numCategories]int{}
	s.area = s.currentArea()
	s.scale = s.scaleFor(counts[Hour] + counts[Minute] + counts[Second])

	for _, cat := range Categories() {
		for i := 0; i < counts[cat]; i++ {
			s.spawn(cat, true)
		}
	}

	s.last = now.Truncate(time.Second)
	s.lastMinute = m
	s.initialized = true

	s.log.Debug().
		Int("hours", counts[Hour]).
		Int("minutes", counts[Minute]).
		Int("seconds", counts[Second]).
		Float64("scale", s.scale).
		Msg("bubbles initialized")
}

// Reconcile adds and retires bubbles for every whole second elapsed since
// the previous reconciliation and returns the number of ticks applied. It
// is a no-op until Init has run.
func (s *Simulator) Reconcile(now time.Time) int {
	if !s.initialized {
		return 0
	}

	rescale := false
	if area := s.currentArea(); area != s.area {
		s.area = area
		rescale = true
	}
	if m := now.Minute(); m != s.lastMinute {
		s.lastMinute = m
		rescale = true
	}

	elapsed := now.Sub(s.last)
	if (s.cfg.ResyncAfter > 0 && elapsed > s.cfg.ResyncAfter) || elapsed < -time.Second {
		s.log.Info().Dur("gap", elapsed).Msg("clock gap too large, resyncing")
		s.initAt(now)
		return 0
	}

	ticks := 0
	if elapsed >= time.Second {
		ticks = int(elapsed / time.Second)
		s.pass++
		for i := 0; i < ticks; i++ {
			s.tick()
		}
		s.last = s.last.Add(time.Duration(ticks) * time.Second)
		s.sweep()
		rescale = true
	}

	if rescale {
		s.rescale()
	}
	return ticks
}

// tick advances the population by one second of the clock.
func (s *Simulator) tick() {
	if s.grow(Second) {
		return
	}
	s.retire(Second)
	if s.grow(Minute) {
		return
	}
	s.retire(Minute)
	if s.grow(Hour) {
		return
	}
	s.retire(Hour)
	s.log.Debug().Msg("twelve hour wrap")
}

func (s *Simulator) grow(cat Category) bool {
	if s.counts[cat] >= s.cfg.Categories[cat].MaxCount {
		return false
	}
	s.spawn(cat, false)
	return true
}

func (s *Simulator) spawn(cat Category, full bool) *Bubble {
	spec := s.cfg.Categories[cat]
	w, h := s.viewport.Size()

	s.nextID++
	b := &Bubble{
		ID:       s.nextID,
		X:        s.rng.Float64() * w,
		Y:        s.rng.Float64() * h,
		VX:       (s.rng.Float64() - 0.5) * 2 * s.cfg.MaxSpeed,
		VY:       (s.rng.Float64() - 0.5) * 2 * s.cfg.MaxSpeed,
		Target:   spec.BaseRadius * s.scale,
		Category: cat,
		Paint:    s.paint(cat),
		born:     s.pass,
	}
	if full || !s.cfg.Features.SpawnAnimation {
		b.Phase = Steady
		b.Radius = b.Target
	} else {
		b.Phase = Spawning
	}

	s.bubbles = append(s.bubbles, b)
	s.counts[cat]++
	return b
}

// retire takes every active bubble of cat out of the count. Bubbles either
// start shrinking or, when shrinking is disabled or they were created in
// the current reconciliation and never drawn, are removed outright.
func (s *Simulator) retire(cat Category) {
	for _, b := range s.bubbles {
		if b.Category != cat || b.Removed || b.Phase == Shrinking {
			continue
		}
		if s.cfg.Features.ShrinkAnimation && b.born != s.pass {
			b.shrink(s.cfg.AnimationDuration)
		} else {
			b.Removed = true
		}
	}
	s.counts[cat] = 0
}

// rescale recomputes the scale factor. With dynamic scaling every bubble's
// target follows it in place; animations keep their progress.
func (s *Simulator) rescale() {
	prev := s.scale
	s.scale = s.scaleFor(s.Active())
	if !s.cfg.Features.DynamicScale {
		return
	}
	for _, b := range s.bubbles {
		b.Target = s.cfg.Categories[b.Category].BaseRadius * s.scale
		b.animate(s.cfg.AnimationDuration)
	}
	if prev != s.scale {
		s.log.Trace().Float64("scale", s.scale).Int("active", s.Active()).Msg("rescaled")
	}
}

func (s *Simulator) paint(cat Category) Gradient {
	outer := s.cfg.Categories[cat].Color
	outer.A = 0xFF
	inner := outer
	inner.A = s.cfg.CenterOpacity
	return Gradient{Inner: inner, Outer: outer}
}
