package sim

import (
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixedViewport struct{ w, h float64 }

func (v *fixedViewport) Size() (float64, float64) { return v.w, v.h }

type recordingSurface struct {
	fixedViewport
	clears  int
	circles []Circle
}

func (r *recordingSurface) Clear() {
	r.clears++
	r.circles = r.circles[:0]
}

func (r *recordingSurface) FillCircle(c Circle) { r.circles = append(r.circles, c) }

func at(h, m, s int) time.Time {
	return time.Date(2024, 5, 1, h, m, s, 0, time.UTC)
}

func newTestSim(start time.Time, cfg Config) (*Simulator, *fakeClock, *fixedViewport) {
	clock := &fakeClock{t: start}
	vp := &fixedViewport{w: 1300, h: 1000}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	s, err := New(cfg, clock, vp)
	if err != nil {
		panic(err)
	}
	return s, clock, vp
}
