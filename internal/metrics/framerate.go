package metrics

import (
	"time"

	"github.com/san-kum/bubbleclock/internal/sim"
)

// FrameRate tracks an exponentially smoothed frames-per-second estimate
// from the timestamps frames are observed at.
type FrameRate struct {
	name  string
	alpha float64
	last  time.Time
	fps   float64
}

func NewFrameRate(alpha float64) *FrameRate {
	if alpha <= 0 || alpha > 1 {
		alpha = 0.1
	}
	return &FrameRate{name: "fps", alpha: alpha}
}

func (f *FrameRate) Name() string { return f.name }

func (f *FrameRate) OnFrame(s *sim.Simulator, now time.Time) {
	f.Observe(now)
}

func (f *FrameRate) Observe(now time.Time) {
	if f.last.IsZero() {
		f.last = now
		return
	}
	dt := now.Sub(f.last).Seconds()
	f.last = now
	if dt <= 0 {
		return
	}
	inst := 1 / dt
	if f.fps == 0 {
		f.fps = inst
		return
	}
	f.fps += f.alpha * (inst - f.fps)
}

func (f *FrameRate) Value() float64 { return f.fps }

func (f *FrameRate) Reset() {
	f.last = time.Time{}
	f.fps = 0
}
