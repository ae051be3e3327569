package metrics

import (
	"time"

	"github.com/san-kum/bubbleclock/internal/sim"
)

// Population records the active bubble count per frame in a bounded history.
type Population struct {
	name     string
	capacity int
	history  []float64
	counts   [3]int
	retiring int
	peak     int
}

func NewPopulation(capacity int) *Population {
	if capacity < 1 {
		capacity = 1
	}
	return &Population{
		name:     "population",
		capacity: capacity,
		history:  make([]float64, 0, capacity),
	}
}

func (p *Population) Name() string { return p.name }

func (p *Population) OnFrame(s *sim.Simulator, now time.Time) {
	for i, cat := range sim.Categories() {
		p.counts[i] = s.Count(cat)
	}
	p.retiring = s.Retiring()

	active := s.Active()
	if active > p.peak {
		p.peak = active
	}
	p.history = append(p.history, float64(active))
	if len(p.history) > p.capacity {
		p.history = p.history[1:]
	}
}

// Value is the most recent active count.
func (p *Population) Value() float64 {
	if len(p.history) == 0 {
		return 0
	}
	return p.history[len(p.history)-1]
}

func (p *Population) Count(cat sim.Category) int {
	for i, c := range sim.Categories() {
		if c == cat {
			return p.counts[i]
		}
	}
	return 0
}

func (p *Population) Retiring() int { return p.retiring }
func (p *Population) Peak() int     { return p.peak }

func (p *Population) History() []float64 {
	out := make([]float64, len(p.history))
	copy(out, p.history)
	return out
}

func (p *Population) Reset() {
	p.history = p.history[:0]
	p.counts = [3]int{}
	p.retiring = 0
	p.peak = 0
}
