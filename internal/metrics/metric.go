package metrics

import "github.com/san-kum/bubbleclock/internal/sim"

// Metric is a named per-frame measurement fed by the simulator.
type Metric interface {
	sim.Observer
	Name() string
	Value() float64
	Reset()
}

var (
	_ Metric = (*Population)(nil)
	_ Metric = (*FrameRate)(nil)
)
