package gui

// TouchGate filters raw touch transitions before they reach gesture
// handling. A touch that starts with more than one point, and every touch
// end, is consumed so the window never sees a pinch or zoom.
type TouchGate struct {
	prev     int
	consumed int
}

// Observe takes the current number of touch points and reports whether the
// transition since the last call was consumed.
func (g *TouchGate) Observe(points int) bool {
	if points < 0 {
		points = 0
	}
	prev := g.prev
	g.prev = points

	switch {
	case points > prev && points > 1:
		g.consumed++
		return true
	case points < prev:
		g.consumed++
		return true
	}
	return false
}

// Active reports whether a single finger is down and was let through.
func (g *TouchGate) Active() bool { return g.prev == 1 }

// Consumed returns how many transitions the gate swallowed.
func (g *TouchGate) Consumed() int { return g.consumed }
