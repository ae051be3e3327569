package sim

import "math"

// center nudges the bubble along the line from the viewport center. The
// push fades with distance, which spreads bubbles out of the middle.
func (b *Bubble) center(w, h, strength, k float64) {
	if strength == 0 || k == 0 {
		return
	}
	dx := b.X - w/2
	dy := b.Y - h/2
	d := math.Hypot(dx, dy)
	if d < 1 {
		d = 1
	}
	f := strength / d * k
	b.VX += f * dx / d
	b.VY += f * dy / d
}

// repel separates two overlapping bubbles by half the overlap each and adds
// a small velocity impulse pointing away from the other. Coincident centers
// have no defined axis and are left alone, as are non-finite distances.
func repel(a, b *Bubble, impulse, k float64) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	d := math.Hypot(dx, dy)
	reach := a.Radius + b.Radius
	if !(d > 0 && d < reach) {
		return false
	}

	overlap := (reach - d) / 2
	ux, uy := dx/d, dy/d

	a.X -= overlap * ux
	a.Y -= overlap * uy
	b.X += overlap * ux
	b.Y += overlap * uy

	j := impulse * k
	a.VX -= j * ux
	a.VY -= j * uy
	b.VX += j * ux
	b.VY += j * uy
	return true
}

// repelAll runs one serial pairwise separation pass over the drawable
// bubbles and reports how many pairs were separated.
func repelAll(bubbles []*Bubble, impulse, k float64) int {
	n := 0
	for i := 0; i < len(bubbles); i++ {
		a := bubbles[i]
		if a.Removed {
			continue
		}
		for j := i + 1; j < len(bubbles); j++ {
			b := bubbles[j]
			if b.Removed {
				continue
			}
			if repel(a, b, impulse, k) {
				n++
			}
		}
	}
	return n
}
