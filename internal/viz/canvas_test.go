package viz

import (
	"image/color"
	"strings"
	"testing"

	"github.com/san-kum/bubbleclock/internal/sim"
)

func TestCanvas_SetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(1, 3)

	if c.Grid[0][0] != rune(blank|0x1|0x80) {
		t.Errorf("cell = %U, want %U", c.Grid[0][0], rune(blank|0x1|0x80))
	}

	c.Set(-1, 0)
	c.Set(100, 100)

	c.Clear()
	if c.Filled() != 0 {
		t.Errorf("filled after clear = %d", c.Filled())
	}
}

func TestCanvas_Size(t *testing.T) {
	c := NewCanvas(80, 24)
	w, h := c.Size()
	if w != 160 || h != 96 {
		t.Errorf("size = %vx%v, want 160x96", w, h)
	}

	c.Resize(10, 5)
	w, h = c.Size()
	if w != 20 || h != 20 {
		t.Errorf("size after resize = %vx%v, want 20x20", w, h)
	}
	if len(c.Grid) != 5 || len(c.Colors[4]) != 10 {
		t.Error("grid not reallocated")
	}
}

func TestCanvas_FillCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	paint := sim.Gradient{
		Inner: color.NRGBA{0xEC, 0x48, 0x99, 0x80},
		Outer: color.NRGBA{0xEC, 0x48, 0x99, 0xFF},
	}

	c.FillCircle(sim.Circle{X: 20, Y: 20, R: 8, Paint: paint})
	if c.Filled() == 0 {
		t.Fatal("circle drew nothing")
	}
	// center cell of the circle
	if c.Grid[5][10] != rune(blank|0xFF) {
		t.Errorf("center cell = %U, want full block", c.Grid[5][10])
	}
	if c.Colors[5][10] == c.Background {
		t.Error("center cell not colored")
	}
	// far corner is untouched
	if c.Grid[0][0] != blank {
		t.Error("corner cell should be empty")
	}
}

func TestCanvas_FillCircleDegenerate(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillCircle(sim.Circle{X: 5, Y: 5, R: 0})
	c.FillCircle(sim.Circle{X: 5, Y: 5, R: -3})
	if c.Filled() != 0 {
		t.Error("degenerate circles should not draw")
	}
}

func TestCanvas_Render(t *testing.T) {
	c := NewCanvas(6, 3)
	c.Set(0, 0)
	out := c.Render()
	if lines := strings.Split(out, "\n"); len(lines) != 3 {
		t.Errorf("rendered %d lines, want 3", len(lines))
	}
	if !strings.ContainsRune(out, rune(blank|0x1)) {
		t.Error("render lost the set dot")
	}
}
