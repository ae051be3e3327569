package viz

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/bubbleclock/internal/sim"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a colored braille canvas. Each cell holds a 2x4 block of
// sub-pixels and one foreground color; the last write to a cell sets it.
// Sub-pixels are close to square, so the canvas doubles as the viewport the
// simulator sees, measured in sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]colorful.Color
	Background    colorful.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid for a w x h cell canvas. Contents are lost.
func (c *Canvas) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.Colors = make([][]colorful.Color, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]colorful.Color, w)
	}
	c.Clear()
}

// Size reports the canvas in sub-pixels.
func (c *Canvas) Size() (float64, float64) {
	return float64(c.Width * 2), float64(c.Height * 4)
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// SetColor sets a sub-pixel and paints its cell.
func (c *Canvas) SetColor(x, y int, col colorful.Color) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.Set(x, y)
	c.Colors[y/4][x/2] = col
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = c.Background
		}
	}
}

// FillCircle rasterizes a bubble. Sub-pixels are shaded along the radial
// gradient and composited over the background, since a terminal cell has
// no alpha channel.
func (c *Canvas) FillCircle(circle sim.Circle) {
	r := circle.R
	if r <= 0 {
		return
	}
	x0 := int(math.Floor(circle.X - r))
	x1 := int(math.Ceil(circle.X + r))
	y0 := int(math.Floor(circle.Y - r))
	y1 := int(math.Ceil(circle.Y + r))

	inner := toColorful(circle.Paint.Inner)
	outer := toColorful(circle.Paint.Outer)
	ia := float64(circle.Paint.Inner.A) / 255
	oa := float64(circle.Paint.Outer.A) / 255

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - circle.X
			dy := float64(y) + 0.5 - circle.Y
			d := math.Hypot(dx, dy)
			if d > r {
				continue
			}
			t := d / r
			alpha := ia + (oa-ia)*t
			shade := inner.BlendRgb(outer, t)
			c.SetColor(x, y, c.Background.BlendRgb(shade, alpha))
		}
	}
}

// Render returns the canvas with colors, one lipgloss style per run of
// equally colored cells.
func (c *Canvas) Render() string {
	bg := lipgloss.Color(c.Background.Hex())
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			style := lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(c.Colors[i][start].Hex()))
			b.WriteString(style.Render(string(row[start:j])))
			start = j
		}
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Filled counts cells with at least one sub-pixel set.
func (c *Canvas) Filled() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				n++
			}
		}
	}
	return n
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
