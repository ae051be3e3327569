package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/bubbleclock/internal/sim"
)

// SVG is a sim.Surface that records circles and writes them as an SVG
// document. Each distinct paint gets one radialGradient.
type SVG struct {
	Width, Height float64
	Background    colorful.Color

	circles   []sim.Circle
	gradients []sim.Gradient
	ids       map[sim.Gradient]int
}

func NewSVG(width, height float64, background colorful.Color) *SVG {
	return &SVG{
		Width:      width,
		Height:     height,
		Background: background,
		ids:        make(map[sim.Gradient]int),
	}
}

func (s *SVG) Size() (float64, float64) { return s.Width, s.Height }

func (s *SVG) Clear() {
	s.circles = s.circles[:0]
}

func (s *SVG) FillCircle(c sim.Circle) {
	if c.R <= 0 {
		return
	}
	if _, ok := s.ids[c.Paint]; !ok {
		s.ids[c.Paint] = len(s.gradients)
		s.gradients = append(s.gradients, c.Paint)
	}
	s.circles = append(s.circles, c)
}

// Circles returns the number of recorded circles.
func (s *SVG) Circles() int { return len(s.circles) }

func (s *SVG) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.Width, s.Height, s.Width, s.Height, s.Background.Hex()))

	if len(s.gradients) > 0 {
		sb.WriteString("<defs>\n")
		for i, g := range s.gradients {
			sb.WriteString(fmt.Sprintf(`<radialGradient id="g%d">
<stop offset="0%%" stop-color="%s" stop-opacity="%.3f"/>
<stop offset="100%%" stop-color="%s" stop-opacity="%.3f"/>
</radialGradient>
`, i, hex(g.Inner), opacity(g.Inner), hex(g.Outer), opacity(g.Outer)))
		}
		sb.WriteString("</defs>\n")
	}

	for _, c := range s.circles {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="url(#g%d)"/>
`, c.X, c.Y, c.R, s.ids[c.Paint]))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// Save writes the document to path.
func (s *SVG) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SeriesToSVG draws a line chart of values, e.g. the active bubble count
// over a run.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	span := maxV - minV
	if span == 0 {
		span = 1
	}
	minV -= span * 0.1
	maxV += span * 0.1
	span = maxV - minV

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	step := float64(width) / float64(len(values)-1)
	for i, v := range values {
		x := float64(i) * step
		y := float64(height) - (v-minV)/span*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// SaveSeries writes SeriesToSVG output to path.
func SaveSeries(path string, values []float64, width, height int, strokeColor string) error {
	doc := SeriesToSVG(values, width, height, strokeColor)
	if doc == "" {
		return fmt.Errorf("series needs at least 2 values, got %d", len(values))
	}
	return os.WriteFile(path, []byte(doc), 0644)
}

func hex(c color.NRGBA) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

func opacity(c color.NRGBA) float64 { return float64(c.A) / 255 }
