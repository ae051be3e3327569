package tui

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/bubbleclock/internal/sim"
)

const (
	home       = "\033[H"
	clearAll   = "\033[2J"
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
	reset      = "\033[0m"
	upperHalf  = '▀'
)

// LiveRenderer draws bubbles as truecolor half blocks. Each terminal cell
// holds two vertically stacked pixels, so the viewport is cols x rows*2.
type LiveRenderer struct {
	cols, rows int
	background colorful.Color
	pixels     []colorful.Color
	out        io.Writer
}

func NewLiveRenderer(out io.Writer, cols, rows int, background colorful.Color) *LiveRenderer {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	r := &LiveRenderer{
		cols:       cols,
		rows:       rows,
		background: background,
		pixels:     make([]colorful.Color, cols*rows*2),
		out:        out,
	}
	r.Clear()
	return r
}

func (r *LiveRenderer) Size() (float64, float64) {
	return float64(r.cols), float64(r.rows * 2)
}

func (r *LiveRenderer) Clear() {
	for i := range r.pixels {
		r.pixels[i] = r.background
	}
}

func (r *LiveRenderer) FillCircle(c sim.Circle) {
	if c.R <= 0 {
		return
	}
	w, h := r.cols, r.rows*2
	x0 := max(int(math.Floor(c.X-c.R)), 0)
	x1 := min(int(math.Ceil(c.X+c.R)), w-1)
	y0 := max(int(math.Floor(c.Y-c.R)), 0)
	y1 := min(int(math.Ceil(c.Y+c.R)), h-1)

	inner, outer := toColorful(c.Paint.Inner), toColorful(c.Paint.Outer)
	ia, oa := float64(c.Paint.Inner.A)/255, float64(c.Paint.Outer.A)/255

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := math.Hypot(float64(x)+0.5-c.X, float64(y)+0.5-c.Y)
			if d > c.R {
				continue
			}
			t := d / c.R
			i := y*w + x
			r.pixels[i] = r.pixels[i].BlendRgb(inner.BlendRgb(outer, t), ia+(oa-ia)*t)
		}
	}
}

// At returns the pixel at (x, y) in viewport coordinates.
func (r *LiveRenderer) At(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= r.cols || y >= r.rows*2 {
		return r.background
	}
	return r.pixels[y*r.cols+x]
}

// Flush writes the frame, preceded by a status line.
func (r *LiveRenderer) Flush(status string) error {
	var b strings.Builder
	b.WriteString(home)
	b.WriteString(status)
	b.WriteString("\033[K\n")

	var lastFg, lastBg colorful.Color
	first := true
	for row := 0; row < r.rows; row++ {
		for col := 0; col < r.cols; col++ {
			fg := r.pixels[(row*2)*r.cols+col]
			bg := r.pixels[(row*2+1)*r.cols+col]
			if first || fg != lastFg {
				fr, fgc, fb := fg.RGB255()
				fmt.Fprintf(&b, "\033[38;2;%d;%d;%dm", fr, fgc, fb)
			}
			if first || bg != lastBg {
				br, bgc, bb := bg.RGB255()
				fmt.Fprintf(&b, "\033[48;2;%d;%d;%dm", br, bgc, bb)
			}
			first = false
			lastFg, lastBg = fg, bg
			b.WriteRune(upperHalf)
		}
		b.WriteString(reset)
		first = true
		if row < r.rows-1 {
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *LiveRenderer) Start() error {
	_, err := io.WriteString(r.out, hideCursor+clearAll)
	return err
}

func (r *LiveRenderer) Stop() error {
	_, err := io.WriteString(r.out, reset+showCursor+"\n")
	return err
}

// Run drives s at fps until ctx is done. s must use r as its viewport.
func Run(ctx context.Context, s *sim.Simulator, r *LiveRenderer, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	if !s.Initialized() {
		s.Init()
	}
	if err := r.Start(); err != nil {
		return err
	}
	defer r.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			err := step(s, r, now.Sub(last))
			last = now
			if err != nil {
				return err
			}
		}
	}
}

// step runs one frame of at most sim.MaxFrameGap and draws it.
func step(s *sim.Simulator, r *LiveRenderer, dt time.Duration) error {
	s.Frame(sim.ClampFrame(dt))
	s.Render(r)
	return r.Flush(status(s))
}

func status(s *sim.Simulator) string {
	return fmt.Sprintf("  %s  h=%d m=%d s=%d  retiring=%d",
		s.Now().Format("15:04:05"), s.Count(sim.Hour), s.Count(sim.Minute), s.Count(sim.Second), s.Retiring())
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
