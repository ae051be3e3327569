package gui

import (
	"fmt"
	"image/color"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
	"github.com/san-kum/bubbleclock/internal/metrics"
	"github.com/san-kum/bubbleclock/internal/sim"
)

// Theme Colors
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

type Options struct {
	Width, Height int
	FPS           int
	Title         string
	Log           zerolog.Logger
}

// Screen reports the current window size. It is valid once the window is
// open and can be handed to sim.New before that.
type Screen struct{}

func (Screen) Size() (float64, float64) {
	return float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
}

// surface draws bubbles with raylib's gradient circles.
type surface struct {
	Screen
	bg color.RGBA
}

func (s surface) Clear() { rl.ClearBackground(s.bg) }

func (s surface) FillCircle(c sim.Circle) {
	if c.R <= 0 {
		return
	}
	rl.DrawCircleGradient(int32(c.X), int32(c.Y), float32(c.R), toRaylib(c.Paint.Inner), toRaylib(c.Paint.Outer))
}

func toRaylib(c color.NRGBA) color.RGBA {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

type App struct {
	Sim     *sim.Simulator
	Running bool
	ShowHUD bool
	Quit    bool

	pop   *metrics.Population
	touch TouchGate
	surf  surface
	log   zerolog.Logger
}

// initWindow opens a resizable window and sets the target FPS.
func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)
	// taps only; pinch and drag never reach the app
	rl.SetGesturesEnabled(uint32(rl.GestureTap))
}

func NewApp(s *sim.Simulator, log zerolog.Logger) *App {
	a := &App{
		Sim:     s,
		Running: true,
		ShowHUD: true,
		pop:     metrics.NewPopulation(0),
		surf:    surface{bg: ColBg},
		log:     log.With().Str("component", "gui").Logger(),
	}
	s.AddObserver(a.pop)
	return a
}

// Run opens the window and blocks until it is closed. s must have been
// built with a Screen viewport.
func Run(s *sim.Simulator, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("gui: invalid window size %dx%d", opts.Width, opts.Height)
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Title == "" {
		opts.Title = "bubbleclock"
	}

	initWindow(opts)
	defer rl.CloseWindow()

	a := NewApp(s, opts.Log)
	s.Init()
	a.log.Info().Int("width", rl.GetScreenWidth()).Int("height", rl.GetScreenHeight()).Msg("window opened")
	a.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !a.Quit && !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.Quit = true
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Sim.Init()
		a.pop.Reset()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}

	if a.touch.Observe(int(rl.GetTouchPointCount())) {
		a.log.Debug().Int("consumed", a.touch.Consumed()).Msg("touch consumed")
	} else if a.touch.Active() && rl.IsGestureDetected(rl.GestureTap) {
		a.ShowHUD = !a.ShowHUD
	}

	if !a.Running {
		return
	}
	a.Sim.Frame(sim.ClampFrame(time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	a.Sim.Render(a.surf)
	if a.ShowHUD {
		a.DrawHUD()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	h := int32(rl.GetScreenHeight())
	w := int32(rl.GetScreenWidth())

	a.drawText(a.Sim.Now().Format("15:04:05"), 30, 30, 24, ColSelect)

	y := int32(64)
	cfg := a.Sim.Config()
	for _, cat := range sim.Categories() {
		spec := cfg.Categories[cat]
		a.drawText(fmt.Sprintf("%-8s %2d/%d", cat, a.pop.Count(cat), spec.MaxCount), 30, y, 16, toRaylib(spec.Color))
		y += 22
	}
	a.drawText(fmt.Sprintf("retiring %d  scale %.3f", a.pop.Retiring(), a.Sim.Scale()), 30, y+6, 14, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, w-110, 30, 16, col)

	a.drawText("[SPACE] PAUSE  [R] RESET  [H] HUD  [Q] QUIT", 30, h-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), w-90, h-40, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y, size int32, c color.RGBA) {
	rl.DrawText(text, x, y, size, c)
}
