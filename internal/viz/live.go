package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"
	"github.com/san-kum/bubbleclock/internal/metrics"
	"github.com/san-kum/bubbleclock/internal/sim"
)

const (
	panelWidth      = 34
	historyCapacity = 240
)

type TickMsg time.Time

// Model drives a simulator from bubbletea ticks and draws it on a canvas.
// The canvas is the simulator's viewport, so terminal resizes reach the
// simulation on the next tick.
type Model struct {
	sim       *sim.Simulator
	canvas    *Canvas
	pop       *metrics.Population
	metrics   []metrics.Metric
	theme     Theme
	styles    styles
	interval  time.Duration
	last      time.Time
	running   bool
	showPanel bool
	showHelp  bool
	width     int
	height    int
	log       zerolog.Logger
}

type Option func(*Model)

func WithTheme(name string) Option {
	return func(m *Model) { m.setTheme(GetTheme(name)) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.log = l.With().Str("component", "tui").Logger() }
}

func WithPanel(show bool) Option {
	return func(m *Model) { m.showPanel = show }
}

// NewModel wires the model to s. canvas must be the viewport s was built with.
func NewModel(s *sim.Simulator, canvas *Canvas, fps int, opts ...Option) *Model {
	if fps <= 0 {
		fps = 30
	}
	m := &Model{
		sim:       s,
		canvas:    canvas,
		pop:       metrics.NewPopulation(historyCapacity),
		interval:  time.Second / time.Duration(fps),
		running:   true,
		showPanel: true,
		log:       zerolog.Nop(),
	}
	m.metrics = []metrics.Metric{m.pop, metrics.NewFrameRate(0.1)}
	m.setTheme(ThemeMidnight)
	for _, opt := range opts {
		opt(m)
	}
	for _, mt := range m.metrics {
		s.AddObserver(mt)
	}
	if !s.Initialized() {
		s.Init()
	}
	return m
}

func (m *Model) setTheme(t Theme) {
	m.theme = t
	m.styles = newStyles(t)
	if bg, err := colorful.Hex(string(t.Background)); err == nil {
		m.canvas.Background = bg
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.sim.Init()
			for _, mt := range m.metrics {
				mt.Reset()
			}
			m.log.Debug().Msg("reset from clock")
		case "p":
			m.showPanel = !m.showPanel
			m.layout()
		case "t":
			m.setTheme(NextTheme(m.theme.Name))
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.step(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

// step advances the simulation to now and redraws the canvas.
func (m *Model) step(now time.Time) {
	dt := m.interval
	if !m.last.IsZero() {
		dt = now.Sub(m.last)
	}
	dt = sim.ClampFrame(dt)
	m.last = now

	if m.running {
		m.sim.Frame(dt)
	}
	m.sim.Render(m.canvas)
}

// layout fits the canvas to the terminal, leaving room for the side panel.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	w := m.width
	if m.showPanel {
		w -= panelWidth + 1
	}
	m.canvas.Resize(w, m.height)
	m.log.Debug().Int("cols", m.canvas.Width).Int("rows", m.canvas.Height).Msg("canvas resized")
}

// View renders the TUI interface.
func (m *Model) View() string {
	canvasView := m.canvas.Render()
	if !m.showPanel {
		return canvasView
	}

	cfg := m.sim.Config()
	var s strings.Builder

	hour := toColorful(cfg.Categories[sim.Hour].Color)
	second := toColorful(cfg.Categories[sim.Second].Color)
	s.WriteString(m.styles.header.Render(GradientText("bubbleclock", hour, second)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(m.styles.status.Render(status) + "\n\n")
	s.WriteString(m.styles.label.Render("Time") + m.styles.value.Render(m.sim.Now().Format("15:04:05")) + "\n\n")

	for _, cat := range sim.Categories() {
		spec := cfg.Categories[cat]
		col := lipgloss.Color(toColorful(spec.Color).Hex())
		label := lipgloss.NewStyle().Foreground(col).Width(12).Render(strings.ToUpper(cat.String()))
		s.WriteString(label + m.styles.value.Render(fmt.Sprintf("%2d/%d", m.sim.Count(cat), spec.MaxCount)) + "\n")
		s.WriteString(ProgressBar(m.sim.Count(cat), spec.MaxCount, panelWidth-6, col) + "\n")
	}
	s.WriteString("\n")
	s.WriteString(m.styles.label.Render("Retiring") + m.styles.value.Render(fmt.Sprintf("%d", m.sim.Retiring())) + "\n")
	s.WriteString(m.styles.label.Render("Scale") + m.styles.value.Render(fmt.Sprintf("%.3f", m.sim.Scale())) + "\n")
	for _, mt := range m.metrics {
		s.WriteString(m.styles.label.Render(mt.Name()) + m.styles.value.Render(fmt.Sprintf("%.4g", mt.Value())) + "\n")
	}

	if hist := m.pop.History(); len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(panelWidth-12), asciigraph.Caption("active"))
		s.WriteString(m.styles.graph.Render(chart) + "\n")
	}

	if m.showHelp {
		s.WriteString(m.styles.help.Render("SPACE pause/resume\nR     reset from clock\nP     toggle panel\nT     cycle theme\nQ     quit"))
	} else {
		s.WriteString(m.styles.help.Render("SP:Pause R:Reset T:Theme\nP:Panel  ?:Help   Q:Quit"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(s.String()))
}

// Run starts the full-screen terminal clock and blocks until the user quits.
func Run(m *Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
