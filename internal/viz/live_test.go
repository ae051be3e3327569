package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/bubbleclock/internal/sim"
)

type clockAt struct{ t time.Time }

func (c *clockAt) Now() time.Time { return c.t }

func newTestModel(t *testing.T) (*Model, *clockAt, *sim.Simulator) {
	t.Helper()
	clock := &clockAt{t: time.Date(2024, 1, 1, 15, 7, 45, 0, time.UTC)}
	canvas := NewCanvas(80, 24)
	cfg := sim.DefaultConfig()
	cfg.Seed = 7
	s, err := sim.New(cfg, clock, canvas)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(s, canvas, 30), clock, s
}

func TestModel_InitializesSimulator(t *testing.T) {
	m, _, s := newTestModel(t)
	if !s.Initialized() || s.Active() != 55 {
		t.Fatalf("initialized=%v active=%d", s.Initialized(), s.Active())
	}
	if m.Init() == nil {
		t.Error("Init should schedule a tick")
	}
}

func TestModel_TickAdvancesAndDraws(t *testing.T) {
	m, clock, s := newTestModel(t)

	clock.t = clock.t.Add(time.Second)
	m.Update(TickMsg(clock.t))

	if s.Count(sim.Second) != 46 {
		t.Errorf("seconds = %d, want 46", s.Count(sim.Second))
	}
	if m.canvas.Filled() == 0 {
		t.Error("tick did not draw")
	}
	if s.Frames() != 1 {
		t.Errorf("frames = %d, want 1", s.Frames())
	}
}

func TestModel_PauseStopsFrames(t *testing.T) {
	m, clock, s := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	clock.t = clock.t.Add(time.Second)
	m.Update(TickMsg(clock.t))

	if s.Frames() != 0 {
		t.Errorf("paused model ran %d frames", s.Frames())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show PAUSED")
	}
}

func TestModel_WindowResize(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.canvas.Width != 120-panelWidth-1 || m.canvas.Height != 40 {
		t.Errorf("canvas = %dx%d", m.canvas.Width, m.canvas.Height)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if m.canvas.Width != 120 {
		t.Errorf("canvas width without panel = %d, want 120", m.canvas.Width)
	}
}

func TestModel_Quit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModel_ViewShowsCounts(t *testing.T) {
	m, _, _ := newTestModel(t)
	view := m.View()
	for _, want := range []string{"HOURS", "MINUTES", "SECONDS", "15:07:45", " 3/12"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "midnight" {
		t.Error("unknown theme should fall back to midnight")
	}
	if NextTheme("paper").Name != "midnight" {
		t.Error("NextTheme should wrap around")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length mismatch")
	}
}

func TestModel_PanelListsMetrics(t *testing.T) {
	m, clock, _ := newTestModel(t)
	for i := 0; i < 2; i++ {
		clock.t = clock.t.Add(time.Second / 2)
		m.Update(TickMsg(clock.t))
	}

	view := m.View()
	for _, mt := range m.metrics {
		if !strings.Contains(view, mt.Name()) {
			t.Errorf("view missing metric %q", mt.Name())
		}
		if mt.Value() == 0 {
			t.Errorf("%s not observed", mt.Name())
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	for _, mt := range m.metrics {
		if mt.Value() != 0 {
			t.Errorf("%s = %v after reset, want 0", mt.Name(), mt.Value())
		}
	}
	if len(m.pop.History()) != 0 {
		t.Error("population history survived reset")
	}
}
