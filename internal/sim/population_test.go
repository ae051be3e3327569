package sim

import (
	"math"
	"testing"
	"time"
)

func TestTwelveHour(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 12}, {1, 1}, {11, 11}, {12, 12}, {13, 1}, {23, 11},
	}
	for _, tt := range tests {
		if got := TwelveHour(tt.in); got != tt.want {
			t.Errorf("TwelveHour(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFixedScale(t *testing.T) {
	got := FixedScale(1300*1000, 130, 1000)
	if math.Abs(got-math.Sqrt(10)) > 1e-12 {
		t.Errorf("FixedScale = %v, want %v", got, math.Sqrt(10))
	}
	if FixedScale(0, 130, 1000) != 0 {
		t.Error("zero area should give zero scale")
	}
}

func TestDynamicScale_Monotonic(t *testing.T) {
	area := 1920.0 * 1080.0
	prev := math.Inf(1)
	for n := 1; n <= 130; n++ {
		s := DynamicScale(area, n, 130, 1000)
		if !(s < prev) {
			t.Fatalf("scale(%d) = %v not below scale(%d) = %v", n, s, n-1, prev)
		}
		prev = s
	}
}

func TestDynamicScale_ZeroLive(t *testing.T) {
	area := 800.0 * 600.0
	zero := DynamicScale(area, 0, 130, 1000)
	one := DynamicScale(area, 1, 130, 1000)
	if zero != one || math.IsInf(zero, 0) || math.IsNaN(zero) {
		t.Errorf("zero live scale = %v, want %v", zero, one)
	}
	if got := DynamicScale(area, 130, 130, 1000); math.Abs(got-FixedScale(area, 130, 1000)) > 1e-12 {
		t.Errorf("full population should match fixed scale, got %v", got)
	}
}

func TestInit_Counts(t *testing.T) {
	tests := []struct {
		name          string
		start         time.Time
		h, m, s       int
	}{
		{"afternoon", at(15, 7, 45), 3, 7, 45},
		{"midnight", at(0, 0, 0), 12, 0, 0},
		{"noon", at(12, 30, 10), 12, 30, 10},
		{"late", at(23, 59, 59), 11, 59, 59},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestSim(tt.start, DefaultConfig())
			s.Init()
			if s.Count(Hour) != tt.h || s.Count(Minute) != tt.m || s.Count(Second) != tt.s {
				t.Errorf("counts = %d/%d/%d, want %d/%d/%d",
					s.Count(Hour), s.Count(Minute), s.Count(Second), tt.h, tt.m, tt.s)
			}
			for _, b := range s.Bubbles() {
				if b.Phase != Steady || b.Radius != b.Target {
					t.Fatalf("bubble %d not at full size: phase=%v r=%v target=%v", b.ID, b.Phase, b.Radius, b.Target)
				}
			}
		})
	}
}

func TestReconcile_NoopBeforeInit(t *testing.T) {
	s, clock, _ := newTestSim(at(3, 0, 0), DefaultConfig())
	clock.Advance(10 * time.Second)
	if n := s.Reconcile(clock.Now()); n != 0 {
		t.Errorf("ticks = %d, want 0", n)
	}
	if len(s.Bubbles()) != 0 {
		t.Error("uninitialized simulator should have no bubbles")
	}
}

func TestReconcile_AddsOnePerSecond(t *testing.T) {
	s, clock, _ := newTestSim(at(3, 7, 10), DefaultConfig())
	s.Init()

	clock.Advance(900 * time.Millisecond)
	if n := s.Reconcile(clock.Now()); n != 0 {
		t.Fatalf("sub-second reconcile applied %d ticks", n)
	}

	clock.Advance(2200 * time.Millisecond)
	if n := s.Reconcile(clock.Now()); n != 3 {
		t.Fatalf("ticks = %d, want 3", n)
	}
	if s.Count(Second) != 13 {
		t.Errorf("seconds = %d, want 13", s.Count(Second))
	}

	// 100ms of remainder carried over: 900ms more completes the next second
	clock.Advance(900 * time.Millisecond)
	if n := s.Reconcile(clock.Now()); n != 1 {
		t.Errorf("remainder not preserved, ticks = %d", n)
	}
}

func TestReconcile_MinuteRollover(t *testing.T) {
	for _, shrink := range []bool{true, false} {
		cfg := DefaultConfig()
		cfg.Features.ShrinkAnimation = shrink

		s, clock, _ := newTestSim(at(3, 7, 59), cfg)
		s.Init()
		if s.Count(Second) != 59 {
			t.Fatalf("setup: seconds = %d", s.Count(Second))
		}

		clock.Advance(time.Second)
		s.Reconcile(clock.Now())

		if s.Count(Second) != 0 {
			t.Errorf("shrink=%v: seconds = %d, want 0", shrink, s.Count(Second))
		}
		if s.Count(Minute) != 8 {
			t.Errorf("shrink=%v: minutes = %d, want 8", shrink, s.Count(Minute))
		}
		wantRetiring := 0
		if shrink {
			wantRetiring = 59
		}
		if s.Retiring() != wantRetiring {
			t.Errorf("shrink=%v: retiring = %d, want %d", shrink, s.Retiring(), wantRetiring)
		}
	}
}

func TestReconcile_HourRollover(t *testing.T) {
	s, clock, _ := newTestSim(at(3, 59, 59), DefaultConfig())
	s.Init()

	clock.Advance(time.Second)
	s.Reconcile(clock.Now())

	if s.Count(Hour) != 4 || s.Count(Minute) != 0 || s.Count(Second) != 0 {
		t.Errorf("counts = %d/%d/%d, want 4/0/0", s.Count(Hour), s.Count(Minute), s.Count(Second))
	}
}

func TestReconcile_TwelveHourWrap(t *testing.T) {
	s, clock, _ := newTestSim(at(12, 59, 59), DefaultConfig())
	s.Init()

	clock.Advance(time.Second)
	s.Reconcile(clock.Now())
	if s.Active() != 0 {
		t.Fatalf("active after wrap = %d, want 0", s.Active())
	}

	clock.Advance(time.Second)
	s.Reconcile(clock.Now())
	if s.Count(Second) != 1 || s.Count(Hour) != 0 {
		t.Errorf("counts after wrap = %d/%d/%d, want 0/0/1", s.Count(Hour), s.Count(Minute), s.Count(Second))
	}
}

func TestReconcile_CountsNeverExceedMax(t *testing.T) {
	s, clock, _ := newTestSim(at(11, 58, 30), DefaultConfig())
	s.Init()

	for i := 0; i < 400; i++ {
		clock.Advance(time.Second)
		s.Frame(referenceFrame)
		for _, cat := range Categories() {
			if s.Count(cat) > s.Config().Categories[cat].MaxCount {
				t.Fatalf("%s count %d exceeds max", cat, s.Count(cat))
			}
		}
	}
}

func TestReconcile_CatchUpDropsUnseenBubbles(t *testing.T) {
	s, clock, _ := newTestSim(at(3, 7, 0), DefaultConfig())
	s.Init()

	clock.Advance(3 * time.Minute)
	s.Reconcile(clock.Now())

	if s.Count(Minute) != 10 || s.Count(Second) != 0 {
		t.Errorf("counts = %d/%d, want 10/0", s.Count(Minute), s.Count(Second))
	}
	// seconds spawned during the catch-up were never drawn and are gone
	if s.Retiring() != 0 {
		t.Errorf("retiring = %d, want 0", s.Retiring())
	}
}

func TestReconcile_ResyncAfterLongGap(t *testing.T) {
	s, clock, _ := newTestSim(at(3, 7, 0), DefaultConfig())
	s.Init()

	clock.t = at(21, 15, 30).Add(24 * time.Hour)
	s.Reconcile(clock.Now())

	if s.Count(Hour) != 9 || s.Count(Minute) != 15 || s.Count(Second) != 30 {
		t.Errorf("counts = %d/%d/%d, want 9/15/30", s.Count(Hour), s.Count(Minute), s.Count(Second))
	}
}

func TestReconcile_ClockStepsBack(t *testing.T) {
	s, clock, _ := newTestSim(at(3, 7, 30), DefaultConfig())
	s.Init()

	clock.t = at(2, 0, 5)
	s.Reconcile(clock.Now())

	if s.Count(Hour) != 2 || s.Count(Minute) != 0 || s.Count(Second) != 5 {
		t.Errorf("counts = %d/%d/%d, want 2/0/5", s.Count(Hour), s.Count(Minute), s.Count(Second))
	}
}

func TestRescale_DynamicFollowsPopulation(t *testing.T) {
	s, clock, _ := newTestSim(at(3, 7, 10), DefaultConfig())
	s.Init()
	before := s.Scale()

	clock.Advance(5 * time.Second)
	s.Reconcile(clock.Now())

	if !(s.Scale() < before) {
		t.Errorf("scale should shrink as bubbles are added: %v -> %v", before, s.Scale())
	}
	base := s.Config().Categories[Hour].BaseRadius
	for _, b := range s.Bubbles() {
		if b.Category == Hour && math.Abs(b.Target-base*s.Scale()) > 1e-9 {
			t.Fatalf("hour target %v not rescaled to %v", b.Target, base*s.Scale())
		}
	}
}

func TestRescale_FixedNeverResizes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.DynamicScale = false
	s, clock, vp := newTestSim(at(3, 7, 10), cfg)
	s.Init()
	first := s.Bubbles()[0]

	vp.w, vp.h = 2600, 2000
	clock.Advance(5 * time.Second)
	s.Reconcile(clock.Now())

	if got := s.Bubbles()[0].Target; got != first.Target {
		t.Errorf("fixed scale resized existing bubble: %v -> %v", first.Target, got)
	}
	if math.Abs(s.Scale()-FixedScale(2600*2000, 130, 1000)) > 1e-12 {
		t.Errorf("scale = %v, want fixed scale of new viewport", s.Scale())
	}
}

func TestRescale_ViewportResize(t *testing.T) {
	s, clock, vp := newTestSim(at(3, 7, 10), DefaultConfig())
	s.Init()
	before := s.Scale()

	vp.w, vp.h = 2600, 2000
	s.Reconcile(clock.Now())

	if math.Abs(s.Scale()-2*before) > 1e-9 {
		t.Errorf("scale after 4x area = %v, want %v", s.Scale(), 2*before)
	}
}
