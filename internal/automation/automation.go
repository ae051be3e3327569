package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/bubbleclock/internal/config"
	"github.com/san-kum/bubbleclock/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	defaultWidth  = 1300
	defaultHeight = 1000
	defaultFPS    = 60
	// maxFramesPerStep bounds the frames simulated for one advance; the
	// rest of a long advance is applied as a single jump.
	maxFramesPerStep = 3600
)

// Scenario defines a scripted clock run
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Start       string         `yaml:"start"`
	Preset      string         `yaml:"preset"`
	Width       float64        `yaml:"width"`
	Height      float64        `yaml:"height"`
	FPS         int            `yaml:"fps"`
	Seed        int64          `yaml:"seed"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep advances the clock and optionally checks the counts
type ScenarioStep struct {
	Label   string        `yaml:"label"`
	Advance time.Duration `yaml:"advance"`
	Resize  *Size         `yaml:"resize"`
	Expect  *Counts       `yaml:"expect"`
}

type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type Counts struct {
	Hours   int `yaml:"hours"`
	Minutes int `yaml:"minutes"`
	Seconds int `yaml:"seconds"`
}

func (c Counts) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Hours, c.Minutes, c.Seconds)
}

// StepResult is the simulator state after one step
type StepResult struct {
	Label    string
	Time     time.Time
	Counts   Counts
	Retiring int
	Bubbles  int
	Scale    float64
	Frames   uint64
	Checked  bool
	Passed   bool
}

// Clock is a manually advanced sim.Clock.
type Clock struct{ t time.Time }

func NewClock(t time.Time) *Clock        { return &Clock{t: t} }
func (c *Clock) Now() time.Time          { return c.t }
func (c *Clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// Viewport is a resizable fixed-size sim.Viewport.
type Viewport struct{ W, H float64 }

func (v *Viewport) Size() (float64, float64) { return v.W, v.H }

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if scenario.Start == "" {
		return nil, fmt.Errorf("scenario %q: missing start time", scenario.Name)
	}
	if _, err := ParseStart(scenario.Start); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	for i, step := range scenario.Steps {
		if step.Advance < 0 {
			return nil, fmt.Errorf("scenario %q step %d: negative advance %s", scenario.Name, i+1, step.Advance)
		}
	}
	return &scenario, nil
}

// ParseStart accepts RFC 3339 or a bare 15:04:05 wall time.
func ParseStart(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.TimeOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q", s)
	}
	return time.Date(2024, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, log zerolog.Logger) ([]StepResult, error) {
	start, err := ParseStart(scenario.Start)
	if err != nil {
		return nil, err
	}

	preset := scenario.Preset
	if preset == "" {
		preset = config.DefaultPreset
	}
	appCfg := config.GetPreset(preset)
	if appCfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	cfg, err := appCfg.SimConfig()
	if err != nil {
		return nil, err
	}
	cfg.Seed = scenario.Seed
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}

	vp := &Viewport{W: orDefault(scenario.Width, defaultWidth), H: orDefault(scenario.Height, defaultHeight)}
	fps := scenario.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	frame := time.Second / time.Duration(fps)

	clock := NewClock(start)
	s, err := sim.New(cfg, clock, vp)
	if err != nil {
		return nil, err
	}
	s.SetLogger(log)
	s.Init()

	results := make([]StepResult, 0, len(scenario.Steps))
	checked, failed := 0, 0
	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		log.Debug().Int("step", i+1).Str("label", step.Label).Dur("advance", step.Advance).Msg("running step")

		if step.Resize != nil {
			vp.W, vp.H = step.Resize.Width, step.Resize.Height
		}
		advance(s, clock, step.Advance, frame)

		res := snapshot(s, step.Label)
		if step.Expect != nil {
			res.Checked = true
			checked++
			res.Passed = res.Counts == *step.Expect
			if !res.Passed {
				failed++
				log.Warn().Int("step", i+1).Str("want", step.Expect.String()).Str("got", res.Counts.String()).Msg("count mismatch")
			}
		}
		results = append(results, res)
	}

	if failed > 0 {
		return results, fmt.Errorf("scenario %q: %d of %d checks failed", scenario.Name, failed, checked)
	}
	return results, nil
}

// advance moves the clock by d in frame-sized steps, running one frame per
// step. Advances longer than maxFramesPerStep frames jump the clock first.
func advance(s *sim.Simulator, clock *Clock, d, frame time.Duration) {
	if d == 0 {
		s.Frame(0)
		return
	}
	n := int(d / frame)
	if n > maxFramesPerStep {
		clock.Advance(d - time.Duration(maxFramesPerStep)*frame)
		d = time.Duration(maxFramesPerStep) * frame
		n = maxFramesPerStep
	}
	for i := 0; i < n; i++ {
		clock.Advance(frame)
		s.Frame(frame)
	}
	if rest := d - time.Duration(n)*frame; rest > 0 {
		clock.Advance(rest)
		s.Frame(rest)
	}
}

func snapshot(s *sim.Simulator, label string) StepResult {
	return StepResult{
		Label: label,
		Time:  s.Now(),
		Counts: Counts{
			Hours:   s.Count(sim.Hour),
			Minutes: s.Count(sim.Minute),
			Seconds: s.Count(sim.Second),
		},
		Retiring: s.Retiring(),
		Bubbles:  len(s.Bubbles()),
		Scale:    s.Scale(),
		Frames:   s.Frames(),
	}
}

// SoakConfig defines randomized clock runs
type SoakConfig struct {
	Preset   string
	Trials   int
	Duration time.Duration
	FPS      int
	Seed     int64
}

// SoakResult holds the outcome of one randomized run
type SoakResult struct {
	TrialID  int
	Start    time.Time
	Final    Counts
	Expected Counts
	// Bounded is false if any bubble broke the radius bound or left the
	// finite plane during the run.
	Bounded bool
}

// RunSoak starts the clock at random times, runs it for cfg.Duration and
// records whether the population still follows the tick rule.
func RunSoak(ctx context.Context, cfg *SoakConfig, log zerolog.Logger) ([]SoakResult, error) {
	appCfg := config.GetPreset(cfg.Preset)
	if appCfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", cfg.Preset, config.ListPresets())
	}
	simCfg, err := appCfg.SimConfig()
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	frame := time.Second / time.Duration(fps)

	results := make([]SoakResult, 0, cfg.Trials)
	for trial := 0; trial < cfg.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(rng.Int63n(int64(24 * time.Hour))))
		start = start.Truncate(time.Second)
		clock := NewClock(start)
		vp := &Viewport{W: defaultWidth, H: defaultHeight}

		trialCfg := simCfg
		trialCfg.Seed = rng.Int63() + 1
		s, err := sim.New(trialCfg, clock, vp)
		if err != nil {
			return results, err
		}
		s.Init()

		bounded := true
		frames := int(cfg.Duration / frame)
		for i := 0; i < frames; i++ {
			clock.Advance(frame)
			s.Frame(frame)
			if bounded && !withinBounds(s) {
				bounded = false
				log.Warn().Int("trial", trial).Int("frame", i).Msg("bubble out of bounds")
			}
		}

		results = append(results, SoakResult{
			TrialID:  trial,
			Start:    start,
			Final:    snapshot(s, "").Counts,
			Expected: expectedCounts(start, clock.Now()),
			Bounded:  bounded,
		})

		if (trial+1)%10 == 0 {
			log.Info().Int("done", trial+1).Int("trials", cfg.Trials).Msg("soak progress")
		}
	}

	return results, nil
}

// expectedCounts replays the tick rule from start to now.
func expectedCounts(start, now time.Time) Counts {
	h := start.Hour() % 12
	if h == 0 {
		h = 12
	}
	c := Counts{Hours: h, Minutes: start.Minute(), Seconds: start.Second()}
	ticks := int(now.Truncate(time.Second).Sub(start) / time.Second)
	for i := 0; i < ticks; i++ {
		switch {
		case c.Seconds < 59:
			c.Seconds++
		case c.Minutes < 59:
			c.Seconds, c.Minutes = 0, c.Minutes+1
		case c.Hours < 12:
			c.Seconds, c.Minutes, c.Hours = 0, 0, c.Hours+1
		default:
			c = Counts{}
		}
	}
	return c
}

func withinBounds(s *sim.Simulator) bool {
	for _, b := range s.Bubbles() {
		if b.Radius < 0 || b.Radius > 1.1*b.Target+1e-9 {
			return false
		}
		if math.IsNaN(b.X+b.Y) || math.IsInf(b.X+b.Y, 0) {
			return false
		}
	}
	return true
}

// SoakStats counts trials that matched the expected clock and stayed in bounds.
func SoakStats(results []SoakResult) (passed int, failed int) {
	for _, r := range results {
		if r.Bounded && r.Final == r.Expected {
			passed++
		} else {
			failed++
		}
	}
	return
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
