package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"
	"github.com/san-kum/bubbleclock/internal/automation"
	"github.com/san-kum/bubbleclock/internal/config"
	"github.com/san-kum/bubbleclock/internal/export"
	"github.com/san-kum/bubbleclock/internal/gui"
	"github.com/san-kum/bubbleclock/internal/logging"
	"github.com/san-kum/bubbleclock/internal/metrics"
	"github.com/san-kum/bubbleclock/internal/sim"
	"github.com/san-kum/bubbleclock/internal/tui"
	"github.com/san-kum/bubbleclock/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	frameRate  int
	theme      string
	seed       int64
	logLevel   string
	logFile    string
	// plain renderer size, 0 means the terminal size
	cols int
	rows int
	// snapshot
	frames   int
	outFile  string
	jsonFile string
	chart    string
	at       string
	// soak
	trials   int
	soakTime time.Duration
)

// main registers the commands and runs the terminal clock when no
// subcommand is given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "bubbleclock",
		Short:        "a clock made of drifting bubbles",
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", config.DefaultPreset, "feature preset")
	rootCmd.PersistentFlags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path")
	rootCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the clock in the terminal",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the clock in a window",
		RunE:  runGUI,
	}

	plainCmd := &cobra.Command{
		Use:   "plain",
		Short: "run the clock with plain ANSI output",
		RunE:  runPlain,
	}
	plainCmd.Flags().IntVar(&cols, "cols", 0, "columns (0 = terminal width)")
	plainCmd.Flags().IntVar(&rows, "rows", 0, "rows (0 = terminal height)")
	plainCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run headless and write an SVG",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&frames, "frames", 120, "frames to simulate")
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "bubbleclock.svg", "output SVG path")
	snapshotCmd.Flags().StringVar(&jsonFile, "json", "", "also write the bubble state as JSON")
	snapshotCmd.Flags().StringVar(&chart, "chart", "", "also write the live bubble count per frame as an SVG chart")
	snapshotCmd.Flags().StringVar(&at, "at", "", "start time (RFC 3339 or 15:04:05, default now)")
	snapshotCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a scripted clock scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	soakCmd := &cobra.Command{
		Use:   "soak",
		Short: "run the clock from random start times and check the counts",
		RunE:  runSoak,
	}
	soakCmd.Flags().IntVar(&trials, "trials", 20, "number of runs")
	soakCmd.Flags().DurationVar(&soakTime, "time", 10*time.Second, "clock time per run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tSPAWN\tSHRINK\tREPULSION\tCENTERING\tDYNAMIC")
			for _, name := range config.ListPresets() {
				f := config.Presets[name]
				fmt.Fprintf(w, "%s\t%v\t%v\t%v\t%v\t%v\n", name, f.SpawnAnimation, f.ShrinkAnimation, f.Repulsion, f.Centering, f.DynamicScale)
			}
			return w.Flush()
		},
	}

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list terminal themes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range viz.ThemeNames() {
				fmt.Println(name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if err := cfg.ApplyPreset(preset); err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(tuiCmd, guiCmd, plainCmd, snapshotCmd, scenarioCmd, soakCmd, presetsCmd, themesCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = frameRate
	}
	if flags.Changed("theme") {
		cfg.Render.Theme = theme
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setup loads the config and logger and builds a simulator on vp.
func setup(cmd *cobra.Command, fullscreen bool, clock sim.Clock, vp sim.Viewport) (*config.Config, *sim.Simulator, zerolog.Logger, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, zerolog.Nop(), nil, err
	}
	log, closer, err := logging.Setup(cfg.Log.Level, cfg.Log.File, fullscreen)
	if err != nil {
		return nil, nil, zerolog.Nop(), nil, fmt.Errorf("failed to open log: %w", err)
	}

	simCfg, err := cfg.SimConfig()
	if err != nil {
		closer()
		return nil, nil, zerolog.Nop(), nil, err
	}
	s, err := sim.New(simCfg, clock, vp)
	if err != nil {
		closer()
		return nil, nil, zerolog.Nop(), nil, err
	}
	s.SetLogger(log)
	log.Debug().Str("preset", cfg.Preset).Int("fps", cfg.Render.FPS).Int64("seed", cfg.Seed).Msg("simulator ready")
	return cfg, s, log, closer, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	canvas := viz.NewCanvas(80, 24)
	cfg, s, log, closer, err := setup(cmd, true, sim.SystemClock{}, canvas)
	if err != nil {
		return err
	}
	defer closer()

	m := viz.NewModel(s, canvas, cfg.Render.FPS, viz.WithTheme(cfg.Render.Theme), viz.WithLogger(log))
	return viz.Run(m)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, s, log, closer, err := setup(cmd, false, sim.SystemClock{}, gui.Screen{})
	if err != nil {
		return err
	}
	defer closer()

	return gui.Run(s, gui.Options{
		Width:  cfg.Render.Width,
		Height: cfg.Render.Height,
		FPS:    cfg.Render.FPS,
		Log:    log,
	})
}

func runPlain(cmd *cobra.Command, args []string) error {
	w, h := cols, rows
	if w <= 0 || h <= 0 {
		tw, th, err := term.GetSize(os.Stdout.Fd())
		if err != nil {
			tw, th = 80, 24
		}
		if w <= 0 {
			w = tw
		}
		if h <= 0 {
			// status line
			h = th - 1
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	bg, err := colorful.Hex(string(viz.GetTheme(cfg.Render.Theme).Background))
	if err != nil {
		return err
	}
	r := tui.NewLiveRenderer(os.Stdout, w, h, bg)

	_, s, _, closer, err := setup(cmd, true, sim.SystemClock{}, r)
	if err != nil {
		return err
	}
	defer closer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return tui.Run(ctx, s, r, cfg.Render.FPS)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	bg, err := colorful.Hex(string(viz.GetTheme(cfg.Render.Theme).Background))
	if err != nil {
		return err
	}
	surface := export.NewSVG(float64(cfg.Render.Width), float64(cfg.Render.Height), bg)

	start := time.Now()
	if at != "" {
		if start, err = automation.ParseStart(at); err != nil {
			return err
		}
	}
	clock := automation.NewClock(start)

	_, s, log, closer, err := setup(cmd, false, clock, surface)
	if err != nil {
		return err
	}
	defer closer()

	pop := metrics.NewPopulation(frames)
	s.AddObserver(pop)
	s.Init()

	frame := time.Second / time.Duration(cfg.Render.FPS)
	for i := 0; i < frames; i++ {
		clock.Advance(frame)
		s.Frame(frame)
	}
	s.Render(surface)

	if err := surface.Save(outFile); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	log.Info().Str("path", outFile).Int("circles", surface.Circles()).Msg("snapshot written")

	if jsonFile != "" {
		if err := export.ExportJSON(jsonFile, export.Snapshot(s, surface, pop.History())); err != nil {
			return fmt.Errorf("failed to write json: %w", err)
		}
	}

	if chart != "" {
		stroke := string(viz.GetTheme(cfg.Render.Theme).Accent)
		if err := export.SaveSeries(chart, pop.History(), 600, 200, stroke); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
	}

	fmt.Printf("time      %s\n", s.Now().Format("15:04:05"))
	fmt.Printf("hours     %d\n", s.Count(sim.Hour))
	fmt.Printf("minutes   %d\n", s.Count(sim.Minute))
	fmt.Printf("seconds   %d\n", s.Count(sim.Second))
	fmt.Printf("retiring  %d\n", s.Retiring())
	fmt.Printf("peak      %d\n", pop.Peak())
	fmt.Printf("scale     %.4f\n", s.Scale())

	if hist := pop.History(); len(hist) > 1 {
		graph := asciigraph.Plot(hist,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("live bubbles per frame"),
		)
		fmt.Println()
		fmt.Println(graph)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closer, err := logging.Setup(cfg.Log.Level, cfg.Log.File, false)
	if err != nil {
		return err
	}
	defer closer()

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	if sc.Preset == "" && cmd.Flags().Changed("preset") {
		sc.Preset = preset
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("  %s\n", sc.Description)
	}
	fmt.Println()

	results, runErr := automation.RunScenario(cmd.Context(), sc, log)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTIME\tHOURS\tMINUTES\tSECONDS\tRETIRING\tBUBBLES\tCHECK")
	for i, r := range results {
		check := "-"
		if r.Checked {
			check = "ok"
			if !r.Passed {
				check = "FAIL"
			}
		}
		label := r.Label
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			label, r.Time.Format("15:04:05"), r.Counts.Hours, r.Counts.Minutes, r.Counts.Seconds, r.Retiring, r.Bubbles, check)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSoak(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closer, err := logging.Setup(cfg.Log.Level, cfg.Log.File, false)
	if err != nil {
		return err
	}
	defer closer()

	results, err := automation.RunSoak(cmd.Context(), &automation.SoakConfig{
		Preset:   cfg.Preset,
		Trials:   trials,
		Duration: soakTime,
		FPS:      cfg.Render.FPS,
		Seed:     cfg.Seed,
	}, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSTART\tFINAL\tEXPECTED\tBOUNDED")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%v\n", r.TrialID, r.Start.Format("15:04:05"), r.Final, r.Expected, r.Bounded)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	passed, failed := automation.SoakStats(results)
	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d soak trials failed", failed, len(results))
	}
	return nil
}
