package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/particlesim/internal/analysis"
	"github.com/san-kum/particlesim/internal/automation"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/export"
	"github.com/san-kum/particlesim/internal/gui"
	"github.com/san-kum/particlesim/internal/optim"
	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/render"
	"github.com/san-kum/particlesim/internal/storage"
	"github.com/san-kum/particlesim/internal/store"
	"github.com/san-kum/particlesim/internal/tui"
	"github.com/san-kum/particlesim/internal/viz"
)

var (
	dataDir     string
	logLevel    string
	configFile  string
	preset      string
	seed        uint64
	count       int
	width       float64
	height      float64
	rate        float64
	duration    float64
	frameRate   float64
	jitter      float64
	drag        bool
	wind        bool
	watch       bool
	outPath     string
	svgPath     string
	format      string
	sweepArgs   []string
	metricNames []string
	metricName  string
	maximize    bool
)

const defaultScenario = "rain"

func main() {
	rootCmd := &cobra.Command{
		Use:   "particlesim",
		Short: "fixed-timestep particle simulation",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(os.Stderr, logLevel)
		},
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".particlesim", "data directory")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Uint64Var(&seed, "seed", 0, "random seed")
	pf.IntVar(&count, "particles", particles.MaxParticles, "particle count")
	pf.Float64Var(&width, "width", config.DefaultWidth, "world width")
	pf.Float64Var(&height, "height", config.DefaultHeight, "world height")
	pf.Float64Var(&rate, "rate", particles.DefaultRate, "fixed steps per second")
	pf.BoolVar(&drag, "drag", false, "enable air drag")
	pf.BoolVar(&wind, "wind", false, "enable wind")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a headless simulation and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated seconds")
	runCmd.Flags().Float64Var(&frameRate, "fps", config.DefaultFPS, "frames per second")
	runCmd.Flags().Float64Var(&jitter, "jitter", 0, "frame time jitter as a fraction of the period")
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw frames to the terminal while running")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to record (default all)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json or an svg chart",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json or svg")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	guiCmd := &cobra.Command{
		Use:   "gui [scenario]",
		Short: "run in a native window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scenario]",
		Short: "simulate headless and write the last frame as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	snapshotCmd.Flags().Float64Var(&duration, "time", 2, "simulated seconds")
	snapshotCmd.Flags().Float64Var(&frameRate, "fps", config.DefaultFPS, "frames per second")
	snapshotCmd.Flags().StringVarP(&svgPath, "out", "o", "frame.svg", "output file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets and scenarios",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark fixed steps",
		RunE:  bench,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "grid search world parameters over headless runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweep,
	}
	sweepCmd.Flags().StringArrayVar(&sweepArgs, "param", nil, "name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "mean_speed", "metric to compare")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "pick the highest value instead of the lowest")
	sweepCmd.Flags().Float64Var(&duration, "time", 2, "simulated seconds per run")
	sweepCmd.Flags().Float64Var(&frameRate, "fps", config.DefaultFPS, "frames per second")

	scriptCmd := &cobra.Command{
		Use:   "script [file.yaml]",
		Short: "run a yaml script of headless runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, liveCmd, guiCmd, snapshotCmd, presetsCmd, benchCmd, sweepCmd, scriptCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(w *os.File, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// loadConfig layers preset, config file and explicitly set flags, in that
// order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("particles") {
		cfg.Particles = count
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("rate") {
		cfg.Rate = rate
	}
	if flags.Changed("drag") {
		cfg.Drag = drag
	}
	if flags.Changed("wind") {
		cfg.Wind = wind
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("jitter") {
		cfg.Jitter = jitter
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func scenarioArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultScenario
}

// buildWorld creates the scenario's world with the default metrics attached.
func buildWorld(cmd *cobra.Command, args []string) (*particles.World, *experiment.Registry, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	reg := experiment.NewRegistry()
	w, err := reg.Build(scenarioArg(args), cfg.World())
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("world created", "scenario", scenarioArg(args), "particles", w.Len(), "seed", cfg.Seed)
	return w, reg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scenario := scenarioArg(args)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	set, err := reg.Metrics(metricNames)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, scenario)
	if err := exp.Setup(reg, set, nil); err != nil {
		return err
	}

	if watch {
		renderer := tui.NewLiveRenderer(os.Stdout, 30, cfg.Frames())
		defer renderer.Close()
		exp.OnFrame(renderer.OnFrame)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: %d particles, %.1fs at %g fps...\n", scenario, cfg.Particles, cfg.Duration, cfg.FPS)
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	runID, err := st.Save(result)
	if err != nil {
		return err
	}
	slog.Info("run saved", "id", runID, "dir", filepath.Join(dataDir, runID))

	fmt.Printf("completed in %v\n", result.Wall)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d  steps: %d  recycled: %d\n", len(result.Samples), result.Steps, result.Recycled)
	fmt.Println("\nmetrics:")
	for _, name := range set.Names() {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tPARTICLES\tDURATION\tSTEPS\tRECYCLED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Duration,
			run.Steps,
			run.Recycled,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(experiment.Sample) float64
	}{
		{"mean speed", func(s experiment.Sample) float64 { return s.MeanSpeed }},
		{"kinetic energy", func(s experiment.Sample) float64 { return s.KineticEnergy }},
		{"recycled (total)", func(s experiment.Sample) float64 { return float64(s.Recycled) }},
		{"interpolation alpha", func(s experiment.Sample) float64 { return s.Alpha }},
	}
	for _, sr := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = sr.value(s)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		))
		fmt.Println()
	}

	speeds := make([]float64, len(samples))
	for i, s := range samples {
		speeds[i] = s.MeanSpeed
	}
	if f, ok := analysis.DominantFrequency(speeds, meta.FPS); ok {
		fmt.Printf("mean speed cycle: %.3f Hz (period %.2fs)\n", f, 1/f)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "json":
		data := store.NewExportData(*meta, samples)
		if outPath == "" {
			return store.WriteJSON(os.Stdout, data)
		}
		return store.ExportJSON(outPath, data)
	case "svg":
		xs := make([]float64, len(samples))
		ys := make([]float64, len(samples))
		for i, s := range samples {
			xs[i], ys[i] = s.Time, s.MeanSpeed
		}
		svg := export.SeriesToSVG(xs, ys, 800, 300, "#00ff88")
		if outPath == "" {
			_, err := fmt.Println(svg)
			return err
		}
		return os.WriteFile(outPath, []byte(svg), 0644)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	// the terminal belongs to the TUI; logs go to a file
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	logFile, err := os.Create(filepath.Join(dataDir, "live.log"))
	if err != nil {
		return err
	}
	defer logFile.Close()
	if err := setupLogging(logFile, logLevel); err != nil {
		return err
	}

	w, reg, err := buildWorld(cmd, args)
	if err != nil {
		return err
	}
	return viz.Run(w, reg.DefaultMetrics(), scenarioArg(args))
}

func runGUI(cmd *cobra.Command, args []string) error {
	w, reg, err := buildWorld(cmd, args)
	if err != nil {
		return err
	}
	gui.Run(w, reg.DefaultMetrics(), "particlesim - "+scenarioArg(args))
	return nil
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	exp := experiment.New(cfg, scenarioArg(args))
	if err := exp.Setup(reg, reg.DefaultMetrics(), nil); err != nil {
		return err
	}

	var last float64
	exp.OnFrame(func(_ *particles.World, alpha float64) { last = alpha })
	if _, err := exp.Run(context.Background()); err != nil {
		return err
	}

	w := exp.World()
	instances := render.NewAdapter().Build(w, last)
	palette := render.NewPalette(particles.SpriteCount, render.SpeedScale(w))
	bounds := w.Bounds()

	svg := export.FrameToSVG(instances, bounds.X, bounds.Y, palette)
	if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %d particles at t=%.2fs to %s\n", len(instances), w.SimTime(), svgPath)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPARTICLES\tRATE\tGRAVITY\tRADIUS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%gHz\t%g\t%g-%g\n", name, p.Particles, p.Rate, p.Gravity, p.MinRadius, p.MaxRadius)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nscenarios: %s\n", strings.Join(experiment.NewRegistry().ListScenarios(), ", "))
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	counts := []int{64, 256, 1024, 4096}
	const steps = 1200

	fmt.Printf("benchmarking %d fixed steps\n\n", steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tSTEPS\tTIME\tSTEPS/SEC\tPARTICLE-STEPS/SEC")

	for _, n := range counts {
		cfg := particles.DefaultConfig()
		cfg.Particles = n
		cfg.Seed = 42
		world, err := particles.New(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		for i := 0; i < steps; i++ {
			world.Step(world.FixedStep())
		}
		elapsed := time.Since(start)

		perSec := float64(steps) / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.0f\n", n, steps, elapsed, perSec, perSec*float64(n))
	}
	return w.Flush()
}

// parseSweepParam splits "gravity=-5,-10,-20" into a name and its values.
func parseSweepParam(arg string) (string, []float64, error) {
	name, list, ok := strings.Cut(arg, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("bad --param %q, want name=v1,v2", arg)
	}
	var values []float64
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad value in --param %q: %w", arg, err)
		}
		values = append(values, v)
	}
	return strings.TrimSpace(name), values, nil
}

func sweep(cmd *cobra.Command, args []string) error {
	if len(sweepArgs) == 0 {
		return fmt.Errorf("at least one --param is required (available: %v)", optim.ParamNames())
	}
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sweepArgs))
	ranges := make([][]float64, 0, len(sweepArgs))
	for _, a := range sweepArgs {
		name, values, err := parseSweepParam(a)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	gs, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	points, err := gs.Search(ctx, base, optim.Runner(scenarioArg(args)), metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metricName))
	for _, p := range points {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", p.Params[n])
		}
		if p.Err != nil {
			fmt.Fprintf(w, "error: %v\n", p.Err)
			continue
		}
		fmt.Fprintf(w, "%.6f\n", p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best, ok := optim.Best(points, maximize)
	if !ok {
		return fmt.Errorf("no successful runs")
	}
	fmt.Printf("\nbest %s = %.6f at %v\n", metricName, best.Value, best.Params)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcomes, err := automation.Run(ctx, script, base, st)
	for i, o := range outcomes {
		id := o.RunID
		if id == "" {
			id = "(not saved)"
		}
		fmt.Printf("%d. %s  %s  steps=%d recycled=%d mean_speed=%.4f\n",
			i+1, o.Result.Scenario, id, o.Result.Steps, o.Result.Recycled, o.Result.Metrics["mean_speed"])
	}
	return err
}
