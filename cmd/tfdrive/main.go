package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/tfdrive/internal/analysis"
	"github.com/san-kum/tfdrive/internal/automation"
	"github.com/san-kum/tfdrive/internal/config"
	"github.com/san-kum/tfdrive/internal/control"
	"github.com/san-kum/tfdrive/internal/experiment"
	"github.com/san-kum/tfdrive/internal/export"
	"github.com/san-kum/tfdrive/internal/filter"
	"github.com/san-kum/tfdrive/internal/optim"
	"github.com/san-kum/tfdrive/internal/plant"
	"github.com/san-kum/tfdrive/internal/sim"
	"github.com/san-kum/tfdrive/internal/viz"
)

var (
	configFile string
	preset     string
	logLevel   string
	logOutput  string

	mode       string
	nmp        bool
	integrator string
	driver     string
	duration   float64
	dt         float64

	scenarioFile string
	script       string
	csvOut       bool
	jsonOut      bool
	live         bool
	frameRate    int
	plot         bool

	sweepGrid   string
	sweepMetric string
	workers     int

	writePath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "tfdrive",
		Short:        "drive a car through a transfer function",
		SilenceUsage: true,
		RunE:         runDrive,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "preset as track/name")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logOutput, "log-output", "", "log output path or stderr")
	addPlantFlags(rootCmd)

	driveCmd := &cobra.Command{
		Use:   "drive",
		Short: "drive interactively in the terminal",
		RunE:  runDrive,
	}
	addPlantFlags(driveCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless with a driver or scenario",
		RunE:  runHeadless,
	}
	addPlantFlags(runCmd)
	runCmd.Flags().StringVar(&driver, "driver", "", "driver (none, manual, script, pid)")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration in seconds")
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file (yaml)")
	runCmd.Flags().StringVar(&script, "script", "", "script segments as input:seconds,... e.g. 1:1.5,0:2,-1:0.5")
	runCmd.Flags().BoolVar(&csvOut, "csv", false, "write per-tick CSV to stdout")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "write the run as JSON to stdout")
	runCmd.Flags().BoolVar(&live, "live", false, "draw the run in the terminal")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --live")
	runCmd.Flags().BoolVar(&plot, "plot", true, "plot velocity and position")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "mapping, poles and step response of the plant",
		RunE:  runAnalyze,
	}
	addPlantFlags(analyzeCmd)
	analyzeCmd.Flags().Float64Var(&duration, "time", 0, "step response length in seconds")

	presetsCmd := &cobra.Command{
		Use:   "presets [track]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracks := config.ListTracks()
			if len(args) > 0 {
				tracks = args
			}
			for _, kind := range tracks {
				names := config.ListPresets(kind)
				if len(names) == 0 {
					fmt.Printf("no presets for track: %s\n", kind)
					continue
				}
				fmt.Printf("presets for %s:\n", kind)
				for _, name := range names {
					fmt.Printf("  %s/%s\n", kind, name)
				}
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over tunable parameters",
		RunE:  runSweep,
	}
	addPlantFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&driver, "driver", "", "driver used for every trial")
	sweepCmd.Flags().Float64Var(&duration, "time", 0, "duration of each trial")
	sweepCmd.Flags().StringVar(&sweepGrid, "grid", "settling_time=1:4:4", "grid as name=lo:hi:n,...")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "stop_error", "metric to minimise")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent trials (0 = GOMAXPROCS)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective config as yaml",
		RunE:  runConfig,
	}
	configCmd.Flags().StringVar(&writePath, "write", "", "write to this path instead of stdout")

	rootCmd.AddCommand(driveCmd, runCmd, analyzeCmd, presetsCmd, sweepCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPlantFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&mode, "mode", "", "plant mode (first_order, second_order, pole_zero)")
	cmd.Flags().BoolVar(&nmp, "nmp", false, "enable the non-minimum-phase zero")
	cmd.Flags().StringVar(&integrator, "integrator", "", "integrator (euler, rk4)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep in seconds")
}

// loadConfig resolves defaults, then preset, then config file, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		kind, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q: want track/name", preset)
		}
		cfg = config.GetPreset(kind, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(kind))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		k, err := plant.ParseKind(mode)
		if err != nil {
			return nil, err
		}
		cfg.Mode = k
	}
	if flags.Changed("nmp") {
		cfg.NMP.Enabled = nmp
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Lookup("driver") != nil && flags.Changed("driver") {
		cfg.Driver = driver
	}
	if flags.Lookup("time") != nil && flags.Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Root().PersistentFlags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Root().PersistentFlags().Changed("log-output") {
		cfg.Log.Output = logOutput
	}
	return cfg, nil
}

func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	output := cfg.Output
	if output == "" {
		output = "stderr"
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{output}
	zc.ErrorOutputPaths = []string{output}
	zc.DisableStacktrace = true
	return zc.Build()
}

func runDrive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stderr shares the terminal with the UI
	logger := zap.NewNop()
	if cfg.Log.Output != "" && cfg.Log.Output != "stderr" && cfg.Log.Output != "stdout" {
		if logger, err = buildLogger(cfg.Log); err != nil {
			return err
		}
		defer logger.Sync()
	}

	registry := experiment.NewRegistry()
	if preset == "" && configFile == "" && !cmd.Flags().Changed("mode") {
		return viz.RunApp(registry, logger)
	}
	return viz.RunDrive(cfg, registry, logger)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry := experiment.NewRegistry()

	if scenarioFile != "" {
		return runScenarioFile(ctx, registry, logger)
	}

	var opts []experiment.Option
	opts = append(opts, experiment.WithLogger(logger))
	if script != "" || cfg.Driver == "script" {
		segments, err := parseScript(script)
		if err != nil {
			return err
		}
		s, err := control.NewScript(segments)
		if err != nil {
			return err
		}
		opts = append(opts, experiment.WithDriver(s))
		cfg.Driver = "script"
		if !cmd.Flags().Changed("time") {
			cfg.Duration = s.Duration() + config.DefaultDuration/2
		}
	}

	exp := experiment.New(cfg, registry, opts...)
	if err := exp.Setup(); err != nil {
		return err
	}
	if live {
		geo, err := cfg.Geometry()
		if err != nil {
			return err
		}
		r := viz.NewLiveRenderer(os.Stdout, geo, frameRate)
		exp.Runner().AddObserver(r)
		r.Start()
		defer r.Stop()
	}

	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("stops", len(result.Scores)),
	)

	switch {
	case csvOut:
		return export.WriteCSV(os.Stdout, result)
	case jsonOut:
		return export.WriteJSON(os.Stdout, export.Meta{
			Mode:       cfg.Mode.String(),
			Integrator: cfg.Integrator,
			Driver:     cfg.Driver,
			NMP:        cfg.NMP.Enabled,
			Dt:         cfg.Dt,
			Duration:   cfg.Duration,
		}, result)
	}

	fmt.Printf("mode: %s  integrator: %s  driver: %s  nmp: %v\n", cfg.Mode, cfg.Integrator, cfg.Driver, cfg.NMP.Enabled)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	printResult(result)
	return nil
}

func runScenarioFile(ctx context.Context, registry *experiment.Registry, logger *zap.Logger) error {
	scenario, err := automation.LoadScenario(scenarioFile)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("  %s\n", scenario.Description)
	}
	results, err := automation.RunScenario(ctx, scenario, registry, logger)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		status := "ok"
		if !r.Passed() {
			status = "FAIL"
			failed++
		}
		fmt.Printf("\n[%s] %s (%s, %d steps)\n", status, r.Name, r.Config.Mode, r.Result.StepsTaken)
		for _, f := range r.Failures {
			fmt.Printf("  - %s\n", f)
		}
		printResult(r.Result)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d steps failed", failed, len(results))
	}
	return nil
}

func printResult(result *sim.Result) {
	if plot && len(result.Velocity) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(result.Velocity,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("velocity"),
		))
		fmt.Println()
		fmt.Println(asciigraph.Plot(result.Position,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("position"),
		))
	}

	fmt.Println("\nstops:")
	if len(result.Scores) == 0 {
		fmt.Println("  none")
	}
	for i, rec := range result.Scores {
		fmt.Printf("  %d. %.2fs, off by %.2f\n", i+1, rec.Elapsed, rec.PositionError)
	}

	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedNames(result.Metrics) {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, result.Metrics[name])
	}
	w.Flush()

	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("time") {
		cfg.Duration = 10
	}

	p, err := plant.Map(cfg.PlantMode())
	if err != nil {
		return err
	}
	integ, err := experiment.NewRegistry().GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	fmt.Printf("mode: %s\n", cfg.Mode)
	fmt.Printf("  a0=%.6f a1=%.6f b0=%.6f b1=%.6f d=%.6f\n", p.A0, p.A1, p.B0, p.B1, p.D)
	fmt.Printf("  tau=%.4fs  window=%d samples\n", p.Tau, p.WindowSamples(cfg.History.WindowTaus, cfg.Dt))

	poles, err := p.Poles()
	if err != nil {
		return err
	}
	fmt.Println("\npoles:")
	for _, pole := range poles {
		fmt.Printf("  %.4f %+.4fi\n", real(pole), imag(pole))
	}
	if gain, err := p.DCGain(); err == nil {
		fmt.Printf("dc gain: %.4f\n", gain)
	} else {
		fmt.Printf("dc gain: %v\n", err)
	}

	zero := filter.Zero{Location: cfg.NMP.Zero, Enabled: cfg.NMP.Enabled}
	tr := analysis.Simulate(p, integ, zero, 1, cfg.Dt, cfg.Duration)

	fmt.Println()
	fmt.Println(asciigraph.Plot(tr.Output,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("unit step response (nmp=%v)", cfg.NMP.Enabled)),
	))

	resp, err := analysis.Characterize(tr.Output, cfg.Dt)
	if err != nil {
		fmt.Printf("\nstep response: %v\n", err)
	} else {
		fmt.Println("\nstep response:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  final\t%.4f\n", resp.Final)
		fmt.Fprintf(w, "  peak\t%.4f at %.3fs\n", resp.Peak, resp.PeakTime)
		fmt.Fprintf(w, "  overshoot\t%.2f%%\n", resp.Overshoot)
		fmt.Fprintf(w, "  undershoot\t%.2f%%\n", resp.Undershoot)
		fmt.Fprintf(w, "  rise time\t%.3fs\n", resp.RiseTime)
		fmt.Fprintf(w, "  settling time\t%.3fs\n", resp.SettlingTime)
		w.Flush()
	}

	if zeta, wn := p.Damping(); zeta > 0 && zeta < 1 {
		fmt.Printf("\ndamped frequency: %.4f rad/s (zeta=%.3f, wn=%.3f)\n", analysis.DampedFrequency(zeta, wn), zeta, wn)
		if w, err := analysis.RingFrequency(tr.X1, cfg.Dt); err == nil {
			fmt.Printf("measured ringing: %.4f rad/s\n", w)
		}
	}

	fmt.Println("\nphase portrait (x1, x2):")
	fmt.Println(analysis.PhasePortraitToASCII(analysis.NewPhasePortrait(tr), 60, 20))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("driver") && (cfg.Driver == "manual" || cfg.Driver == "none") {
		cfg.Driver = "pid"
	}
	logger, err := buildLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	names, ranges, err := parseGrid(sweepGrid)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gs := optim.NewGridSearch(names, ranges)
	gs.Workers = workers
	logger.Info("sweep started",
		zap.Strings("params", names),
		zap.Int("points", len(gs.Points())),
		zap.String("metric", sweepMetric),
		zap.String("driver", cfg.Driver),
	)

	best, trials, err := gs.Search(ctx, optim.ExperimentObjective(cfg, experiment.NewRegistry(), sweepMetric))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.Join(names, "\t"), sweepMetric)
	for _, t := range trials {
		for _, n := range names {
			fmt.Fprintf(w, "%.4f\t", t.Params[n])
		}
		if t.Err != nil {
			fmt.Fprintf(w, "error: %v\n", t.Err)
			continue
		}
		fmt.Fprintf(w, "%.4f\n", t.Value)
	}
	w.Flush()

	fmt.Printf("\nbest %s: %.4f\n", sweepMetric, best.Value)
	for _, n := range names {
		fmt.Printf("  %s = %.4f\n", n, best.Params[n])
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if writePath != "" {
		if err := config.Save(writePath, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", writePath)
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

// parseScript reads "input:seconds" pairs separated by commas.
func parseScript(s string) ([]control.Segment, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("script driver needs --script")
	}
	var segments []control.Segment
	for _, part := range strings.Split(s, ",") {
		in, secs, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("script segment %q: want input:seconds", part)
		}
		u, err := strconv.ParseFloat(in, 64)
		if err != nil {
			return nil, fmt.Errorf("script segment %q: %w", part, err)
		}
		d, err := strconv.ParseFloat(secs, 64)
		if err != nil {
			return nil, fmt.Errorf("script segment %q: %w", part, err)
		}
		segments = append(segments, control.Segment{Input: u, Duration: d})
	}
	return segments, nil
}

// parseGrid reads "name=lo:hi:n" entries separated by commas.
func parseGrid(s string) ([]string, [][]float64, error) {
	var names []string
	var ranges [][]float64
	for _, part := range strings.Split(s, ",") {
		name, spec, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, nil, fmt.Errorf("grid entry %q: want name=lo:hi:n", part)
		}
		fields := strings.Split(spec, ":")
		if len(fields) != 3 {
			return nil, nil, fmt.Errorf("grid entry %q: want name=lo:hi:n", part)
		}
		lo, err1 := strconv.ParseFloat(fields[0], 64)
		hi, err2 := strconv.ParseFloat(fields[1], 64)
		n, err3 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || err3 != nil || n < 1 || math.IsNaN(lo) || math.IsNaN(hi) {
			return nil, nil, fmt.Errorf("grid entry %q: bad numbers", part)
		}
		names = append(names, name)
		ranges = append(ranges, optim.Linspace(lo, hi, n))
	}
	return names, ranges, nil
}

func sortedNames(m map[string]float64) []string {
	names := lo.Keys(m)
	slices.Sort(names)
	return names
}
