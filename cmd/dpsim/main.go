package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dpsim/internal/analysis"
	"github.com/san-kum/dpsim/internal/config"
	"github.com/san-kum/dpsim/internal/experiment"
	"github.com/san-kum/dpsim/internal/export"
	"github.com/san-kum/dpsim/internal/optim"
	"github.com/san-kum/dpsim/internal/pendulum"
	"github.com/san-kum/dpsim/internal/sim"
	"github.com/san-kum/dpsim/internal/storage"
	"github.com/san-kum/dpsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	theta1     float64 // degrees
	theta2     float64 // degrees
	length1    float64
	length2    float64
	mass1      float64
	mass2      float64
	trailLimit int
	integrator string
	// live view
	frameRate    int
	grabRadius   float64
	clearOnReset bool
	// chaos
	perturbation float64
	ensembleRuns int
	// sweep
	sweepParams   []string
	sweepMetric   string
	sweepMaximize bool
	// export-svg
	outFile   string
	svgWidth  int
	svgHeight int
	svgColor  string
)

// main registers the commands and runs the live view when no subcommand is
// given. It exits with status 1 if the command returns an error.
func main() {
	log.SetFlags(0)
	log.SetPrefix("dpsim: ")

	rootCmd := &cobra.Command{
		Use:          "dpsim",
		Short:        "double pendulum simulation lab",
		SilenceUsage: true,
		RunE:         runLive,
	}
	addConfigFlags(rootCmd)
	addLiveFlags(rootCmd)

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dpsim", "data directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the pendulum with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	addLiveFlags(liveCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot angles and angular velocities of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of theta1",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the bob trajectory of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")
	exportSVGCmd.Flags().StringVar(&svgColor, "color", "#00ffff", "stroke color")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the same initial state",
		RunE:  compareIntegrators,
	}
	addConfigFlags(compareCmd)

	chaosCmd := &cobra.Command{
		Use:   "chaos",
		Short: "estimate the Lyapunov exponent and ensemble spread",
		Args:  cobra.NoArgs,
		RunE:  chaosAnalysis,
	}
	addConfigFlags(chaosCmd)
	chaosCmd.Flags().Float64Var(&perturbation, "perturb", 1e-6, "initial perturbation of theta1 (rad)")
	chaosCmd.Flags().IntVar(&ensembleRuns, "runs", 8, "ensemble size")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over parameters for the best metric",
		Args:  cobra.NoArgs,
		RunE:  sweepParameters,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "parameter range as name=start:stop:n (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to optimize")
	sweepCmd.Flags().BoolVar(&sweepMaximize, "maximize", false, "maximize instead of minimize")

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, compareCmd, chaosCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", def.Dt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", def.Duration, "duration")
	cmd.Flags().Float64Var(&theta1, "theta1", def.Pendulum.Theta1Deg, "initial upper angle (degrees)")
	cmd.Flags().Float64Var(&theta2, "theta2", def.Pendulum.Theta2Deg, "initial lower angle (degrees)")
	cmd.Flags().Float64Var(&length1, "length1", def.Pendulum.Length1, "upper link length")
	cmd.Flags().Float64Var(&length2, "length2", def.Pendulum.Length2, "lower link length")
	cmd.Flags().Float64Var(&mass1, "mass1", def.Pendulum.Mass1, "upper bob mass")
	cmd.Flags().Float64Var(&mass2, "mass2", def.Pendulum.Mass2, "lower bob mass")
	cmd.Flags().IntVar(&trailLimit, "trail", def.Trail.Limit, "trail length (0 = unbounded)")
	cmd.Flags().StringVar(&integrator, "integrator", def.Integrator, "integrator (compare, chaos)")
}

func addLiveFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().IntVar(&frameRate, "fps", def.FPS, "frame rate")
	cmd.Flags().Float64Var(&grabRadius, "grab-radius", def.GrabRadius, "mouse grab radius")
	cmd.Flags().BoolVar(&clearOnReset, "clear-on-reset", def.Trail.ClearOnReset, "clear the trail on reset")
}

// resolveConfig layers the preset, the config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
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
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("theta1") {
		cfg.Pendulum.Theta1Deg = theta1
	}
	if flags.Changed("theta2") {
		cfg.Pendulum.Theta2Deg = theta2
	}
	if flags.Changed("length1") {
		cfg.Pendulum.Length1 = length1
	}
	if flags.Changed("length2") {
		cfg.Pendulum.Length2 = length2
	}
	if flags.Changed("mass1") {
		cfg.Pendulum.Mass1 = mass1
	}
	if flags.Changed("mass2") {
		cfg.Pendulum.Mass2 = mass2
	}
	if flags.Changed("trail") {
		cfg.Trail.Limit = trailLimit
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("grab-radius") {
		cfg.GrabRadius = grabRadius
	}
	if flags.Changed("clear-on-reset") {
		cfg.Trail.ClearOnReset = clearOnReset
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st, err := cfg.NewState()
	if err != nil {
		return err
	}

	title := "double pendulum"
	if preset != "" {
		title += " · " + preset
	}

	return viz.Run(st, viz.Options{
		Title:        title,
		Dt:           cfg.Dt,
		FPS:          cfg.FPS,
		GrabRadius:   cfg.GrabRadius,
		ClearOnReset: cfg.Trail.ClearOnReset,
	})
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry.DefaultMetrics()); err != nil {
		return err
	}

	fmt.Printf("running double pendulum for %.2fs (dt=%.4f)...\n", cfg.Duration, cfg.Dt)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	if result.Diverged() {
		log.Printf("state diverged at step %d: %v", result.DivergedAt, result.Errors[0])
	}

	runID, err := store.Save(storage.NewMetadata(preset, cfg, result), result.Frames)
	if err != nil {
		return err
	}

	final := result.Final()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if len(final.State) == 4 {
		fmt.Printf("final: θ1=%.2f° θ2=%.2f° ω1=%.3f ω2=%.3f\n",
			pendulum.Degrees(final.State[0]), pendulum.Degrees(final.State[1]), final.State[2], final.State[3])
	}
	fmt.Printf("energy drift: %s\n", formatDrift(result.EnergyDrift))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tSTEPS\tDRIFT\tDIVERGED")

	for _, run := range runs {
		diverged := "-"
		if run.DivergedAt >= 0 {
			diverged = fmt.Sprintf("step %d", run.DivergedAt)
		}
		drift := math.NaN()
		if run.EnergyDrift != nil {
			drift = *run.EnergyDrift
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\t%s\n",
			run.ID,
			orDash(run.Preset),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			formatDrift(drift),
			diverged,
		)
	}

	return w.Flush()
}

// formatDrift prints a relative energy drift, or "-" when the run diverged.
func formatDrift(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return fmt.Sprintf("%.6f", v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Frame, error) {
	store := storage.New(dataDir)
	meta, err := store.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	frames, err := store.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, frames, nil
}

func series(frames []sim.Frame, i int) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if i < len(f.State) {
			out = append(out, f.State[i])
		}
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(frames))

	captions := []string{"theta1 (rad)", "theta2 (rad)", "omega1 (rad/s)", "omega2 (rad/s)"}
	for i, caption := range captions {
		graph := asciigraph.Plot(series(frames, i),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)

	freq, ps := analysis.DominantFrequency(series(frames, 0), meta.Dt)
	plotData := ps[:max(len(ps)/4, 1)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (theta1)"),
	)
	fmt.Println(graph)
	fmt.Println()

	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	frames, err := storage.New(dataDir).LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	frames, err := storage.New(dataDir).LoadFrames(args[0])
	if err != nil {
		return err
	}

	path := make([]pendulum.Point, len(frames))
	for i, f := range frames {
		path[i] = f.Joint2
	}

	svg := export.TrajectoryToSVG(path, svgWidth, svgHeight, svgColor)
	if svg == "" {
		return fmt.Errorf("not enough points to draw")
	}

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTHETA1\tTHETA2\tL1\tL2\tM1\tM2")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name).Pendulum
		fmt.Fprintf(w, "%s\t%.0f°\t%.0f°\t%.0f\t%.0f\t%.0f\t%.0f\n",
			name, p.Theta1Deg, p.Theta2Deg, p.Length1, p.Length2, p.Mass1, p.Mass2)
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st, err := cfg.NewState()
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	names := args
	if len(names) == 0 {
		names = registry.ListIntegrators()
	}

	trajectories, err := registry.Compare(context.Background(), names, st, cfg.SimConfig())
	if err != nil {
		return err
	}

	fmt.Printf("comparing %d integrators (dt=%.4f, %.1fs)\n\n", len(names), cfg.Dt, cfg.Duration)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL θ1\tFINAL θ2\tBOB\tENERGY DRIFT\tTIME\tDIVERGED")
	for _, tr := range trajectories {
		diverged := "-"
		if tr.DivergedAt >= 0 {
			diverged = fmt.Sprintf("step %d", tr.DivergedAt)
			log.Printf("%s diverged at step %d", tr.Integrator, tr.DivergedAt)
		}
		bob := "-"
		if tr.DivergedAt < 0 {
			bob = fmt.Sprintf("(%.1f, %.1f)", tr.Bob.X, tr.Bob.Y)
		}
		fmt.Fprintf(w, "%s\t%.2f°\t%.2f°\t%s\t%s\t%v\t%s\n",
			tr.Integrator,
			pendulum.Degrees(tr.Final[0]),
			pendulum.Degrees(tr.Final[1]),
			bob,
			formatDrift(tr.EnergyDrift),
			tr.Elapsed,
			diverged,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, tr := range trajectories {
		if len(tr.Theta1) < 2 {
			continue
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(tr.Theta1,
			asciigraph.Height(6),
			asciigraph.Width(70),
			asciigraph.Caption("theta1: "+tr.Integrator),
		))
	}
	return nil
}

func chaosAnalysis(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !(perturbation > 0) {
		return fmt.Errorf("perturbation must be positive, got %g", perturbation)
	}
	if ensembleRuns < 2 {
		return fmt.Errorf("ensemble needs at least 2 runs, got %d", ensembleRuns)
	}

	st, err := cfg.NewState()
	if err != nil {
		return err
	}

	integ, err := experiment.NewRegistry().GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	lambda := analysis.LyapunovExponent(st.Dynamics(), integ, st.Vector(), cfg.Dt, cfg.Duration, perturbation)

	fmt.Printf("integrator: %s\n", cfg.Integrator)
	fmt.Printf("initial: θ1=%.1f° θ2=%.1f°\n", cfg.Pendulum.Theta1Deg, cfg.Pendulum.Theta2Deg)
	fmt.Printf("lyapunov exponent: %.4f /s", lambda)
	if lambda > 0 {
		fmt.Print(" (chaotic)")
	}
	fmt.Println()

	rates := analysis.LyapunovSpectrum(st.Dynamics(), integ, st.Vector(), cfg.Dt, cfg.Duration, perturbation)
	fmt.Println("separation rate by perturbed component:")
	for i, name := range []string{"θ1", "θ2", "ω1", "ω2"} {
		fmt.Printf("  %s: %.4f /s\n", name, rates[i])
	}

	results, err := sim.NewEnsemble(ensembleRuns, perturbation).Run(context.Background(), st, cfg.SimConfig())
	if err != nil {
		return err
	}

	spread := sim.Spread(results)
	fmt.Printf("\nensemble of %d runs, θ1 offset %g rad apart\n", ensembleRuns, perturbation)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tFINAL X2\tFINAL Y2\tSPREAD")
	for i, r := range results {
		final := r.Final().Joint2
		s := spread[i]
		if r.Diverged() {
			log.Printf("run %d diverged at step %d", i, r.DivergedAt)
			s = math.NaN()
		}
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.4f\n", i, final.X, final.Y, s)
	}
	return w.Flush()
}

// parseRange parses name=start:stop:n.
func parseRange(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid range %q: want name=start:stop:n", arg)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("invalid range %q: want name=start:stop:n", arg)
	}
	start, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("range %s start: %w", name, err)
	}
	stop, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("range %s stop: %w", name, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("range %s: count must be a positive integer", name)
	}
	return name, optim.Linspace(start, stop, n), nil
}

func sweepParameters(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, arg := range sweepParams {
		name, values, err := parseRange(arg)
		if err != nil {
			return err
		}
		if err := config.DefaultConfig().Set(name, 0); err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	registry := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := *base
		for k, v := range params {
			if err := cfg.Set(k, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(&cfg)
		if err := exp.Setup(registry.DefaultMetrics()); err != nil {
			return nil, err
		}
		return exp, nil
	}

	g := optim.NewGridSearch(names, ranges)
	if sweepMaximize {
		g.Maximize()
	}

	start := time.Now()
	best, val, err := g.Search(context.Background(), build, sweepMetric)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("sweep finished in %v\n", time.Since(start))
	fmt.Printf("best %s: %.6f\n", sweepMetric, val)
	for _, k := range keys {
		fmt.Printf("  %s = %.4f\n", k, best[k])
	}
	return nil
}
