package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mcollide/internal/automation"
	"github.com/san-kum/mcollide/internal/config"
	"github.com/san-kum/mcollide/internal/export"
	"github.com/san-kum/mcollide/internal/optim"
	"github.com/san-kum/mcollide/internal/scene"
	"github.com/san-kum/mcollide/internal/sim"
	"github.com/san-kum/mcollide/internal/storage"
	"github.com/san-kum/mcollide/internal/tui"
)

var (
	dataDir    string
	verbose    bool
	threads    int
	configFile string
	preset     string
	steps      int
	dt         float64
	count      int
	seed       uint64
	algorithm  string
	envelope   float64
	density    float64
	noSave     bool
	outPath    string
	plane      string
	seriesPath string
	grid       []string
	metric     string
	paramName  string
	paramFrom  float64
	paramTo    float64
	paramSteps int
	trials     int
	limit      int
)

var registry = scene.NewRegistry()

func main() {
	rootCmd := &cobra.Command{
		Use:          "mcollide",
		Short:        "multicore rigid-body collision detection lab",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mcollide", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log collision steps to stderr")
	rootCmd.PersistentFlags().IntVar(&threads, "threads", 0, "worker threads (0 = all cpus)")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run collision detection over a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	sceneFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:     "live [scene]",
		Aliases: []string{"watch"},
		Short:   "step a scene in the live terminal view, reloading --config on change",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runLive,
	}
	sceneFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-step counters of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file (- for stdout)")

	svgCmd := &cobra.Command{
		Use:   "export-svg [scene]",
		Short: "render shape boxes, the grid and contacts to svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	sceneFlags(svgCmd)
	svgCmd.Flags().StringVarP(&outPath, "out", "o", "scene.svg", "output file")
	svgCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane (xy, xz, zy)")
	svgCmd.Flags().StringVar(&seriesPath, "series", "", "also write the contact count series to this svg")

	pairsCmd := &cobra.Command{
		Use:   "pairs [scene]",
		Short: "print the broadphase pairs of the first step",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printPairs,
	}
	sceneFlags(pairsCmd)
	pairsCmd.Flags().IntVar(&limit, "limit", 20, "pairs to print")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "compare narrowphase algorithms on a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	sceneFlags(benchCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid search collision parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneScene,
	}
	sceneFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&grid, "grid", []string{"density:1:10:4"}, "name:from:to:n, repeatable")
	tuneCmd.Flags().StringVar(&metric, "metric", "mean_step_ms", "metric to minimize")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "sweep one collision parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepScene,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&paramName, "param", "envelope", "parameter ("+strings.Join(config.Tunable, ", ")+")")
	sweepCmd.Flags().Float64Var(&paramFrom, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&paramTo, "to", 0.1, "last value")
	sweepCmd.Flags().IntVar(&paramSteps, "n", 5, "number of values")

	mcCmd := &cobra.Command{
		Use:   "montecarlo [scene]",
		Short: "run a scene under many seeds and check contact reports",
		Args:  cobra.MaximumNArgs(1),
		RunE:  monteCarlo,
	}
	sceneFlags(mcCmd)
	mcCmd.Flags().IntVar(&trials, "trials", 8, "number of seeds")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list scene generators",
		RunE:  listScenes,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, svgCmd, pairsCmd,
		benchCmd, tuneCmd, sweepCmd, mcCmd, scenarioCmd, presetsCmd, scenesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "steps to run")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step")
	cmd.Flags().IntVar(&count, "count", config.DefaultCount, "bodies to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "scene seed")
	cmd.Flags().StringVar(&algorithm, "algorithm", "hybrid", "narrowphase (hybrid, gjk, prims)")
	cmd.Flags().Float64Var(&envelope, "envelope", config.DefaultEnvelope, "collision envelope")
	cmd.Flags().Float64Var(&density, "density", config.DefaultDensity, "broadphase shapes per bin")
}

func newLogger() *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
}

// resolveConfig layers defaults, the config file, the preset and changed
// flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Scene = args[0]
	}
	if preset != "" {
		p := config.GetPreset(cfg.Scene, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scene))
		}
		cfg = p
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("count") {
		cfg.Params.Count = count
	}
	if flags.Changed("seed") {
		cfg.Params.Seed = seed
	}
	if flags.Changed("algorithm") {
		cfg.Collision.Algorithm = algorithm
	}
	if flags.Changed("envelope") {
		cfg.Collision.Envelope = envelope
	}
	if flags.Changed("density") {
		if err := cfg.SetParam("density", density); err != nil {
			return nil, err
		}
	}
	if flags.Changed("threads") {
		cfg.Collision.Threads = threads
	}
	return cfg, cfg.Validate()
}

func build(cfg *config.Config) (*sim.Simulator, error) {
	s, err := automation.Build(cfg, registry)
	if err != nil {
		return nil, err
	}
	s.System().SetLogger(newLogger())
	return s, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := build(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	result, err := s.Run(ctx, automation.RunConfig(cfg))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	printSummary(cfg, s, result, elapsed)
	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, "warning:", e)
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(metadata(cfg, s), result)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func metadata(cfg *config.Config, s *sim.Simulator) storage.RunMetadata {
	return storage.RunMetadata{
		Scene:     cfg.Scene,
		Seed:      cfg.Params.Seed,
		Steps:     cfg.Steps,
		Dt:        cfg.Dt,
		Algorithm: s.System().Config().Algorithm.String(),
		Envelope:  cfg.Collision.Envelope,
		Bodies:    s.World().Len(),
		Shapes:    s.System().NumShapes(),
	}
}

func printSummary(cfg *config.Config, s *sim.Simulator, result *sim.Result, elapsed time.Duration) {
	lines := []string{
		tui.Title(cfg.Scene),
		tui.Label("bodies   ", strconv.Itoa(s.World().Len())),
		tui.Label("shapes   ", strconv.Itoa(s.System().NumShapes())),
		tui.Label("algorithm", s.System().Config().Algorithm.String()),
		tui.Label("steps    ", strconv.Itoa(result.StepsTaken)),
		tui.Label("elapsed  ", elapsed.Round(time.Microsecond).String()),
	}
	fmt.Println(tui.Panel(strings.Join(lines, "\n")))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(w, "%s\t%.4f\n", name, result.Metrics[name])
	}
	w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	return tui.Run(cfg, registry, configFile)
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tSTEPS\tSHAPES\tALGO\tCONTACTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%.1f\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Shapes,
			run.Algorithm,
			run.Metrics["mean_contacts"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("steps: %d\n\n", len(series))

	plots := []struct {
		caption string
		value   func(sim.StepStats) float64
	}{
		{"contacts", func(s sim.StepStats) float64 { return float64(s.Contacts) }},
		{"broadphase pairs", func(s sim.StepStats) float64 { return float64(s.Pairs) }},
		{"max depth", func(s sim.StepStats) float64 { return s.MaxDepth }},
		{"broad + narrow ms", func(s sim.StepStats) float64 { return (s.BroadSeconds + s.NarrowSeconds) * 1e3 }},
	}
	for _, p := range plots {
		data := make([]float64, len(series))
		for i, s := range series {
			data[i] = p.value(s)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}
	contacts, err := st.LoadContacts(args[0])
	if err != nil {
		return err
	}

	return storage.ExportJSON(outPath, storage.ExportData{
		Scene:     meta.Scene,
		Algorithm: meta.Algorithm,
		Steps:     len(series),
		Dt:        meta.Dt,
		Series:    series,
		Contacts:  contacts,
		Metrics:   meta.Metrics,
	})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	p, err := export.ParsePlane(plane)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := build(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	result, err := s.Run(ctx, automation.RunConfig(cfg))
	if err != nil {
		return err
	}

	snap := export.Capture(s.System(), s.World().Fluid)
	if err := os.WriteFile(outPath, []byte(export.SceneToSVG(snap, p, 800, 800)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d boxes, %d contacts)\n", outPath, len(snap.Boxes), len(snap.Contacts))

	if seriesPath != "" {
		values := make([]float64, len(result.Steps))
		for i, st := range result.Steps {
			values[i] = float64(st.Contacts)
		}
		if err := os.WriteFile(seriesPath, []byte(export.SeriesToSVG(values, 800, 200, "#00aaff")), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", seriesPath)
	}
	return nil
}

func printPairs(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := build(cfg)
	if err != nil {
		return err
	}
	if _, err := s.Step(0, automation.RunConfig(cfg)); err != nil {
		return err
	}

	pairs := s.System().GetOverlappingPairs()
	fmt.Printf("%d shapes, %d overlapping pairs, %d contacts\n\n", s.System().NumShapes(), len(pairs), s.System().NumContacts())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHAPE A\tSHAPE B")
	for i, pr := range pairs {
		if i == limit {
			fmt.Fprintf(w, "...\t(%d more)\n", len(pairs)-limit)
			break
		}
		fmt.Fprintf(w, "%d\t%d\n", pr[0], pr[1])
	}
	return w.Flush()
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("benchmarking %s (%d steps)\n\n", cfg.Scene, cfg.Steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tSHAPES\tPAIRS\tCONTACTS\tBROAD\tNARROW\tSTEPS/SEC")

	for _, algo := range []string{"hybrid", "gjk", "prims"} {
		c := *cfg
		c.Collision.Algorithm = algo
		s, err := build(&c)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := s.Run(ctx, automation.RunConfig(&c))
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t%.3fms\t%.3fms\t%.0f\n",
			algo,
			s.System().NumShapes(),
			result.Metrics["mean_pairs"],
			result.Metrics["mean_contacts"],
			result.Metrics["mean_broad_ms"],
			result.Metrics["mean_narrow_ms"],
			float64(result.StepsTaken)/elapsed.Seconds(),
		)
	}
	return w.Flush()
}

// parseGrid reads name:from:to:n.
func parseGrid(arg string) (string, []float64, error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 4 {
		return "", nil, fmt.Errorf("invalid grid %q, want name:from:to:n", arg)
	}
	if !config.IsTunable(parts[0]) {
		return "", nil, fmt.Errorf("parameter %s is not tunable (tunable: %v)", parts[0], config.Tunable)
	}
	from, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, err
	}
	to, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return "", nil, err
	}
	n, err := strconv.Atoi(parts[3])
	if err != nil {
		return "", nil, err
	}
	return parts[0], optim.Linspace(from, to, n), nil
}

func tuneScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	var names []string
	var ranges [][]float64
	for _, g := range grid {
		name, values, err := parseGrid(g)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	builder := func(params map[string]float64) (*sim.Simulator, error) {
		c := *cfg
		for k, v := range params {
			if err := c.SetParam(k, v); err != nil {
				return nil, err
			}
		}
		return build(&c)
	}

	ctx, cancel := signalContext()
	defer cancel()

	best, value, evaluated, err := optim.NewGridSearch(names, ranges).Search(ctx, builder, automation.RunConfig(cfg), metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metric))
	for _, t := range evaluated {
		row := make([]string, len(names))
		for i, n := range names {
			row[i] = strconv.FormatFloat(t.Params[n], 'g', 4, 64)
		}
		if t.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", strings.Join(row, "\t"), t.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.4f\n", strings.Join(row, "\t"), t.Value)
	}
	w.Flush()

	fmt.Printf("\nbest %s = %.4f at %v\n", metric, value, best)
	return nil
}

func sweepScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	r := automation.NewRunner(registry, newLogger())
	results, err := r.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: paramName,
		ParamMin:  paramFrom,
		ParamMax:  paramTo,
		NumSteps:  paramSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPAIRS\tCONTACTS\tSTEP MS\n", strings.ToUpper(paramName))
	for _, res := range results {
		fmt.Fprintf(w, "%.4f\t%.1f\t%.1f\t%.3f\n", res.ParamValue, res.MeanPairs, res.MeanContacts, res.StepMillis)
	}
	return w.Flush()
}

func monteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	r := automation.NewRunner(registry, newLogger())
	results, err := r.RunMonteCarlo(ctx, &automation.MonteCarloConfig{Base: cfg, NumTrials: trials, Seed: cfg.Params.Seed})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSEED\tCONTACTS\tPEAK PAIRS\tREPORTS")
	for _, res := range results {
		status := "ok"
		if !res.Consistent {
			status = "malformed"
		}
		fmt.Fprintf(w, "%d\t%d\t%.1f\t%.0f\t%s\n", res.TrialID, res.Seed, res.MeanContacts, res.PeakPairs, status)
	}
	w.Flush()

	ok, bad := automation.MonteCarloStats(results)
	fmt.Printf("\n%d consistent, %d malformed\n", ok, bad)
	if bad > 0 {
		return fmt.Errorf("%d trials produced malformed contact reports", bad)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("  %s\n", sc.Description)
	}

	r := automation.NewRunner(registry, newLogger())
	results, err := r.RunScenario(ctx, sc)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENE\tSTEPS\tCONTACTS\tSAVED")
	for i, res := range results {
		step := sc.Steps[i]
		cfg, err := step.Config()
		if err != nil {
			return err
		}
		saved := "-"
		if step.SaveAs != "" {
			if err := st.Init(); err != nil {
				return err
			}
			meta := storage.RunMetadata{Scene: step.SaveAs, Seed: cfg.Params.Seed, Steps: cfg.Steps, Dt: cfg.Dt, Algorithm: cfg.Collision.Algorithm, Envelope: cfg.Collision.Envelope}
			if saved, err = st.Save(meta, res); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.1f\t%s\n", i+1, cfg.Scene, res.StepsTaken, res.Metrics["mean_contacts"], saved)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenes := registry.List()
	if len(args) > 0 {
		scenes = args
	}
	for _, name := range scenes {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			continue
		}
		fmt.Printf("%s:\n", name)
		for _, p := range presets {
			cfg := config.GetPreset(name, p)
			fmt.Printf("  %-14s %d bodies, %d steps, %s\n", p, cfg.Params.Count, cfg.Steps, cfg.Collision.Algorithm)
		}
	}
	return nil
}

func listScenes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tDESCRIPTION")
	for _, name := range registry.List() {
		fmt.Fprintf(w, "%s\t%s\n", name, registry.Describe(name))
	}
	return w.Flush()
}
