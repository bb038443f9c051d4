package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orrery/internal/analysis"
	"github.com/san-kum/orrery/internal/automation"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/export"
	"github.com/san-kum/orrery/internal/gui"
	"github.com/san-kum/orrery/internal/integrators"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/physics"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/san-kum/orrery/internal/stream"
	"github.com/san-kum/orrery/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	steps      int
	capacity   int
	integrator string

	// analysis
	bodyIndex   int
	centerIndex int
	perturb     float64

	// serve
	addr   string
	fps    float64
	trails bool

	// batches
	sweepDays []float64
	trials    int
	seed      int64

	withAudio bool
	outFile   string
	svgSize   int
)

// stabilityRadius bounds the solar presets with room to spare beyond Neptune.
const stabilityRadius = 100 * physics.AU

// main registers the orrery commands and runs the root command. With no
// subcommand the terminal preset picker starts.
func main() {
	rootCmd := &cobra.Command{
		Use:   "orrery",
		Short: "n-body gravity simulator with an orbit camera",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orrery", "data directory")

	systemFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&configFile, "config", "", "system file (yaml)")
		cmd.Flags().StringVar(&preset, "preset", "solar", "preset system")
		cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
		cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of ticks")
		cmd.Flags().IntVar(&capacity, "capacity", config.DefaultTrajectoryCapacity, "trajectory samples kept per body")
		cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a system headless and record it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	systemFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded trajectories",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&bodyIndex, "body", -1, "body to plot (default all)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export trajectories to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trajectories to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render recorded trajectories as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbital period and closure analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bodyIndex, "body", -1, "body to analyze (default 1)")
	analyzeCmd.Flags().IntVar(&centerIndex, "center", 0, "body the orbit is measured around")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare symplectic and explicit euler on the same system",
		Args:  cobra.NoArgs,
		RunE:  compareIntegrators,
	}
	systemFlags(compareCmd)
	compareCmd.Flags().IntVar(&bodyIndex, "body", -1, "body whose orbit closure is reported (default camera focus)")

	divergenceCmd := &cobra.Command{
		Use:   "divergence",
		Short: "measure sensitivity to a displaced body",
		Args:  cobra.NoArgs,
		RunE:  runDivergence,
	}
	systemFlags(divergenceCmd)
	divergenceCmd.Flags().IntVar(&bodyIndex, "body", -1, "body to displace (default camera focus)")
	divergenceCmd.Flags().Float64Var(&perturb, "perturb", 1000, "displacement in meters")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run and record every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare timesteps over the same simulated span",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	systemFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepDays, "days", []float64{0.25, 1, 4, 16}, "timesteps in days")
	sweepCmd.Flags().IntVar(&bodyIndex, "body", -1, "body whose orbit closure is reported (default camera focus)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "stability under random velocity kicks",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	systemFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 1000, "maximum velocity kick per axis in m/s")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset systems",
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a system in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	systemFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run a system in a 3D window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	systemFlags(guiCmd)
	guiCmd.Flags().BoolVar(&withAudio, "audio", false, "play the focus body's speed as a tone")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream snapshots over websocket",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	systemFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().Float64Var(&fps, "fps", 30, "ticks per second")
	serveCmd.Flags().BoolVar(&trails, "trails", false, "include trajectories in every frame")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, analyzeCmd,
		compareCmd, divergenceCmd, scenarioCmd, sweepCmd, monteCarloCmd, presetsCmd, liveCmd, guiCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSystem resolves the system description: a config file when given,
// otherwise the preset. Flags override file values only when set explicitly.
func loadSystem(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg, err = config.GetPreset(preset)
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("capacity") {
		cfg.TrajectoryCapacity = capacity
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bodyFlag returns --body when given and def otherwise. The flag variable is
// shared between commands, so its registered default cannot be relied on.
func bodyFlag(cmd *cobra.Command, def int) int {
	if cmd.Flags().Changed("body") {
		return bodyIndex
	}
	return def
}

func newSimulator(cfg *config.Config) (*sim.Simulator, error) {
	bodies, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	integ, err := cfg.NewIntegrator()
	if err != nil {
		return nil, err
	}
	return sim.New(bodies, integ, cfg.Dt)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	s, err := newSimulator(cfg)
	if err != nil {
		return err
	}
	s.AddMetric(metrics.NewEnergyDrift())
	s.AddMetric(metrics.NewMomentumDrift())
	s.AddMetric(metrics.NewStability(stabilityRadius))

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (%d bodies, %d ticks of %.0fs, %s)...\n",
		cfg.Name, s.Len(), cfg.Steps, cfg.Dt, s.Integrator().Name())
	start := time.Now()

	result, runErr := s.Run(ctx, cfg.Steps)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Name, s.Integrator().Name(), cfg.Dt, result, s.Snapshot())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.Ticks)
	fmt.Printf("simulation time: %.1f days\n", result.Time/physics.Day)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6e\n", name, val)
	}

	if runErr != nil {
		return fmt.Errorf("run stopped early: %w", runErr)
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
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tBODIES\tTICKS\tDAYS\tINTEG\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.1f\t%s\t%.2e\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Bodies),
			run.Ticks,
			run.Days,
			run.Integrator,
			run.Energy.Drift,
		)
	}

	return w.Flush()
}

func loadTracks(runID string) (*storage.RunMetadata, []storage.Track, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	tracks, err := st.LoadTrajectories(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(tracks) == 0 {
		return nil, nil, fmt.Errorf("no trajectory data in run %s", runID)
	}
	return meta, tracks, nil
}

func trackAt(tracks []storage.Track, index int) (storage.Track, error) {
	for _, t := range tracks {
		if t.Index == index {
			return t, nil
		}
	}
	return storage.Track{}, fmt.Errorf("no body %d in run (have %d bodies)", index, len(tracks))
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, tracks, err := loadTracks(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("days: %.1f\n\n", meta.Days)

	if index := bodyFlag(cmd, -1); index >= 0 {
		t, err := trackAt(tracks, index)
		if err != nil {
			return err
		}
		tracks = []storage.Track{t}
	}

	const maxPlots = 6
	for i, t := range tracks {
		if i == maxPlots {
			fmt.Printf("(%d more bodies, use --body)\n", len(tracks)-maxPlots)
			break
		}
		if len(t.Points) < 2 {
			continue
		}
		graph := asciigraph.PlotMany(
			[][]float64{analysis.Component(t.Points, 0), analysis.Component(t.Points, 1)},
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption(fmt.Sprintf("%d %s: x (red), y (blue) in AU", t.Index, t.Name)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, tracks, err := loadTracks(args[0])
	if err != nil {
		return err
	}

	series := make([]export.Series, len(tracks))
	for i, t := range tracks {
		series[i] = export.Series{Name: t.Name, Points: t.Points}
		for _, b := range meta.Bodies {
			if b.Index == t.Index {
				series[i].Color = b.Color
			}
		}
	}
	svg := export.TrajectoriesToSVG(series, svgSize)

	if outFile == "" {
		_, err = fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, tracks, err := loadTracks(args[0])
	if err != nil {
		return err
	}
	body, err := trackAt(tracks, bodyFlag(cmd, 1))
	if err != nil {
		return err
	}
	center, err := trackAt(tracks, centerIndex)
	if err != nil {
		return err
	}

	fmt.Printf("orbit analysis: %s\n", meta.ID)
	fmt.Printf("body: %d %s around %d %s\n\n", body.Index, body.Name, center.Index, center.Name)

	pts := body.Points
	if center.Index != body.Index {
		pts = analysis.Relative(body.Points, center.Points)
	}
	if len(pts) < 2 {
		return fmt.Errorf("body %d has %d samples, need at least 2", body.Index, len(pts))
	}
	x := analysis.Component(pts, 0)

	if len(x) >= 8 {
		ps := analysis.PowerSpectrum(x)
		graph := asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (x)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	period, err := analysis.OrbitalPeriod(x, meta.Dt)
	switch {
	case errors.Is(err, analysis.ErrTooShort):
		fmt.Println("period: run too short to estimate")
	case err != nil:
		return err
	default:
		fmt.Printf("period: %.2f days\n", period/physics.Day)
	}

	peri, apo := analysis.Apsides(pts, physics.Point2{})
	fmt.Printf("periapsis: %.5f AU\n", peri)
	fmt.Printf("apoapsis: %.5f AU\n", apo)
	fmt.Printf("eccentricity: %.5f\n", analysis.Eccentricity(peri, apo))
	fmt.Printf("closure error: %.5f AU over %d samples\n",
		analysis.ClosureError(pts[0], pts[len(pts)-1]), len(pts))

	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd)
	if err != nil {
		return err
	}

	index := bodyFlag(cmd, cfg.Camera.Focus)
	names := []string{"symplectic", "euler"}
	sims := make([]*sim.Simulator, len(names))
	for i, name := range names {
		c := cfg.Clone()
		c.Integrator = name
		if sims[i], err = newSimulator(c); err != nil {
			return err
		}
		if index < 0 || index >= sims[i].Len() {
			return fmt.Errorf("no body %d in %s", index, cfg.Name)
		}
		sims[i].AddMetric(metrics.NewEnergyDrift())
	}
	starts := make([]physics.Point2, len(sims))
	for i, s := range sims {
		starts[i] = s.Bodies()[index].PlanePosition()
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	results, err := sim.RunAll(ctx, sims, cfg.Steps)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s (dt=%.0fs, %d ticks, %.1f days)\n\n",
		cfg.Name, cfg.Dt, cfg.Steps, float64(cfg.Steps)*cfg.Dt/physics.Day)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL DRIFT\tMAX DRIFT\tCLOSURE (AU)")
	for i, s := range sims {
		closure := math.NaN()
		if results[i].Ticks > 0 {
			closure = analysis.ClosureError(starts[i], s.Bodies()[index].PlanePosition())
		}
		fmt.Fprintf(w, "%s\t%.3e\t%.3e\t%.5f\n",
			names[i], results[i].EnergyDrift, results[i].Metrics["energy_drift"], closure)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nelapsed: %v\n", time.Since(start))
	return nil
}

func runDivergence(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	integ, err := cfg.NewIntegrator()
	if err != nil {
		return err
	}

	index := bodyFlag(cmd, cfg.Camera.Focus)
	res, err := analysis.Divergence(cfg.Build, integ, index, perturb, cfg.Dt, cfg.Steps)
	if err != nil {
		return err
	}

	fmt.Printf("divergence for %s, body %d displaced %.0f m over %d ticks\n\n", cfg.Name, index, perturb, cfg.Steps)
	fmt.Printf("final separation: %.3e m\n", res.Final)
	fmt.Printf("max separation: %.3e m\n", res.Max)
	fmt.Printf("growth rate: %.3e /day\n", res.Rate*physics.Day)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	results, runErr := automation.RunScenario(ctx, sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSYSTEM\tINTEG\tTICKS\tDAYS\tDRIFT")
	for _, r := range results {
		runID, err := st.Save(r.Config.Name, r.Config.Integrator, r.Config.Dt, r.Result, r.Snapshot)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%.2e\n",
			runID, r.Config.Name, r.Config.Integrator, r.Result.Ticks, r.Snapshot.Days(), r.Result.EnergyDrift)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	dts := make([]float64, len(sweepDays))
	for i, d := range sweepDays {
		dts[i] = d * physics.Day
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.TimestepSweep{System: cfg, Dts: dts, Body: bodyFlag(cmd, cfg.Camera.Focus)})
	if err != nil {
		return err
	}

	fmt.Printf("timestep sweep for %s over %.1f days\n\n", cfg.Name, float64(cfg.Steps)*cfg.Dt/physics.Day)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT (DAYS)\tTICKS\tFINAL DRIFT\tMAX DRIFT\tCLOSURE (AU)")
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%d\t%.3e\t%.3e\t%.5f\n", r.Dt/physics.Day, r.Ticks, r.EnergyDrift, r.MaxEnergyDrift, r.Closure)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d trials of %s with kicks up to %.0f m/s...\n", trials, cfg.Name, perturb)
	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		System:       cfg,
		Perturbation: perturb,
		NumTrials:    trials,
		MaxRadius:    stabilityRadius,
		Seed:         seed,
	})
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	worst := 1.0
	for _, r := range results {
		worst = math.Min(worst, r.Stability)
	}
	fmt.Printf("stable: %d\n", stable)
	fmt.Printf("unstable: %d\n", unstable)
	fmt.Printf("worst stability: %.3f\n", worst)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBODIES\tDT\tSTEPS\tFOCUS")
	for _, name := range config.ListPresets() {
		cfg, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		focus := cfg.Bodies[cfg.Camera.Focus].Name
		fmt.Fprintf(w, "%s\t%d\t%.0fs\t%d\t%s\n", name, len(cfg.Bodies), cfg.Dt, cfg.Steps, focus)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	s, err := newSimulator(cfg)
	if err != nil {
		return err
	}
	return viz.Run(s, cfg.Session(s.Len()), cfg.Name)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	s, err := newSimulator(cfg)
	if err != nil {
		return err
	}
	return gui.Run(s, cfg.Session(s.Len()), cfg.Name, withAudio)
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	s, err := newSimulator(cfg)
	if err != nil {
		return err
	}

	srv, err := stream.New(s, metrics.NewCollector(), stream.Options{FPS: fps, Trails: trails})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	// serve keeps ticking until interrupted unless --steps was given
	n := 0
	if cmd.Flags().Changed("steps") {
		n = cfg.Steps
	}
	return srv.ListenAndServe(ctx, addr, n)
}
