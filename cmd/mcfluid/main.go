package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mcfluid/internal/config"
	"github.com/san-kum/mcfluid/internal/export"
	"github.com/san-kum/mcfluid/internal/geometry"
	"github.com/san-kum/mcfluid/internal/mc"
	"github.com/san-kum/mcfluid/internal/observables"
	"github.com/san-kum/mcfluid/internal/storage"
	"github.com/san-kum/mcfluid/internal/tui"
)

var (
	dataDir      string
	particles    int
	boxSide      float64
	temperature  float64
	steps        int
	burnIn       int
	displacement float64
	trials       int
	seed         int64
	shards       int
	configFile   string
	preset       string
	temps        string
	maxLag       int
	svgFile      string
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mcfluid",
		Short: "metropolis monte carlo lennard-jones fluid lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mcfluid", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a sampling chain and estimate pressure and chemical potential",
		RunE:  runChain,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a chain with a live energy-trace view",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	replicasCmd := &cobra.Command{
		Use:   "replicas",
		Short: "run independent chains across a temperature ladder",
		RunE:  runReplicas,
	}
	addRunFlags(replicasCmd)
	replicasCmd.Flags().StringVar(&temps, "temps", "1.0,2.0,4.0", "comma-separated temperatures")

	pressureCmd := &cobra.Command{
		Use:   "pressure [run_id]",
		Short: "replay a stored run and recompute the virial pressure",
		Args:  cobra.ExactArgs(1),
		RunE:  recomputePressure,
	}
	pressureCmd.Flags().IntVar(&burnIn, "burnin", -1, "override burn-in (steps)")

	widomCmd := &cobra.Command{
		Use:   "widom [run_id]",
		Short: "replay a stored run and recompute the excess chemical potential",
		Args:  cobra.ExactArgs(1),
		RunE:  recomputeWidom,
	}
	widomCmd.Flags().IntVar(&burnIn, "burnin", -1, "override burn-in (steps)")
	widomCmd.Flags().IntVar(&trials, "trials", 0, "override insertions per configuration")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "energy-trace autocorrelation and correlation time",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&maxLag, "maxlag", 100, "largest lag to plot")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the stored energy trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&svgFile, "svg", "", "also write the energy trace as SVG to this path")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in parameter presets",
		RunE:  showPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, replicasCmd, pressureCmd, widomCmd,
		analyzeCmd, plotCmd, listCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "particle count N")
	cmd.Flags().Float64Var(&boxSide, "box", config.DefaultBoxSide, "cubic box side L")
	cmd.Flags().Float64Var(&temperature, "tau", config.DefaultTemperature, "temperature")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "monte carlo steps M")
	cmd.Flags().IntVar(&burnIn, "burnin", config.DefaultBurnIn, "steps excluded from averages")
	cmd.Flags().Float64Var(&displacement, "displacement", 0, "trial displacement half-width (0 = full box)")
	cmd.Flags().IntVar(&trials, "trials", config.DefaultTrials, "widom insertions per configuration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&shards, "shards", 1, "goroutines for the energy reduction")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in preset")
}

// resolveConfig layers preset, config file and explicit flags, the
// latter winning.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (see 'mcfluid presets')", preset)
		}
		tmp := *p
		cfg = &tmp
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("particles") {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("box") {
		cfg.BoxSide = boxSide
	}
	if cmd.Flags().Changed("tau") {
		cfg.Temperature = temperature
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("burnin") {
		cfg.BurnIn = burnIn
	}
	if cmd.Flags().Changed("displacement") {
		cfg.Displacement = displacement
	}
	if cmd.Flags().Changed("trials") {
		cfg.InsertionTrials = trials
	}
	if cmd.Flags().Changed("shards") {
		cfg.Shards = shards
	}
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	return cfg, nil
}

func runChain(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sampler, err := mc.NewSampler(cfg.Sampler())
	if err != nil {
		return err
	}

	fmt.Printf("sampling %d particles for %d steps...\n", cfg.Particles, cfg.Steps)
	start := time.Now()

	res, err := sampler.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	estimates := deriveEstimates(cfg, res)

	runID, err := st.Save(cfg, res, estimates)
	if err != nil {
		return err
	}

	printSummary(runID, cfg, res, estimates, elapsed)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	start := time.Now()
	res, err := tui.RunLive(cfg.Sampler())
	if err != nil {
		return err
	}
	if res == nil || res.Steps == 0 {
		return fmt.Errorf("no steps committed")
	}
	elapsed := time.Since(start)

	estimates := deriveEstimates(cfg, res)
	runID, err := st.Save(cfg, res, estimates)
	if err != nil {
		return err
	}

	printSummary(runID, cfg, res, estimates, elapsed)
	return nil
}

func runReplicas(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var ladder []float64
	for _, s := range strings.Split(temps, ",") {
		tau, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("bad temperature %q: %w", s, err)
		}
		ladder = append(ladder, tau)
	}

	reps := mc.NewReplicas(cfg.Sampler(), ladder, cfg.Seed)

	fmt.Printf("running %d replicas...\n", len(ladder))
	results, err := reps.Run(context.Background())
	if err != nil {
		return err
	}

	box := geometry.Box{Side: cfg.BoxSide}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAU\tACCEPT\tPRESSURE\tMU_EXCESS")
	for i, res := range results {
		window := observables.Suffix(len(res.Trajectory), cfg.BurnIn)

		line := fmt.Sprintf("%.3f\t%.1f%%", ladder[i], 100*res.AcceptanceRate())

		p, err := observables.Pressure(res, box, ladder[i], window)
		if err != nil {
			line += "\t" + err.Error()
		} else {
			line += fmt.Sprintf("\t%.6f", p)
		}

		wd := observables.Widom{Trials: cfg.InsertionTrials, Seed: cfg.Seed, Workers: 4}
		mu, err := wd.ChemicalPotential(res, box, ladder[i], window)
		if err != nil {
			line += "\t" + err.Error()
		} else {
			line += fmt.Sprintf("\t%.6f", mu)
		}

		fmt.Fprintln(w, line)
	}
	return w.Flush()
}

// deriveEstimates computes both estimators over the full trajectory and
// the burn-in-excluded suffix. A failing estimator drops only its own
// entries; the other's results stay valid.
func deriveEstimates(cfg *config.Config, res *mc.Result) map[string]float64 {
	box := geometry.Box{Side: cfg.BoxSide}
	tau := cfg.Temperature
	length := len(res.Trajectory)

	full := observables.Full(length)
	suffix := observables.Suffix(length, cfg.BurnIn)

	estimates := make(map[string]float64)

	if p, err := observables.Pressure(res, box, tau, full); err == nil {
		estimates["pressure_full"] = p
	} else {
		fmt.Println(warnStyle.Render("pressure (full): " + err.Error()))
	}
	if p, err := observables.Pressure(res, box, tau, suffix); err == nil {
		estimates["pressure"] = p
	} else {
		fmt.Println(warnStyle.Render("pressure: " + err.Error()))
	}

	wd := observables.Widom{Trials: cfg.InsertionTrials, Seed: cfg.Seed, Workers: 4}
	if mu, err := wd.ChemicalPotential(res, box, tau, full); err == nil {
		estimates["mu_excess_full"] = mu
	} else {
		fmt.Println(warnStyle.Render("widom (full): " + err.Error()))
	}
	if mu, err := wd.ChemicalPotential(res, box, tau, suffix); err == nil {
		estimates["mu_excess"] = mu
	} else {
		fmt.Println(warnStyle.Render("widom: " + err.Error()))
	}

	return estimates
}

func printSummary(runID string, cfg *config.Config, res *mc.Result, estimates map[string]float64, elapsed time.Duration) {
	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-16s", label)) + valueStyle.Render(value)
	}

	lines := []string{
		titleStyle.Render("run " + runID),
		row("system", fmt.Sprintf("N=%d L=%.2f tau=%.2f", cfg.Particles, cfg.BoxSide, cfg.Temperature)),
		row("completed in", elapsed.Round(time.Millisecond).String()),
		row("steps", strconv.Itoa(res.Steps)),
		row("acceptance", fmt.Sprintf("%.1f%%", 100*res.AcceptanceRate())),
		row("final energy", fmt.Sprintf("%.6f", res.Energies[len(res.Energies)-1])),
	}

	order := []string{"pressure", "pressure_full", "mu_excess", "mu_excess_full"}
	for _, key := range order {
		if v, ok := estimates[key]; ok {
			lines = append(lines, row(key, fmt.Sprintf("%.6f", v)))
		}
	}

	fmt.Println(strings.Join(lines, "\n"))
}

// replay rebuilds the exact chain of a stored run from its seed and
// parameters. Trajectories are not persisted; determinism stands in
// for them.
func replay(st *storage.Store, runID string) (*config.Config, *mc.Result, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	cfg := meta.Config()

	sampler, err := mc.NewSampler(cfg.Sampler())
	if err != nil {
		return nil, nil, err
	}
	res, err := sampler.Run(context.Background())
	if err != nil {
		return nil, nil, err
	}
	return cfg, res, nil
}

func recomputePressure(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	cfg, res, err := replay(st, args[0])
	if err != nil {
		return err
	}

	bi := cfg.BurnIn
	if cmd.Flags().Changed("burnin") {
		bi = burnIn
	}

	box := geometry.Box{Side: cfg.BoxSide}
	full, err := observables.Pressure(res, box, cfg.Temperature, observables.Full(len(res.Trajectory)))
	if err != nil {
		return err
	}
	suffix, err := observables.Pressure(res, box, cfg.Temperature, observables.Suffix(len(res.Trajectory), bi))
	if err != nil {
		return err
	}

	fmt.Printf("pressure (full trajectory):   %.6f\n", full)
	fmt.Printf("pressure (burn-in %d excluded): %.6f\n", bi, suffix)
	return nil
}

func recomputeWidom(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	cfg, res, err := replay(st, args[0])
	if err != nil {
		return err
	}

	bi := cfg.BurnIn
	if cmd.Flags().Changed("burnin") {
		bi = burnIn
	}
	n := cfg.InsertionTrials
	if cmd.Flags().Changed("trials") {
		n = trials
	}

	box := geometry.Box{Side: cfg.BoxSide}
	wd := observables.Widom{Trials: n, Seed: cfg.Seed, Workers: 4}

	full, err := wd.ChemicalPotential(res, box, cfg.Temperature, observables.Full(len(res.Trajectory)))
	if err != nil {
		return err
	}
	suffix, err := wd.ChemicalPotential(res, box, cfg.Temperature, observables.Suffix(len(res.Trajectory), bi))
	if err != nil {
		return err
	}

	fmt.Printf("mu_excess (full trajectory):   %.6f\n", full)
	fmt.Printf("mu_excess (burn-in %d excluded): %.6f\n", bi, suffix)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	energies, _, err := st.LoadEnergies(args[0])
	if err != nil {
		return err
	}
	if len(energies) < 4 {
		return fmt.Errorf("trace too short to analyze")
	}

	acf := observables.Autocorrelation(energies, maxLag)
	tauInt := observables.IntegratedTime(acf)

	graph := asciigraph.Plot(acf,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("energy autocorrelation vs lag"),
	)
	fmt.Println(graph)
	fmt.Printf("\nintegrated correlation time: %.2f steps\n", tauInt)
	fmt.Printf("suggested burn-in: %d steps (20x correlation time)\n", int(20*tauInt))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	energies, _, err := st.LoadEnergies(args[0])
	if err != nil {
		return err
	}
	if len(energies) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("N=%d L=%.2f tau=%.2f\n\n", meta.Particles, meta.BoxSide, meta.Temperature)

	graph := asciigraph.Plot(energies,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("total energy vs step"),
	)
	fmt.Println(graph)
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
	fmt.Fprintln(w, "ID\tTIME\tN\tL\tTAU\tSTEPS\tACCEPT\tPRESSURE")
	for _, run := range runs {
		pressure := "-"
		if p, ok := run.Estimates["pressure"]; ok {
			pressure = fmt.Sprintf("%.6f", p)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\t%d\t%.1f%%\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.BoxSide,
			run.Temperature,
			run.Steps,
			100*run.AcceptanceRate,
			pressure,
		)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	if svgFile != "" {
		energies, _, err := st.LoadEnergies(args[0])
		if err != nil {
			return err
		}
		svg := export.EnergyTraceSVG(energies, 800, 300)
		if svg == "" {
			return fmt.Errorf("trace too short for SVG export")
		}
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", svgFile)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func showPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tN\tL\tTAU\tSTEPS\tBURN-IN\tDISPLACEMENT")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		disp := "full box"
		if p.Displacement > 0 {
			disp = fmt.Sprintf("%.2f", p.Displacement)
		}
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%d\t%d\t%s\n",
			name, p.Particles, p.BoxSide, p.Temperature, p.Steps, p.BurnIn, disp)
	}
	return w.Flush()
}
