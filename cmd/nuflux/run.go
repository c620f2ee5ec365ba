package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/san-kum/nuflux/internal/automation"
	"github.com/san-kum/nuflux/internal/config"
	"github.com/san-kum/nuflux/internal/experiment"
	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/pipeline"
	"github.com/san-kum/nuflux/internal/storage"
	"github.com/san-kum/nuflux/internal/viz"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	sweepLog   bool
)

func addRunFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().StringVar(&preset, "preset", "default", "start from a preset configuration")
	cmd.Flags().StringVar(&sourceName, "source", d.Source, "source model (magnetar, nucleus)")
	cmd.Flags().StringSliceVar(&speciesTags, "species", d.Species, "hadron species")
	cmd.Flags().Float64Var(&field, "field", d.Magnetar.Field, "magnetar surface field (G)")
	cmd.Flags().Float64Var(&omega, "omega", d.Magnetar.Omega, "magnetar angular velocity (1/s)")
	cmd.Flags().Float64Var(&efficiency, "efficiency", d.Params.Efficiency, "fraction of the voltage given to protons")
	cmd.Flags().Float64Var(&velocity, "velocity", d.Params.Velocity, "ejecta velocity in units of c")
	cmd.Flags().Float64Var(&ejectaMass, "ejecta-mass", d.Params.EjectaMass, "ejecta mass (solar masses)")
	cmd.Flags().BoolVar(&opticalDepth, "optical-depth", d.Params.OpticalDepth, "weight collisions by the ejecta optical depth")
	cmd.Flags().BoolVar(&finiteEjecta, "finite-ejecta", d.Params.FiniteEjecta, "limit hadron paths to the ejecta radius")
	cmd.Flags().IntVar(&energyPoints, "energy-points", d.Grids.Energy.N, "points of the hadron energy grid")
	cmd.Flags().IntVar(&timePoints, "time-points", d.Grids.Time.N, "points of the time grid")
	cmd.Flags().IntVar(&foldSteps, "fold-steps", d.Params.FoldSteps, "points of every scalar fold")
	cmd.Flags().IntVar(&workers, "workers", d.Workers, "species processed at once (0 = GOMAXPROCS)")
}

// resolveConfig layers the preset, the config file and explicitly changed
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, &flux.DomainError{Kind: "preset", Tag: preset, Allowed: config.ListPresets(), Wrapped: flux.ErrUnknownModel}
	}
	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if cfg, err = config.Overlay(cfg, data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = sourceName
	}
	if flags.Changed("species") {
		cfg.Species = speciesTags
	}
	if flags.Changed("field") {
		cfg.Magnetar.Field = field
	}
	if flags.Changed("omega") {
		cfg.Magnetar.Omega = omega
	}
	if flags.Changed("efficiency") {
		cfg.Params.Efficiency = efficiency
	}
	if flags.Changed("velocity") {
		cfg.Params.Velocity = velocity
	}
	if flags.Changed("ejecta-mass") {
		cfg.Params.EjectaMass = ejectaMass
	}
	if flags.Changed("optical-depth") {
		cfg.Params.OpticalDepth = opticalDepth
	}
	if flags.Changed("finite-ejecta") {
		cfg.Params.FiniteEjecta = finiteEjecta
	}
	if flags.Changed("energy-points") {
		cfg.Grids.Energy.N = energyPoints
	}
	if flags.Changed("time-points") {
		cfg.Grids.Time.N = timePoints
	}
	if flags.Changed("fold-steps") {
		cfg.Params.FoldSteps = foldSteps
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	return cfg, cfg.Validate()
}

func openStore() (*storage.Store, *storage.Catalog, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, nil, err
	}
	catalog, err := storage.OpenCatalog(dataDir)
	if err != nil {
		return nil, nil, err
	}
	return st, catalog, nil
}

func describeSource(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	header := exp.Source().Header()
	fmt.Println(viz.Panel(cfg.Source, viz.KeyValues(viz.HeaderPairs(header[1:]))))
	return nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	st, catalog, err := openStore()
	if err != nil {
		return err
	}
	defer catalog.Close()

	exp, err := experiment.New(cfg,
		experiment.WithStore(st),
		experiment.WithCatalog(catalog),
		experiment.WithLogger(logger))
	if err != nil {
		return err
	}
	res, err := exp.Run(cmd.Context(), until)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func continueRun(cmd *cobra.Command, runID, stage string) error {
	st, catalog, err := openStore()
	if err != nil {
		return err
	}
	defer catalog.Close()

	res, err := experiment.Continue(cmd.Context(), st, runID, stage,
		experiment.WithCatalog(catalog),
		experiment.WithLogger(logger))
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func printResult(res *experiment.Result) {
	if res.Meta != nil {
		fmt.Printf("run: %s\n", res.Meta.ID)
	}
	for _, stage := range res.Stages {
		fmt.Printf("\n%s (%.2fs)\n", stage.Name, stage.Elapsed.Seconds())
		printMetrics(stage)
	}
}

func printMetrics(stage *pipeline.Stage) {
	if len(stage.Results) == 0 {
		return
	}
	names := make([]string, 0, len(stage.Results[0].Metrics))
	for name := range stage.Results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "SPECIES\tOUTSIDE\tWARNED\tNON-FINITE")
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)
	for _, r := range stage.Results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d", r.Species.Label(), r.Report.Outside, r.Report.Warned, r.Report.NonFinite)
		for _, name := range names {
			fmt.Fprintf(w, "\t%s", formatMetric(r.Metrics[name]))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

func formatMetric(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4g", v)
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st, catalog, err := openStore()
	if err != nil {
		return err
	}
	defer catalog.Close()

	results, err := automation.RunScenario(cmd.Context(), scenario, logger,
		experiment.WithStore(st),
		experiment.WithCatalog(catalog))
	for _, r := range results {
		fmt.Printf("%s: %s\n", r.Step, r.RunID)
	}
	return err
}

func addSweepFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "default", "preset to sweep")
	cmd.Flags().Float64Var(&sweepMin, "min", 1e14, "first parameter value")
	cmd.Flags().Float64Var(&sweepMax, "max", 1e16, "last parameter value")
	cmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	cmd.Flags().BoolVar(&sweepLog, "log", true, "log-spaced values")
}

func runSweep(cmd *cobra.Command, args []string) error {
	sweep := &automation.ParameterSweep{
		Preset:   preset,
		Param:    args[0],
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Log:      sweepLog,
	}
	results, err := automation.RunSweep(cmd.Context(), sweep, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSPECIES\tPEAK E (GeV)\tPEAK E^2 F\tINDEX\n", sweep.Param)
	for _, r := range results {
		tags := make([]string, 0, len(r.Metrics))
		for tag := range r.Metrics {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			m := r.Metrics[tag]
			fmt.Fprintf(w, "%.4g\t%s\t%s\t%s\t%s\n", r.ParamValue, tag,
				formatMetric(m["peak_energy"]), formatMetric(m["peak_e2_flux"]), formatMetric(m["spectral_index"]))
		}
	}
	return w.Flush()
}
