package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/san-kum/nuflux/internal/config"
	"github.com/san-kum/nuflux/internal/experiment"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dataDir    string
	configFile string
	verbose    bool
	logger     = zap.NewNop()

	// run configuration overrides
	preset       string
	sourceName   string
	speciesTags  []string
	field        float64
	omega        float64
	efficiency   float64
	velocity     float64
	ejectaMass   float64
	opticalDepth bool
	finiteEjecta bool
	energyPoints int
	timePoints   int
	foldSteps    int
	workers      int
	until        string
)

func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("nuflux")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nuflux"))
		}
	}

	viper.SetEnvPrefix("NUFLUX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	cobra.OnInitialize(initConfig)

	rootCmd := &cobra.Command{
		Use:   "nuflux",
		Short: "hadron and neutrino spectra of astrophysical sources",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			dataDir = viper.GetString("data")
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".nuflux", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	_ = viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))

	describeCmd := &cobra.Command{
		Use:   "describe",
		Short: "print the derived constants of the configured source",
		RunE:  describeSource,
	}
	addRunFlags(describeCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run every stage and store the tables",
		RunE:  runPipeline,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&until, "until", "integrate", "last stage to run ("+strings.Join(experiment.StageNames(), ", ")+")")

	hadronsCmd := &cobra.Command{
		Use:   "hadrons",
		Short: "tabulate hadron spectra over energy and time",
		RunE: func(cmd *cobra.Command, args []string) error {
			until = "hadrons"
			return runPipeline(cmd, args)
		},
	}
	addRunFlags(hadronsCmd)

	neutrinosCmd := &cobra.Command{
		Use:   "neutrinos [run_id]",
		Short: "fold stored hadron tables into neutrino spectra",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return continueRun(cmd, args[0], "neutrinos")
		},
	}

	integrateCmd := &cobra.Command{
		Use:   "integrate [run_id]",
		Short: "integrate stored neutrino tables over the time windows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return continueRun(cmd, args[0], "integrate")
		},
	}

	pointCmd := &cobra.Command{
		Use:   "point",
		Short: "evaluate a single spectrum value",
		RunE:  evaluatePoint,
	}
	addRunFlags(pointCmd)
	addPointFlags(pointCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "scan one parameter and tabulate spectrum metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addSweepFlags(sweepCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&listModel, "model", "", "only runs of this source")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored spectra in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	addStageFlags(plotCmd)
	plotCmd.Flags().Float64Var(&curveEnergy, "energy", 0, "plot the light curve nearest this energy (GeV)")

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render stored spectra to png or svg",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	addStageFlags(renderCmd)
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "spectra.svg", "output file (.png or .svg)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored table to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	addStageFlags(exportJSONCmd)
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout if empty)")

	removeCmd := &cobra.Command{
		Use:   "remove [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  removeRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(describeCmd, runCmd, hadronsCmd, neutrinosCmd, integrateCmd, pointCmd,
		scenarioCmd, sweepCmd, listCmd, plotCmd, renderCmd, exportJSONCmd, removeCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
