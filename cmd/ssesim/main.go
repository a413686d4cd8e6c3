package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir      string
	configFile   string
	preset       string
	backend      string
	dim          int
	dt           float64
	steps        int
	samples      int
	seed         uint64
	trajectories int
	workers      int
	noRenorm     bool
	params       []string
	debug        bool
	logLevel     string
	logJSON      bool
	saveSystem   bool
	level        int
	outFile      string
	sweepParam   string
	sweepFrom    float64
	sweepTo      float64
	sweepPoints  int
	sweepMetric  string
	svgFile      string
	liveRate     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ssesim",
		Short:        "stochastic schrödinger equation simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ssesim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run trajectories and store them",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&saveSystem, "save-system", false, "store a snapshot of the simulated system")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot level populations",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&level, "level", -1, "level to plot (-1 for all, up to 6)")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the plot to an svg file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum of a level population",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&level, "level", 1, "level to analyze")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openStore().Delete(args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPresets(cmd.OutOrStdout(), args[0])
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list available models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printModels(cmd.OutOrStdout())
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "time every backend and check they agree",
		Args:  cobra.ExactArgs(1),
		RunE:  benchModel,
	}
	addRunFlags(benchCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "average a metric over a parameter range",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepModel,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "vary", "gamma", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 2.0, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 10, "number of values")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "population_1", "metric to average")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "watch one trajectory as it is integrated",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&liveRate, "rate", 30, "rows shown per second (0 for unthrottled)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of experiments",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, deleteCmd, presetsCmd, modelsCmd, benchCmd, sweepCmd, liveCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&backend, "backend", "native", "operator backend: native, dense, banded, factorized")
	cmd.Flags().IntVar(&dim, "dim", 0, "hilbert space dimension for sized models")
	cmd.Flags().Float64Var(&dt, "dt", 0.001, "micro-step size")
	cmd.Flags().IntVar(&steps, "steps", 10, "micro-steps between recorded rows")
	cmd.Flags().IntVar(&samples, "samples", 501, "recorded rows")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed of the first trajectory")
	cmd.Flags().IntVar(&trajectories, "trajectories", 1, "independent trajectories")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent trajectories (0 for GOMAXPROCS)")
	cmd.Flags().BoolVar(&noRenorm, "no-renorm", false, "skip renormalization between rows")
	cmd.Flags().StringSliceVarP(&params, "param", "p", nil, "model parameter override name=value")
}
