package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/ssesim/internal/analysis"
	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/experiment"
	"github.com/san-kum/ssesim/internal/integrators"
	"github.com/san-kum/ssesim/internal/physics"
	"github.com/san-kum/ssesim/internal/sim"
)

var benchBackends = []physics.Backend{
	physics.BackendDense,
	physics.BackendNative,
	physics.BackendBanded,
	physics.BackendFactorized,
}

// benchModel runs the same seed on every backend, reporting throughput and
// the largest infidelity against the dense reference.
func benchModel(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	model, err := registry.GetModel(cfg.Model, cfg.Dim)
	if err != nil {
		return err
	}
	for name, v := range cfg.Params {
		if err := model.SetParam(name, v); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("benchmarking %s (dim %d)", model.Name(), model.Dim())))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tSTEPS\tTIME\tSTEPS/SEC\tMAX INFIDELITY")

	solver := integrators.NewEulerMaruyama(integrators.WithRenormalization(cfg.Renormalize))
	var reference dynamo.Trajectory
	for _, b := range benchBackends {
		sys, err := model.Build(b)
		if errors.Is(err, dynamo.ErrConstruction) {
			fmt.Fprintf(w, "%s\t-\t-\t-\tunsupported\n", b)
			continue
		}
		if err != nil {
			return err
		}

		start := time.Now()
		res, err := sim.New(sys, solver).Run(context.Background(), model.DefaultState(), cfg.Sim())
		if err != nil {
			return fmt.Errorf("%s: %w", b, err)
		}
		elapsed := time.Since(start)

		total := max(cfg.Samples-1, 0) * cfg.Steps
		sep := "reference"
		if reference == nil {
			reference = res.Trajectory
		} else {
			sep = fmt.Sprintf("%.2e", analysis.MaxSeparation(reference, res.Trajectory))
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\t%s\n",
			b, total, elapsed.Round(time.Microsecond), float64(total)/elapsed.Seconds(), sep)
	}
	return w.Flush()
}

func sweepModel(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	model, err := registry.GetModel(cfg.Model, cfg.Dim)
	if err != nil {
		return err
	}
	for name, v := range cfg.Params {
		if err := model.SetParam(name, v); err != nil {
			return err
		}
	}
	b, err := physics.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}
	solver, err := registry.GetSolver(experiment.DefaultSolver, cfg.Renormalize)
	if err != nil {
		return err
	}

	eval := func(m physics.Model) (float64, error) {
		sys, err := m.Build(b)
		if err != nil {
			return 0, err
		}
		factory := func() *sim.Simulator {
			opts := make([]sim.Option, 0)
			for _, metric := range registry.DefaultMetrics(m) {
				opts = append(opts, sim.WithMetric(metric))
			}
			return sim.New(sys, solver, opts...)
		}
		batch := sim.NewBatch(factory, cfg.Trajectories, cfg.Seed)
		if cfg.Workers > 0 {
			batch.SetWorkers(cfg.Workers)
		}
		results, err := batch.Run(cmd.Context(), m.DefaultState(), cfg.Sim())
		if err != nil {
			return 0, err
		}
		v, ok := sim.Average(results, sweepMetric)
		if !ok {
			return 0, fmt.Errorf("unknown metric: %s", sweepMetric)
		}
		return v, nil
	}

	points, err := analysis.Sweep(model, sweepParam, sweepFrom, sweepTo, sweepPoints, eval)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s: %s vs %s", model.Name(), sweepMetric, sweepParam)))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", sweepParam, sweepMetric)
	for _, p := range points {
		fmt.Fprintf(w, "%g\t%.6f\n", p.Param, p.Value)
	}
	return w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
