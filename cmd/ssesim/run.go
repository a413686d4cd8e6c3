package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/ssesim/internal/automation"
	"github.com/san-kum/ssesim/internal/config"
	"github.com/san-kum/ssesim/internal/experiment"
	"github.com/san-kum/ssesim/internal/logging"
	"github.com/san-kum/ssesim/internal/sim"
	"github.com/san-kum/ssesim/internal/storage"
)

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg.Model = model
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("dim") {
		cfg.Dim = dim
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("trajectories") {
		cfg.Trajectories = trajectories
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("no-renorm") {
		cfg.Renormalize = !noRenorm
	}

	overrides, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 && cfg.Params == nil {
		cfg.Params = make(map[string]float64, len(overrides))
	}
	for k, v := range overrides {
		cfg.Params[k] = v
	}

	return cfg, cfg.Validate()
}

func parseParams(raw []string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for _, p := range raw {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("parameter %q: want name=value", p)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

func openStore() *storage.Store {
	return storage.New(dataDir)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}

	logger := newLogger("ssesim")
	exp := experiment.New(cfg, experiment.NewRegistry())
	exp.SetLogger(logger)
	if err := exp.Setup(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Model:       cfg.Model,
		Backend:     cfg.Backend,
		Dt:          cfg.Dt,
		Steps:       cfg.Steps,
		Samples:     cfg.Samples,
		Renormalize: cfg.Renormalize,
		Params:      exp.Model().GetParams(),
	}
	ids := make([]string, 0, len(results))
	for _, res := range results {
		id, err := st.Save(meta, res)
		if err != nil {
			return err
		}
		if saveSystem {
			if err := st.SaveSystem(id, exp.System()); err != nil {
				return err
			}
		}
		ids = append(ids, id)
	}

	printSummary(cmd.OutOrStdout(), cfg, results, ids, elapsed)
	return nil
}

func printSummary(w io.Writer, cfg *config.Config, results []*sim.Result, ids []string, elapsed time.Duration) {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s on %s backend", cfg.Model, cfg.Backend)),
		kv("trajectories", len(results)),
		kv("rows", cfg.Samples),
		kv("duration", cfg.Sim().Duration()),
		kv("elapsed", elapsed.Round(time.Microsecond)),
	}
	if len(ids) == 1 {
		lines = append(lines, kv("run id", ids[0]))
	} else if len(ids) > 1 {
		lines = append(lines, kv("run ids", fmt.Sprintf("%s … %s", ids[0], ids[len(ids)-1])))
	}

	if len(results) > 0 {
		names := make([]string, 0, len(results[0].Metrics))
		for name := range results[0].Metrics {
			names = append(names, name)
		}
		slices.Sort(names)

		lines = append(lines, "", headStyle.Render("metrics"))
		for _, name := range names {
			v, _ := sim.Average(results, name)
			lines = append(lines, kv(name, v))
		}
	}

	fmt.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func fmtValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', 6, 64)
	default:
		return fmt.Sprint(x)
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}

	logger := newLogger(scenario.Name)
	steps, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), logger)
	for _, step := range steps {
		cfg := step.Config
		meta := storage.RunMetadata{
			Model:       cfg.Model,
			Backend:     cfg.Backend,
			Dt:          cfg.Dt,
			Steps:       cfg.Steps,
			Samples:     cfg.Samples,
			Renormalize: cfg.Renormalize,
			Params:      cfg.Params,
		}
		ids := make([]string, 0, len(step.Results))
		var elapsed time.Duration
		for _, res := range step.Results {
			id, saveErr := st.Save(meta, res)
			if saveErr != nil {
				return saveErr
			}
			ids = append(ids, id)
			elapsed += res.Elapsed
		}
		printSummary(cmd.OutOrStdout(), cfg, step.Results, ids, elapsed)
	}
	return err
}

func newLogger(prefix string) *log.Logger {
	opts := []logging.Option{
		logging.WithDebug(debug),
		logging.WithPrefix(prefix),
		logging.WithJSON(logJSON),
	}
	if logLevel != "" {
		opts = append(opts, logging.WithLevel(logLevel))
	}
	return logging.New(opts...)
}
