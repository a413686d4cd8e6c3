package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ssesim/internal/analysis"
	"github.com/san-kum/ssesim/internal/config"
	"github.com/san-kum/ssesim/internal/experiment"
	"github.com/san-kum/ssesim/internal/export"
)

const maxPlots = 6

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	fmt.Fprintln(out, headStyle.Render(fmt.Sprintf("%d runs", len(runs))))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tBACKEND\tDIM\tTIME\tDURATION\tDT\tSEED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.3f\t%g\t%d\n",
			run.ID,
			run.Model,
			run.Backend,
			run.Dim,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			float64(max(run.Samples-1, 0))*float64(run.Steps)*run.Dt,
			run.Dt,
			run.Seed,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := openStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(traj) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, kv("run", meta.ID))
	fmt.Fprintln(out, kv("model", meta.Model))
	fmt.Fprintln(out, kv("rows", len(traj)))
	fmt.Fprintln(out)

	levels := []int{level}
	if level < 0 {
		levels = levels[:0]
		for k := 0; k < min(len(traj[0]), maxPlots); k++ {
			levels = append(levels, k)
		}
	} else if level >= len(traj[0]) {
		return fmt.Errorf("level %d outside dimension %d", level, len(traj[0]))
	}

	series := make([][]float64, 0, len(levels))
	for _, k := range levels {
		pop := analysis.PopulationSeries(traj, k)
		series = append(series, pop)
		graph := asciigraph.Plot(pop,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("population of |%d⟩", k)),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	if svgFile != "" {
		if err := os.WriteFile(svgFile, []byte(export.SeriesSVG(times, series, 800, 400)), 0644); err != nil {
			return err
		}
		fmt.Fprintln(out, kv("svg", svgFile))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := openStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(traj) < 2 {
		return fmt.Errorf("need at least two rows, got %d", len(traj))
	}
	if level >= len(traj[0]) {
		return fmt.Errorf("level %d outside dimension %d", level, len(traj[0]))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("spectral analysis: "+meta.ID))
	fmt.Fprintln(out, kv("model", meta.Model))
	fmt.Fprintln(out)

	pop := analysis.PopulationSeries(traj, level)
	ps := analysis.PowerSpectrum(pop)
	plotData := ps[:max(len(ps)/4, 2)]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum of |%d⟩ population", level)),
	)
	fmt.Fprintln(out, graph)
	fmt.Fprintln(out)

	rowDt := float64(meta.Steps) * meta.Dt
	if rowDt > 0 {
		freq := analysis.DominantFrequency(pop, rowDt)
		fmt.Fprintln(out, kv("dominant freq", freq))
		if freq > 0 {
			fmt.Fprintln(out, kv("period", 1/freq))
			fmt.Fprintln(out, kv("angular freq", 2*math.Pi*freq))
		}
	}

	if bloch := analysis.BlochSeries(traj); len(bloch) > 0 {
		b := bloch[len(bloch)-1]
		fmt.Fprintln(out, kv("final bloch", fmt.Sprintf("(%.3f, %.3f, %.3f)", b.X, b.Y, b.Z)))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	var w io.Writer = cmd.OutOrStdout()
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return openStore().Export(w, args[0])
}

func printPresets(w io.Writer, model string) error {
	presets := config.ListPresets(model)
	if len(presets) == 0 {
		fmt.Fprintf(w, "no presets for model: %s\n", model)
		return nil
	}
	fmt.Fprintln(w, headStyle.Render("presets for "+model))
	for _, p := range presets {
		cfg := config.GetPreset(model, p)
		fmt.Fprintf(w, "  %-14s %s, dt=%g, %d×%d steps, %d trajectories\n",
			p, cfg.Backend, cfg.Dt, cfg.Samples, cfg.Steps, cfg.Trajectories)
	}
	return nil
}

func printModels(w io.Writer) error {
	registry := experiment.NewRegistry()
	fmt.Fprintln(w, headStyle.Render("models"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDIM\tPARAMS\tPRESETS")
	for _, name := range registry.ListModels() {
		m, err := registry.GetModel(name, 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			name, m.Dim(), strings.Join(sortedKeys(m.GetParams()), ","),
			strings.Join(config.ListPresets(name), ","))
	}
	return tw.Flush()
}
