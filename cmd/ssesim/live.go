package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/experiment"
	"github.com/san-kum/ssesim/internal/metrics"
	"github.com/san-kum/ssesim/internal/sim"
)

const liveHistory = 300

var (
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

var liveColors = []asciigraph.AnsiColor{
	asciigraph.Cyan, asciigraph.Orange, asciigraph.Green,
	asciigraph.Magenta, asciigraph.Yellow, asciigraph.Red,
}

type rowMsg struct {
	row int
	t   float64
	x   dynamo.State
}

type streamDoneMsg struct{ err error }

type liveTickMsg struct{}

// liveModel shows populations and norm drift of one trajectory as rows
// arrive from Simulator.Stream.
type liveModel struct {
	name     string
	rows     <-chan tea.Msg
	cancel   context.CancelFunc
	interval time.Duration

	running bool
	pending bool
	done    bool
	err     error

	row   int
	t     float64
	pops  [][]float64
	drift []float64
	norm  *metrics.NormDrift
}

func newLiveModel(name string, dim int, rows <-chan tea.Msg, cancel context.CancelFunc, interval time.Duration) liveModel {
	return liveModel{
		name:     name,
		rows:     rows,
		cancel:   cancel,
		interval: interval,
		running:  true,
		pops:     make([][]float64, min(dim, maxPlots)),
		drift:    make([]float64, 0, liveHistory),
		norm:     metrics.NewNormDrift(),
	}
}

func waitForRow(rows <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-rows
		if !ok {
			return streamDoneMsg{}
		}
		return msg
	}
}

func (m liveModel) Init() tea.Cmd {
	return waitForRow(m.rows)
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case " ":
			m.running = !m.running
			if m.running && !m.pending && !m.done {
				m.pending = true
				return m, waitForRow(m.rows)
			}
		}
	case rowMsg:
		m.record(msg)
		if m.interval <= 0 {
			if m.running {
				return m, waitForRow(m.rows)
			}
			m.pending = false
			return m, nil
		}
		return m, tea.Tick(m.interval, func(time.Time) tea.Msg { return liveTickMsg{} })
	case liveTickMsg:
		if m.running {
			return m, waitForRow(m.rows)
		}
		m.pending = false
	case streamDoneMsg:
		m.done, m.pending, m.err = true, false, msg.err
	}
	return m, nil
}

func (m *liveModel) record(msg rowMsg) {
	m.row, m.t = msg.row, msg.t
	m.pending = true
	m.norm.Observe(msg.x, msg.t)
	m.drift = appendCapped(m.drift, math.Abs(msg.x.Norm()-1))
	pops := msg.x.Populations()
	for k := range m.pops {
		m.pops[k] = appendCapped(m.pops[k], pops[k])
	}
}

func appendCapped(s []float64, v float64) []float64 {
	if len(s) == liveHistory {
		copy(s, s[1:])
		s = s[:len(s)-1]
	}
	return append(s, v)
}

func (m liveModel) status() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("FAILED: " + m.err.Error())
	case m.done:
		return "FINISHED"
	case !m.running:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

func (m liveModel) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.drift) > 1 {
		legends := make([]string, len(m.pops))
		for k := range legends {
			legends[k] = fmt.Sprintf("|%d⟩", k)
		}
		chart := asciigraph.PlotMany(m.pops,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
			asciigraph.SeriesColors(liveColors[:len(m.pops)]...),
			asciigraph.SeriesLegends(legends...),
			asciigraph.Caption("populations"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")

		drift := asciigraph.Plot(m.drift,
			asciigraph.Height(4),
			asciigraph.Width(70),
			asciigraph.Caption("norm drift"),
		)
		s.WriteString(graphStyle.Render(drift) + "\n")
	}

	s.WriteString(kv("row", m.row) + "\n")
	s.WriteString(kv("time", m.t) + "\n")
	s.WriteString(kv("max drift", m.norm.Value()) + "\n")
	s.WriteString(helpStyle.Render("SP:Pause Q:Quit"))
	return s.String()
}

// streamRows runs Stream in the background and forwards each row, then a
// streamDoneMsg. The channel is closed when the stream ends or ctx is
// cancelled.
func streamRows(ctx context.Context, s *sim.Simulator, x0 dynamo.State, cfg sim.Config) <-chan tea.Msg {
	out := make(chan tea.Msg)
	go func() {
		defer close(out)
		err := s.Stream(ctx, x0, cfg, func(row int, t float64, x dynamo.State) bool {
			select {
			case out <- rowMsg{row: row, t: t, x: x}:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if ctx.Err() != nil {
			return
		}
		select {
		case out <- streamDoneMsg{err: err}:
		case <-ctx.Done():
		}
	}()
	return out
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry())
	if err := exp.Setup(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var interval time.Duration
	if liveRate > 0 {
		interval = time.Second / time.Duration(liveRate)
	}

	model := exp.Model()
	rows := streamRows(ctx, exp.Simulator(), model.DefaultState(), cfg.Sim())
	final, err := tea.NewProgram(newLiveModel(model.Name(), model.Dim(), rows, cancel, interval)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(liveModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
