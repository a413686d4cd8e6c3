package sim

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/integrators"
	"github.com/san-kum/ssesim/internal/logging"
	"github.com/san-kum/ssesim/internal/metrics"
	"github.com/san-kum/ssesim/internal/physics"
)

func qubit(t *testing.T) (dynamo.System, dynamo.State) {
	t.Helper()
	m := physics.NewDrivenQubit()
	sys, err := m.Build(physics.BackendNative)
	if err != nil {
		t.Fatal(err)
	}
	return sys, m.DefaultState()
}

// nanSystem blows up on the first coherent step.
type nanSystem struct{}

func (nanSystem) Dim() int { return 1 }
func (nanSystem) Coherent(x dynamo.State, t, dt float64) (dynamo.State, error) {
	return dynamo.State{complex(math.NaN(), 0)}, nil
}
func (nanSystem) StochasticEuler(x dynamo.State, t, dt float64, rng dynamo.RandomSource) (dynamo.State, error) {
	return x.Clone(), nil
}

func TestSimulatorRun(t *testing.T) {
	sys, x0 := qubit(t)
	s := New(sys, integrators.NewEulerMaruyama(), WithMetric(metrics.NewNormDrift()))

	cfg := Config{Dt: 0.01, Steps: 10, Samples: 11, Seed: 3}
	result, err := s.Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Trajectory) != 11 {
		t.Errorf("expected 11 rows, got %d", len(result.Trajectory))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if math.Abs(result.Times[10]-cfg.Duration()) > 1e-12 {
		t.Errorf("expected last time %f, got %f", cfg.Duration(), result.Times[10])
	}
	if drift := result.Metrics["norm_drift"]; drift > 1e-12 {
		t.Errorf("renormalized run should keep unit norm, drift %g", drift)
	}
	if !result.Trajectory[0].Equal(x0, 0) {
		t.Error("first row should be the initial state")
	}
	if result.Seed != 3 {
		t.Errorf("expected seed 3 recorded, got %d", result.Seed)
	}
}

func TestSimulatorRunIsReproducible(t *testing.T) {
	sys, x0 := qubit(t)
	s := New(sys, integrators.NewEulerMaruyama())
	cfg := Config{Dt: 0.01, Steps: 5, Samples: 20, Seed: 9}

	a, err := s.Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Final().Equal(b.Final(), 0) {
		t.Error("same seed should give the same trajectory")
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sys, x0 := qubit(t)
	s := New(sys, integrators.NewEulerMaruyama())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative dt", Config{Dt: -0.1, Steps: 1, Samples: 2}},
		{"negative steps", Config{Dt: 0.1, Steps: -1, Samples: 2}},
		{"negative samples", Config{Dt: 0.1, Steps: 1, Samples: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), x0, tt.cfg)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected invalid config error, got %v", err)
			}
		})
	}
}

func TestSimulatorEmptyRun(t *testing.T) {
	sys, x0 := qubit(t)
	s := New(sys, integrators.NewEulerMaruyama(), WithMetric(metrics.NewPopulation(0)))

	result, err := s.Run(context.Background(), x0, Config{Dt: 0.1, Steps: 1, Samples: 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Trajectory) != 0 || result.Final() != nil {
		t.Errorf("expected an empty trajectory, got %d rows", len(result.Trajectory))
	}
	if result.Metrics["population_0"] != 0 {
		t.Error("metrics over no rows should be zero")
	}
}

func TestSimulatorCancelled(t *testing.T) {
	sys, x0 := qubit(t)
	s := New(sys, integrators.NewEulerMaruyama())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, x0, Config{Dt: 0.1, Steps: 1, Samples: 5})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSimulatorShapeMismatch(t *testing.T) {
	sys, _ := qubit(t)
	s := New(sys, integrators.NewEulerMaruyama())

	_, err := s.Run(context.Background(), dynamo.Basis(3, 0), Config{Dt: 0.1, Steps: 1, Samples: 2})
	if !errors.Is(err, dynamo.ErrShape) {
		t.Errorf("expected shape error, got %v", err)
	}
}

func TestSimulatorRejectsNaN(t *testing.T) {
	s := New(nanSystem{}, integrators.NewEulerMaruyama(integrators.WithRenormalization(false)))

	_, err := s.Run(context.Background(), dynamo.State{1}, Config{Dt: 0.1, Steps: 1, Samples: 3})
	var se *dynamo.SimulationError
	if !errors.As(err, &se) || !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected invalid state simulation error, got %v", err)
	}
	if se.Row != 1 {
		t.Errorf("expected failure at row 1, got %d", se.Row)
	}

	s = New(nanSystem{}, integrators.NewEulerMaruyama(integrators.WithRenormalization(false)), WithValidation(false))
	if _, err := s.Run(context.Background(), dynamo.State{1}, Config{Dt: 0.1, Steps: 1, Samples: 3}); err != nil {
		t.Errorf("validation disabled, got %v", err)
	}
}

func TestSimulatorLogs(t *testing.T) {
	sys, x0 := qubit(t)
	var buf bytes.Buffer
	l := logging.New(logging.WithWriter(&buf), logging.WithDebug(true))
	s := New(sys, integrators.NewEulerMaruyama(), WithLogger(l))

	if _, err := s.Run(context.Background(), x0, Config{Dt: 0.1, Steps: 1, Samples: 2, Seed: 5}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("trajectory finished")) {
		t.Errorf("expected debug log, got %q", buf.String())
	}
}

func TestStreamMatchesRun(t *testing.T) {
	sys, x0 := qubit(t)
	s := New(sys, integrators.NewEulerMaruyama())
	cfg := Config{Dt: 0.01, Steps: 4, Samples: 15, Seed: 21}

	result, err := s.Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatal(err)
	}

	rows := 0
	err = s.Stream(context.Background(), x0, cfg, func(row int, tm float64, x dynamo.State) bool {
		if !x.Equal(result.Trajectory[row], 1e-14) {
			t.Errorf("row %d differs from Run", row)
		}
		if tm != result.Times[row] {
			t.Errorf("row %d: time %f, want %f", row, tm, result.Times[row])
		}
		rows++
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if rows != cfg.Samples {
		t.Errorf("expected %d rows, got %d", cfg.Samples, rows)
	}
}

func TestStreamStopsEarly(t *testing.T) {
	sys, x0 := qubit(t)
	s := New(sys, integrators.NewEulerMaruyama())

	rows := 0
	err := s.Stream(context.Background(), x0, Config{Dt: 0.01, Steps: 1, Samples: 100}, func(int, float64, dynamo.State) bool {
		rows++
		return rows < 3
	})
	if err != nil || rows != 3 {
		t.Errorf("expected 3 rows and no error, got %d, %v", rows, err)
	}
}

func TestStreamShapeMismatch(t *testing.T) {
	sys, _ := qubit(t)
	s := New(sys, integrators.NewEulerMaruyama())

	for _, samples := range []int{0, 1, 3} {
		rows := 0
		err := s.Stream(context.Background(), dynamo.Basis(3, 0), Config{Dt: 0.1, Steps: 1, Samples: samples}, func(int, float64, dynamo.State) bool {
			rows++
			return true
		})
		if !errors.Is(err, dynamo.ErrShape) {
			t.Errorf("samples %d: expected shape error, got %v", samples, err)
		}
		if rows != 0 {
			t.Errorf("samples %d: expected no rows, got %d", samples, rows)
		}
	}
}
