package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/ssesim/internal/dynamo"
)

// PopulationSeries returns |ψ_k|² for every row. Rows too short for k
// give 0.
func PopulationSeries(traj dynamo.Trajectory, k int) []float64 {
	out := make([]float64, len(traj))
	for i, x := range traj {
		if k < len(x) {
			out[i] = real(x[k])*real(x[k]) + imag(x[k])*imag(x[k])
		}
	}
	return out
}

// ExpectationSeries returns Re⟨ψ|O|ψ⟩/⟨ψ|ψ⟩ for every row.
func ExpectationSeries(traj dynamo.Trajectory, op dynamo.Tensor) ([]float64, error) {
	out := make([]float64, len(traj))
	for i, x := range traj {
		ox, err := op.Apply(x)
		if err != nil {
			return nil, err
		}
		out[i] = real(x.Inner(ox)) / real(x.Inner(x))
	}
	return out, nil
}

// EnsembleMean averages equal-length series column by column and returns
// the mean and its standard error.
func EnsembleMean(series [][]float64) (mean, stderr []float64) {
	if len(series) == 0 {
		return nil, nil
	}
	n := len(series[0])
	for _, s := range series {
		n = min(n, len(s))
	}

	mean = make([]float64, n)
	stderr = make([]float64, n)
	col := make([]float64, len(series))
	for j := 0; j < n; j++ {
		for i, s := range series {
			col[i] = s[j]
		}
		m, sd := stat.MeanStdDev(col, nil)
		mean[j] = m
		if len(col) > 1 {
			stderr[j] = sd / math.Sqrt(float64(len(col)))
		}
	}
	return mean, stderr
}
