package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// FFT transforms data zero-padded to the next power of two.
func FFT(data []float64) []complex128 {
	return fft.FFTReal(dsputils.ZeroPadF(data, nextPow2(len(data))))
}

// PowerSpectrum returns |X_k|² / N for the non-negative frequencies of the
// mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	f := FFT(centered)
	n := float64(len(f))
	ps := make([]float64, len(f)/2+1)
	for i := range ps {
		a := cmplx.Abs(f[i])
		ps[i] = a * a / n
	}
	return ps
}

// Frequencies returns the bin frequencies matching PowerSpectrum for
// samples spaced dt apart.
func Frequencies(samples int, dt float64) []float64 {
	if samples == 0 || dt <= 0 {
		return nil
	}
	n := nextPow2(samples)
	out := make([]float64, n/2+1)
	for i := range out {
		out[i] = float64(i) / (float64(n) * dt)
	}
	return out
}

// DominantFrequency is the frequency of the largest non-DC power bin.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	freqs := Frequencies(len(data), dt)
	if len(ps) < 2 || len(freqs) != len(ps) {
		return 0
	}
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return freqs[best]
}

func nextPow2(n int) int {
	if n <= 1 {
		return n
	}
	return dsputils.NextPowerOf2(n)
}
