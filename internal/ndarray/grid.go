package ndarray

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Meshgrid returns coordinate matrices of shape (len(y), len(x)): xx repeats x
// along rows, yy repeats y along columns (numpy "xy" indexing).
func Meshgrid(x, y []float64) (xx, yy Array) {
	nx, ny := len(x), len(y)
	xd := make([]float64, nx*ny)
	yd := make([]float64, nx*ny)
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			xd[i*nx+j] = x[j]
			yd[i*nx+j] = y[i]
		}
	}
	return Array{shape: []int{ny, nx}, data: xd}, Array{shape: []int{ny, nx}, data: yd}
}

// Linspace returns n evenly spaced values over [start, stop].
func Linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, stop)
}

// Logspace returns n values spaced evenly on a log scale from 10^startExp to
// 10^stopExp, both included.
func Logspace(startExp, stopExp float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{math.Pow(10, startExp)}
	}
	return floats.LogSpan(make([]float64, n), math.Pow(10, startExp), math.Pow(10, stopExp))
}

// LogspaceBetween is Logspace with linear endpoints: n values from lo to hi
// (both > 0) evenly spaced in log.
func LogspaceBetween(lo, hi float64, n int) []float64 {
	return Logspace(math.Log10(lo), math.Log10(hi), n)
}
