// Package calcstats provides distance statistics between two sampled curves.
// Every statistic interpolates the second dataset onto the x grid of the first
// and reports a value together with a pass flag against a threshold.
package calcstats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// Statistic names as they appear in summaries.
const (
	NameL2Diff = "L2Diff"
	NameL1Diff = "L1Diff"
	NameKS     = "K-S"
)

// Default pass thresholds.
const (
	DefaultL2Threshold = 1.0
	DefaultL1Threshold = 1.0
	DefaultKSThreshold = 0.05
)

// minFitPoints is the smallest reference curve that can be interpolated.
const minFitPoints = 2

// Dataset is a sampled curve y(x). X must be strictly increasing.
type Dataset struct {
	X []float64
	Y []float64
}

// Len returns the number of samples.
func (d Dataset) Len() int {
	return len(d.X)
}

// DistanceFunc compares two datasets and returns the statistic value and
// whether it passes. Degenerate input yields (NaN, false).
type DistanceFunc func(d1, d2 Dataset) (float64, bool)

// Named pairs a statistic with the name used in reports.
type Named struct {
	Name string
	Func DistanceFunc
}

// Thresholds holds the pass thresholds for the standard statistics.
type Thresholds struct {
	L2 float64
	L1 float64
	KS float64
}

// DefaultThresholds returns the default pass thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{L2: DefaultL2Threshold, L1: DefaultL1Threshold, KS: DefaultKSThreshold}
}

// WithDefaults fills every unset threshold with its default.
func (th Thresholds) WithDefaults() Thresholds {
	def := DefaultThresholds()

	if th.L2 <= 0 {
		th.L2 = def.L2
	}

	if th.L1 <= 0 {
		th.L1 = def.L1
	}

	if th.KS <= 0 {
		th.KS = def.KS
	}

	return th
}

// Standard returns L2Diff, L1Diff and K-S in summary order.
func Standard(th Thresholds) []Named {
	return []Named{
		{Name: NameL2Diff, Func: L2Diff(th.L2)},
		{Name: NameL1Diff, Func: L1Diff(th.L1)},
		{Name: NameKS, Func: KSTest(th.KS)},
	}
}

// L2Diff returns the root mean squared difference statistic.
func L2Diff(threshold float64) DistanceFunc {
	return func(d1, d2 Dataset) (float64, bool) {
		y1, y2, ok := align(d1, d2)
		if !ok {
			return math.NaN(), false
		}

		value := floats.Distance(y1, y2, 2) / math.Sqrt(float64(len(y1)))

		return value, value < threshold
	}
}

// L1Diff returns the mean absolute difference statistic.
func L1Diff(threshold float64) DistanceFunc {
	return func(d1, d2 Dataset) (float64, bool) {
		y1, y2, ok := align(d1, d2)
		if !ok {
			return math.NaN(), false
		}

		value := floats.Distance(y1, y2, 1) / float64(len(y1))

		return value, value < threshold
	}
}

// KSTest returns the Kolmogorov-Smirnov statistic: the largest absolute
// difference between the two curves, which are expected to be CDFs.
func KSTest(threshold float64) DistanceFunc {
	return func(d1, d2 Dataset) (float64, bool) {
		y1, y2, ok := align(d1, d2)
		if !ok {
			return math.NaN(), false
		}

		value := floats.Distance(y1, y2, math.Inf(1))

		return value, value < threshold
	}
}

// align returns d1.Y and d2 resampled on d1.X.
func align(d1, d2 Dataset) (y1, y2 []float64, ok bool) {
	if d1.Len() == 0 || len(d1.Y) != d1.Len() || len(d2.Y) != d2.Len() || d2.Len() < minFitPoints {
		return nil, nil, false
	}

	// Fit panics on abscissae that are not strictly increasing.
	if !strictlyIncreasing(d2.X) {
		return nil, nil, false
	}

	var pl interp.PiecewiseLinear

	err := pl.Fit(d2.X, d2.Y)
	if err != nil {
		return nil, nil, false
	}

	y2 = make([]float64, d1.Len())
	for i, x := range d1.X {
		y2[i] = pl.Predict(x)
	}

	return d1.Y, y2, true
}

func strictlyIncreasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return false
		}
	}

	return true
}
