package colordist

import "gonum.org/v1/gonum/floats"

// CumulativeSum returns the running sum of h. The result is not normalized.
func CumulativeSum(h []float64) []float64 {
	if len(h) == 0 {
		return []float64{}
	}

	return floats.CumSum(make([]float64, len(h)), h)
}
