package colordist

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram is a normalized color distribution: PDF[i] is the fraction of
// galaxies in the bin centered on Centers[i].
type Histogram struct {
	Centers []float64
	PDF     []float64
	// Galaxies is the number of colors that fell inside the bin range.
	Galaxies int
}

// Len returns the number of bins.
func (h Histogram) Len() int {
	return len(h.Centers)
}

// ColorHistogram bins mag1-mag2 into the bins of spec and normalizes the
// counts to sum to one. Colors outside [Min, Max] are dropped; Max itself
// belongs to the last bin.
func ColorHistogram(mag1, mag2 []float64, spec BinSpec) (Histogram, error) {
	if len(mag1) != len(mag2) {
		return Histogram{}, fmt.Errorf("%w: %d and %d magnitudes", ErrMisalignedQuantities, len(mag1), len(mag2))
	}

	err := spec.Validate()
	if err != nil {
		return Histogram{}, err
	}

	colors := make([]float64, len(mag1))
	floats.SubTo(colors, mag1, mag2)

	// stat.Histogram wants sorted data inside [Min, Max); values equal to
	// Max are added to the last bin afterwards.
	inner := make([]float64, 0, len(colors))
	onUpperEdge := 0

	for _, c := range colors {
		switch {
		case c >= spec.Min && c < spec.Max:
			inner = append(inner, c)
		case c == spec.Max:
			onUpperEdge++
		}
	}

	total := len(inner) + onUpperEdge
	if total == 0 {
		return Histogram{}, ErrEmptyHistogram
	}

	slices.Sort(inner)

	edges := spec.Edges()
	counts := stat.Histogram(nil, edges, inner, nil)
	counts[len(counts)-1] += float64(onUpperEdge)

	floats.Scale(1/float64(total), counts)

	return Histogram{Centers: Centers(edges), PDF: counts, Galaxies: total}, nil
}
