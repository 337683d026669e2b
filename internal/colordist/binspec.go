package colordist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const binArgsLen = 3

// DefaultCDFBins is the binning of the mandatory CDF comparison.
var DefaultCDFBins = BinSpec{Min: -1, Max: 4, Count: 2000}

// BinSpec defines Count equal-width bins spanning [Min, Max].
type BinSpec struct {
	Min   float64
	Max   float64
	Count int
}

// ParseBinArgs converts a configured (min, max, count) triple.
func ParseBinArgs(args []float64) (BinSpec, error) {
	if len(args) != binArgsLen {
		return BinSpec{}, fmt.Errorf("%w: got %d values", ErrMalformedBinArgs, len(args))
	}

	count := args[2]
	if count != math.Trunc(count) || count > math.MaxInt32 {
		return BinSpec{}, fmt.Errorf("%w: count %v is not an integer", ErrMalformedBinArgs, count)
	}

	spec := BinSpec{Min: args[0], Max: args[1], Count: int(count)}

	return spec, spec.Validate()
}

// Validate checks that the spec describes at least one non-empty bin.
func (b BinSpec) Validate() error {
	if b.Count < 1 {
		return fmt.Errorf("%w: count %d must be positive", ErrMalformedBinArgs, b.Count)
	}

	if !(b.Min < b.Max) {
		return fmt.Errorf("%w: min %v must be below max %v", ErrMalformedBinArgs, b.Min, b.Max)
	}

	return nil
}

// Edges returns the Count+1 linearly spaced bin edges.
func (b BinSpec) Edges() []float64 {
	edges := floats.Span(make([]float64, b.Count+1), b.Min, b.Max)
	edges[b.Count] = b.Max

	return edges
}

// Centers returns the midpoints of consecutive edges.
func Centers(edges []float64) []float64 {
	if len(edges) < 2 {
		return nil
	}

	centers := make([]float64, len(edges)-1)
	for i := range centers {
		centers[i] = (edges[i] + edges[i+1]) / 2
	}

	return centers
}
