package colordist

import (
	"math"

	"github.com/Sumatoshi-tech/colordist/internal/artifact"
	"github.com/Sumatoshi-tech/colordist/internal/calcstats"
)

// CDF thresholds that bound the plotted color range.
const (
	axisLowerMass = 0.005
	axisUpperMass = 0.995
)

// StatisticResult is one scaled distance statistic for a color.
type StatisticResult struct {
	Name   string
	Value  float64
	Passed bool
}

// Comparison holds both CDFs of a color and the statistics between them.
type Comparison struct {
	Catalog    calcstats.Dataset
	Reference  calcstats.Dataset
	Statistics []StatisticResult
}

// Comparator compares catalog CDFs against reference CDFs.
type Comparator struct {
	statistics []calcstats.Named
}

// NewComparator returns a comparator running the given statistics in order.
func NewComparator(statistics []calcstats.Named) Comparator {
	return Comparator{statistics: statistics}
}

// Compare builds the CDFs of the catalog histogram and the reference PDF and
// evaluates every statistic on them. Values are scaled by the square root of
// the number of catalog bins; pass flags are the statistics' own.
func (c Comparator) Compare(hist Histogram, referencePDF calcstats.Dataset) Comparison {
	cmp := Comparison{
		Catalog:   calcstats.Dataset{X: hist.Centers, Y: CumulativeSum(hist.PDF)},
		Reference: calcstats.Dataset{X: referencePDF.X, Y: CumulativeSum(referencePDF.Y)},
	}

	scale := math.Sqrt(float64(cmp.Catalog.Len()))

	cmp.Statistics = make([]StatisticResult, 0, len(c.statistics))

	for _, s := range c.statistics {
		value, passed := s.Func(cmp.Catalog, cmp.Reference)
		cmp.Statistics = append(cmp.Statistics, StatisticResult{Name: s.Name, Value: value * scale, Passed: passed})
	}

	return cmp
}

// SummaryLines formats the statistics of a color for the summary artifact.
func SummaryLines(color string, results []StatisticResult) []string {
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = artifact.SummaryLine(color, r.Name, r.Value, r.Passed)
	}

	return lines
}

// AxisRange returns the plotted color range: from the smallest center where
// either CDF first exceeds 0.005 to the largest center where either first
// exceeds 0.995. A CDF that never exceeds a threshold contributes its first
// center.
func AxisRange(catalogCDF, referenceCDF calcstats.Dataset) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)

	for _, d := range []calcstats.Dataset{catalogCDF, referenceCDF} {
		if d.Len() == 0 || len(d.Y) != d.Len() {
			continue
		}

		lo = math.Min(lo, d.X[firstAbove(d.Y, axisLowerMass)])
		hi = math.Max(hi, d.X[firstAbove(d.Y, axisUpperMass)])
	}

	if math.IsInf(lo, 1) {
		return 0, 0
	}

	return lo, hi
}

func firstAbove(y []float64, threshold float64) int {
	for i, v := range y {
		if v > threshold {
			return i
		}
	}

	return 0
}

func statisticRecords(results []StatisticResult) []artifact.StatisticRecord {
	out := make([]artifact.StatisticRecord, len(results))
	for i, r := range results {
		out[i] = artifact.StatisticRecord{Name: r.Name, Value: r.Value, Passed: r.Passed}
	}

	return out
}
