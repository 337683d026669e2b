package observability

import (
	"context"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRunsTotal        = "colordist.runs.total"
	metricColorsTotal      = "colordist.colors.total"
	metricGalaxiesSelected = "colordist.galaxies.selected"
	metricStatisticValue   = "colordist.statistic.value"

	attrOutcome   = "outcome"
	attrStatistic = "statistic"
	attrPassed    = "passed"
)

// statisticBucketBoundaries spans the K-S range near its critical value and
// the scaled L1/L2 distances around their thresholds.
var statisticBucketBoundaries = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// ValidationMetrics records the outcome of color distribution runs.
type ValidationMetrics struct {
	runsTotal        metric.Int64Counter
	colorsTotal      metric.Int64Counter
	galaxiesSelected metric.Int64Counter
	statisticValue   metric.Float64Histogram
}

// NewValidationMetrics creates the validation instruments from the given meter.
func NewValidationMetrics(mt metric.Meter) (*ValidationMetrics, error) {
	b := newMetricBuilder(mt)

	vm := &ValidationMetrics{
		runsTotal:        b.counter(metricRunsTotal, "Validation runs by final status", "{run}"),
		colorsTotal:      b.counter(metricColorsTotal, "Processed colors by outcome", "{color}"),
		galaxiesSelected: b.counter(metricGalaxiesSelected, "Galaxies passing the magnitude mask", "{galaxy}"),
		statisticValue: b.histogram(
			metricStatisticValue, "Scaled distance statistic per color", "1", statisticBucketBoundaries...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return vm, nil
}

// RecordRun counts a finished run.
func (vm *ValidationMetrics) RecordRun(ctx context.Context, status string) {
	vm.runsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}

// RecordColor counts a processed color and the galaxies it selected.
func (vm *ValidationMetrics) RecordColor(ctx context.Context, outcome string, galaxies int) {
	vm.colorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, outcome)))

	if galaxies > 0 {
		vm.galaxiesSelected.Add(ctx, int64(galaxies))
	}
}

// RecordStatistic records one statistic value. Undefined values are dropped
// so they cannot poison the histogram sum.
func (vm *ValidationMetrics) RecordStatistic(ctx context.Context, name string, value float64, passed bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}

	vm.statisticValue.Record(ctx, value, metric.WithAttributes(
		attribute.String(attrStatistic, name),
		attribute.Bool(attrPassed, passed),
	))
}
