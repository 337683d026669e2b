package observability_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/colordist/internal/observability"
)

func newManualMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return mp, reader
}

func setupTestMeter(t *testing.T) (*observability.REDMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	mp, reader := newManualMeter(t)

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return red, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumByAttr(t *testing.T, m *metricdata.Metrics, key, value string) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum[int64] data for %s", m.Name)

	var total int64

	for _, dp := range sum.DataPoints {
		v, found := dp.Attributes.Value(attribute.Key(key))
		if key == "" || (found && v.AsString() == value) {
			total += dp.Value
		}
	}

	return total
}

func TestREDMetrics_RecordRequest(t *testing.T) {
	t.Parallel()
	red, reader := setupTestMeter(t)
	ctx := context.Background()

	red.RecordRequest(ctx, "mcp.colordist_run", "ok", time.Millisecond*100)

	rm := collectMetrics(t, reader)

	reqTotal := findMetric(rm, "colordist.requests.total")
	require.NotNil(t, reqTotal, "colordist.requests.total metric not found")
	assert.Equal(t, int64(1), sumByAttr(t, reqTotal, "status", "ok"))

	reqDuration := findMetric(rm, "colordist.request.duration.seconds")
	require.NotNil(t, reqDuration, "colordist.request.duration.seconds metric not found")

	assert.Nil(t, findMetric(rm, "colordist.errors.total"))
}

func TestREDMetrics_RecordRequestError(t *testing.T) {
	t.Parallel()
	red, reader := setupTestMeter(t)
	ctx := context.Background()

	red.RecordRequest(ctx, "mcp.colordist_quantities", "error", time.Second)

	rm := collectMetrics(t, reader)

	errTotal := findMetric(rm, "colordist.errors.total")
	require.NotNil(t, errTotal, "colordist.errors.total metric not found")
	assert.Equal(t, int64(1), sumByAttr(t, errTotal, "op", "mcp.colordist_quantities"))
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()
	red, reader := setupTestMeter(t)
	ctx := context.Background()

	done := red.TrackInflight(ctx, "mcp.colordist_run")

	rm := collectMetrics(t, reader)

	inflight := findMetric(rm, "colordist.inflight.requests")
	require.NotNil(t, inflight, "colordist.inflight.requests metric not found")
	assert.Equal(t, int64(1), sumByAttr(t, inflight, "", ""))

	done()

	rm = collectMetrics(t, reader)
	inflight = findMetric(rm, "colordist.inflight.requests")
	require.NotNil(t, inflight)
	assert.Equal(t, int64(0), sumByAttr(t, inflight, "", ""))
}

func TestREDMetrics_HistogramBuckets(t *testing.T) {
	t.Parallel()

	red, reader := setupTestMeter(t)

	red.RecordRequest(context.Background(), "cli.run", "ok", time.Second)

	rm := collectMetrics(t, reader)

	reqDuration := findMetric(rm, "colordist.request.duration.seconds")
	require.NotNil(t, reqDuration)

	hist, ok := reqDuration.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "expected Histogram data type")
	require.NotEmpty(t, hist.DataPoints)

	expectedBounds := []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300}
	assert.Equal(t, expectedBounds, hist.DataPoints[0].Bounds)
}

func TestNewREDMetrics_WithNoopProviders(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	red, err := observability.NewREDMetrics(providers.Meter)
	require.NoError(t, err)
	assert.NotNil(t, red)

	red.RecordRequest(context.Background(), "test", "ok", time.Millisecond)
}

func TestValidationMetrics_Record(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)

	vm, err := observability.NewValidationMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()

	vm.RecordColor(ctx, "compared", 1200)
	vm.RecordColor(ctx, "compared", 300)
	vm.RecordColor(ctx, "missing_quantity", 0)
	vm.RecordStatistic(ctx, "K-S", 0.02, true)
	vm.RecordStatistic(ctx, "L2Diff", 3.5, false)
	vm.RecordRun(ctx, "PASSED")

	rm := collectMetrics(t, reader)

	runs := findMetric(rm, "colordist.runs.total")
	require.NotNil(t, runs)
	assert.Equal(t, int64(1), sumByAttr(t, runs, "status", "PASSED"))

	colors := findMetric(rm, "colordist.colors.total")
	require.NotNil(t, colors)
	assert.Equal(t, int64(2), sumByAttr(t, colors, "outcome", "compared"))
	assert.Equal(t, int64(1), sumByAttr(t, colors, "outcome", "missing_quantity"))

	galaxies := findMetric(rm, "colordist.galaxies.selected")
	require.NotNil(t, galaxies)
	assert.Equal(t, int64(1500), sumByAttr(t, galaxies, "", ""))

	stat := findMetric(rm, "colordist.statistic.value")
	require.NotNil(t, stat)

	hist, ok := stat.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)
}

func TestValidationMetrics_DropsUndefinedStatistics(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)

	vm, err := observability.NewValidationMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()

	vm.RecordStatistic(ctx, "L2Diff", math.NaN(), false)
	vm.RecordStatistic(ctx, "K-S", math.Inf(1), false)
	vm.RecordStatistic(ctx, "L1Diff", 0.4, true)

	stat := findMetric(collectMetrics(t, reader), "colordist.statistic.value")
	require.NotNil(t, stat)

	hist, ok := stat.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.InDelta(t, 0.4, hist.DataPoints[0].Sum, 1e-12)
}
