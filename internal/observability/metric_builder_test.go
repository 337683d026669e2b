package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func manualBuilder(t *testing.T) (*metricBuilder, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { require.NoError(t, mp.Shutdown(context.Background())) })

	return newMetricBuilder(mp.Meter("colordist-test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}

	return out
}

func TestMetricBuilder_StatisticHistogramUsesBounds(t *testing.T) {
	t.Parallel()

	b, reader := manualBuilder(t)

	h := b.histogram(metricStatisticValue, "scaled statistic", "1", statisticBucketBoundaries...)
	require.NoError(t, b.err)

	h.Record(context.Background(), 0.03)

	m, ok := collect(t, reader)[metricStatisticValue]
	require.True(t, ok)
	assert.Equal(t, "1", m.Unit)

	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, statisticBucketBoundaries, hist.DataPoints[0].Bounds)
	// 0.03 falls in (0.025, 0.05].
	assert.Equal(t, uint64(1), hist.DataPoints[0].BucketCounts[2])
}

func TestMetricBuilder_CountersRecord(t *testing.T) {
	t.Parallel()

	b, reader := manualBuilder(t)

	colors := b.counter(metricColorsTotal, "colors", "{color}")
	inflight := b.upDownCounter(metricInflightRequests, "inflight", "{request}")
	require.NoError(t, b.err)

	ctx := context.Background()
	colors.Add(ctx, 4)
	inflight.Add(ctx, 2)
	inflight.Add(ctx, -1)

	got := collect(t, reader)

	sum, ok := got[metricColorsTotal].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.True(t, sum.IsMonotonic)
	assert.Equal(t, int64(4), sum.DataPoints[0].Value)

	updown, ok := got[metricInflightRequests].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.False(t, updown.IsMonotonic)
	assert.Equal(t, int64(1), updown.DataPoints[0].Value)
}

func TestMetricBuilder_KeepsFirstError(t *testing.T) {
	t.Parallel()

	b, _ := manualBuilder(t)

	b.counter("1st.invalid", "names must start with a letter", "{x}")
	require.Error(t, b.err)
	assert.Contains(t, b.err.Error(), "create 1st.invalid")

	first := b.err

	b.histogram("2nd.invalid", "also invalid", "1")
	b.counter(metricRunsTotal, "valid", "{run}")

	assert.Equal(t, first, b.err)
}

func TestMetricBuilder_NilErrorIsIgnored(t *testing.T) {
	t.Parallel()

	b, _ := manualBuilder(t)

	b.setErr(metricRunsTotal, nil)
	assert.NoError(t, b.err)
}
