package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/freshline/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newManualMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestCounterGaugeHistogram(t *testing.T) {
	reader, provider := newManualMeter(t)
	meter := provider.Meter("test")
	ctx := context.Background()

	counter, err := telemetry.NewCounter(meter, "test_total", "count", "{things}")
	require.NoError(t, err)
	gauge, err := telemetry.NewGauge(meter, "test_gauge", "gauge", "{things}")
	require.NoError(t, err)
	hist, err := telemetry.NewHistogram(meter, "test_duration", "latency", "s", telemetry.LatencyBuckets...)
	require.NoError(t, err)

	counter.Inc(ctx, telemetry.AttrOrderType.String("store"))
	counter.Add(ctx, 4, telemetry.AttrOrderType.String("store"))
	gauge.Record(ctx, 7)
	gauge.Record(ctx, 3)
	hist.RecordDuration(ctx, 150*time.Millisecond)

	data := collect(t, reader)

	sum, ok := data["test_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(5), sum.DataPoints[0].Value)

	g, ok := data["test_gauge"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, g.DataPoints, 1)
	assert.Equal(t, int64(3), g.DataPoints[0].Value)

	h, ok := data["test_duration"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, h.DataPoints, 1)
	assert.Equal(t, uint64(1), h.DataPoints[0].Count)
	assert.InDelta(t, 0.15, h.DataPoints[0].Sum, 1e-9)
	assert.Equal(t, telemetry.LatencyBuckets, h.DataPoints[0].Bounds)
}

func TestBusinessMetrics_RecordsCents(t *testing.T) {
	reader, provider := newManualMeter(t)
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Meter: provider.Meter("test")})
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordInvoiceIssued(ctx, decimal.RequireFromString("12.345"))
	bm.RecordInvoiceIssued(ctx, decimal.RequireFromString("0.50"))

	data := collect(t, reader)

	issued := data["freshline_invoice_issued_total"].(metricdata.Sum[int64])
	assert.Equal(t, int64(2), issued.DataPoints[0].Value)
	amount := data["freshline_invoice_amount_total"].(metricdata.Sum[int64])
	assert.Equal(t, int64(1285), amount.DataPoints[0].Value)
}
