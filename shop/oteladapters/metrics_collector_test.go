package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/checkout-engine-go/shop/oteladapters"
)

func givenCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics), "Failed to collect metrics")

	return resourceMetrics
}

func findMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	t.Fatalf("metric %s not found", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	collector, reader := givenCollector()

	collector.RecordDuration("shop_stock_reserve_duration_seconds", 150*time.Millisecond, map[string]string{
		"operation": "reserve",
		"status":    "success",
	})

	histogram, ok := findMetric(t, collect(t, reader), "shop_stock_reserve_duration_seconds").Data.(metricdata.Histogram[float64])
	require.True(t, ok, "metric should be a float64 histogram")
	require.Len(t, histogram.DataPoints, 1)

	dataPoint := histogram.DataPoints[0]
	assert.Equal(t, uint64(1), dataPoint.Count)
	assert.InDelta(t, 0.15, dataPoint.Sum, 0.001, "durations are recorded in seconds")

	expectedAttrs := attribute.NewSet(
		attribute.String("operation", "reserve"),
		attribute.String("status", "success"),
	)
	assert.True(t, dataPoint.Attributes.Equals(&expectedAttrs))
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	collector, reader := givenCollector()
	labels := map[string]string{"operation": "checkout", "status": "error", "error_type": "insufficient_stock"}

	collector.IncrementCounter("shop_stock_reserve_total", labels)
	collector.IncrementCounterContext(context.Background(), "shop_stock_reserve_total", labels)

	sum, ok := findMetric(t, collect(t, reader), "shop_stock_reserve_total").Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric should be an int64 sum")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	collector, reader := givenCollector()

	collector.RecordValue("shop_retry_attempts", 3, map[string]string{"operation": "checkout"})
	collector.RecordValueContext(context.Background(), "shop_retry_attempts", 1, map[string]string{"operation": "checkout"})

	gauge, ok := findMetric(t, collect(t, reader), "shop_retry_attempts").Data.(metricdata.Gauge[float64])
	require.True(t, ok, "metric should be a float64 gauge")
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, 1.0, gauge.DataPoints[0].Value, "gauges keep the last value")
}

func Test_MetricsCollector_NilLabels(t *testing.T) {
	collector, reader := givenCollector()

	collector.RecordDuration("shop_unit_of_work_duration_seconds", 5*time.Millisecond, nil)

	findMetric(t, collect(t, reader), "shop_unit_of_work_duration_seconds")
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	collector, reader := givenCollector()
	var wg sync.WaitGroup

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("shop_checkout_total", map[string]string{"status": "success"})
		}()
	}
	wg.Wait()

	sum, ok := findMetric(t, collect(t, reader), "shop_checkout_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(50), sum.DataPoints[0].Value)
}
