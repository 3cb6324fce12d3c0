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

	"github.com/AntonStoeckl/lending-domain-go/shell"
	"github.com/AntonStoeckl/lending-domain-go/shell/oteladapters"
)

func Test_MetricsCollector_RecordDuration_InSeconds(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	labels := shell.BuildCommandLabels("RequestBorrow", shell.StatusSuccess)

	// act
	collector.RecordDurationContext(context.Background(), shell.CommandHandlerDurationMetric, 150*time.Millisecond, labels)

	// assert
	histogram, ok := collectMetric(t, reader, shell.CommandHandlerDurationMetric).Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.15, histogram.DataPoints[0].Sum, 0.001)
	expected := attribute.NewSet(
		attribute.String(shell.LogAttrCommandType, "RequestBorrow"),
		attribute.String(shell.LogAttrStatus, shell.StatusSuccess),
	)
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expected))
}

func Test_MetricsCollector_IncrementCounter_ConcurrentCallsAreCounted(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	labels := shell.BuildCommandLabels("DecideBorrowRequest", shell.StatusIdempotent)
	var wg sync.WaitGroup

	// act
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter(shell.CommandHandlerCallsMetric, labels)
		}()
	}
	wg.Wait()

	// assert
	sum, ok := collectMetric(t, reader, shell.CommandHandlerCallsMetric).Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(20), sum.DataPoints[0].Value)
}

func Test_MetricsCollector_RecordValue_AsGauge(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()

	// act
	collector.RecordValue("lending_outstanding_fees", 12.5, map[string]string{"currency": "USD"})
	collector.RecordValueContext(context.Background(), "lending_outstanding_fees", 7.5, map[string]string{"currency": "USD"})

	// assert
	gauge, ok := collectMetric(t, reader, "lending_outstanding_fees").Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 7.5, gauge.DataPoints[0].Value, 0.0001)
}

func givenMetricsCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("lending-test")), reader
}

func collectMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	t.Fatalf("metric %s not collected", name)

	return metricdata.Metrics{}
}
