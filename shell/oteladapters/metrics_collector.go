package oteladapters

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/AntonStoeckl/lending-domain-go/shell"
)

// MetricsCollector records shell metrics as OpenTelemetry instruments, created on first use.
// Durations go into histograms in seconds. It is safe for concurrent use.
type MetricsCollector struct {
	histograms *instruments[metric.Float64Histogram]
	counters   *instruments[metric.Int64Counter]
	gauges     *instruments[metric.Float64Gauge]
}

// NewMetricsCollector creates every instrument from meter.
func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		histograms: newInstruments(func(name string) (metric.Float64Histogram, error) {
			return meter.Float64Histogram(name, metric.WithDescription("Lending operation duration"), metric.WithUnit("s"))
		}),
		counters: newInstruments(func(name string) (metric.Int64Counter, error) {
			return meter.Int64Counter(name, metric.WithDescription("Lending operation counter"))
		}),
		gauges: newInstruments(func(name string) (metric.Float64Gauge, error) {
			return meter.Float64Gauge(name, metric.WithDescription("Lending current value"))
		}),
	}
}

func (m *MetricsCollector) RecordDuration(name string, duration time.Duration, labels map[string]string) {
	m.RecordDurationContext(context.Background(), name, duration, labels)
}

func (m *MetricsCollector) RecordDurationContext(ctx context.Context, name string, duration time.Duration, labels map[string]string) {
	if h, ok := m.histograms.get(name); ok {
		h.Record(ctx, duration.Seconds(), withLabels(labels))
	}
}

func (m *MetricsCollector) IncrementCounter(name string, labels map[string]string) {
	m.IncrementCounterContext(context.Background(), name, labels)
}

func (m *MetricsCollector) IncrementCounterContext(ctx context.Context, name string, labels map[string]string) {
	if c, ok := m.counters.get(name); ok {
		c.Add(ctx, 1, withLabels(labels))
	}
}

func (m *MetricsCollector) RecordValue(name string, value float64, labels map[string]string) {
	m.RecordValueContext(context.Background(), name, value, labels)
}

func (m *MetricsCollector) RecordValueContext(ctx context.Context, name string, value float64, labels map[string]string) {
	if g, ok := m.gauges.get(name); ok {
		g.Record(ctx, value, withLabels(labels))
	}
}

// instruments caches one kind of instrument by name. A name whose creation failed is retried on next use.
type instruments[T any] struct {
	mu     sync.Mutex
	byName map[string]T
	create func(name string) (T, error)
}

func newInstruments[T any](create func(name string) (T, error)) *instruments[T] {
	return &instruments[T]{byName: map[string]T{}, create: create}
}

func (i *instruments[T]) get(name string) (T, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if instrument, ok := i.byName[name]; ok {
		return instrument, true
	}

	instrument, err := i.create(name)
	if err != nil {
		var zero T
		return zero, false
	}
	i.byName[name] = instrument

	return instrument, true
}

func withLabels(labels map[string]string) metric.MeasurementOption {
	return metric.WithAttributes(toAttributes(labels)...)
}

func toAttributes(labels map[string]string) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(labels))
	for k, v := range labels {
		kvs = append(kvs, attribute.String(k, v))
	}

	return kvs
}

var _ shell.ContextualMetricsCollector = (*MetricsCollector)(nil)
