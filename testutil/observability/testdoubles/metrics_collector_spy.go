package testdoubles

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/AntonStoeckl/lending-domain-go/shell"
)

// MetricKind tells which MetricsCollector method produced a record.
type MetricKind string

const (
	MetricKindDuration MetricKind = "duration"
	MetricKindCounter  MetricKind = "counter"
	MetricKindValue    MetricKind = "value"
)

// SpyMetricRecord is one recorded metrics call.
type SpyMetricRecord struct {
	Kind     MetricKind
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
	// Contextual is true when the call went through a *Context method.
	Contextual bool
}

// MetricsCollectorSpy captures metrics calls. It implements shell.ContextualMetricsCollector.
type MetricsCollectorSpy struct {
	mu          sync.Mutex
	records     []SpyMetricRecord
	recordCalls bool
}

// NewMetricsCollectorSpy creates a spy. With recordCalls false every call is dropped.
func NewMetricsCollectorSpy(recordCalls bool) *MetricsCollectorSpy {
	return &MetricsCollectorSpy{recordCalls: recordCalls}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindDuration, Metric: metric, Duration: duration, Labels: labels})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindCounter, Metric: metric, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindValue, Metric: metric, Value: value, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindDuration, Metric: metric, Duration: duration, Labels: labels, Contextual: true})
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindCounter, Metric: metric, Labels: labels, Contextual: true})
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindValue, Metric: metric, Value: value, Labels: labels, Contextual: true})
}

func (s *MetricsCollectorSpy) record(r SpyMetricRecord) {
	if !s.recordCalls {
		return
	}

	r.Labels = maps.Clone(r.Labels)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, r)
}

// Records returns a copy of everything recorded so far.
func (s *MetricsCollectorSpy) Records() []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyMetricRecord(nil), s.records...)
}

// Reset forgets all records.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}

// CountRecordsForMetric counts records of kind for metric.
func (s *MetricsCollectorSpy) CountRecordsForMetric(kind MetricKind, metric string) int {
	return len(s.matching(kind, metric))
}

// HasDurationRecordForMetric starts a fluent check for a duration record.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{candidates: s.matching(MetricKindDuration, metric)}
}

// HasCounterRecordForMetric starts a fluent check for a counter record.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{candidates: s.matching(MetricKindCounter, metric)}
}

func (s *MetricsCollectorSpy) matching(kind MetricKind, metric string) []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []SpyMetricRecord
	for _, r := range s.records {
		if r.Kind == kind && r.Metric == metric {
			found = append(found, r)
		}
	}

	return found
}

// MetricRecordMatcher narrows the records of one metric by label.
// Assert is true if at least one record satisfies every filter.
type MetricRecordMatcher struct {
	candidates []SpyMetricRecord
}

// WithLabel keeps records whose label key equals value.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	kept := m.candidates[:0:0]
	for _, r := range m.candidates {
		if r.Labels[key] == value {
			kept = append(kept, r)
		}
	}
	m.candidates = kept

	return m
}

// WithStatus keeps records with the given status label.
func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel(shell.LogAttrStatus, status)
}

// WithCommandType keeps records with the given command_type label.
func (m *MetricRecordMatcher) WithCommandType(commandType string) *MetricRecordMatcher {
	return m.WithLabel(shell.LogAttrCommandType, commandType)
}

func (m *MetricRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

var _ shell.ContextualMetricsCollector = (*MetricsCollectorSpy)(nil)
