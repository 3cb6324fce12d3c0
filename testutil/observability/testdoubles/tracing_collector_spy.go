package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/lending-domain-go/shell"
)

// SpySpanContext is the span handed out by TracingCollectorSpy.
type SpySpanContext struct {
	mu         sync.Mutex
	status     string
	attributes map[string]string
}

func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attributes == nil {
		c.attributes = make(map[string]string)
	}
	c.attributes[key] = value
}

// SpySpanRecord is one started span and, once finished, its outcome.
type SpySpanRecord struct {
	Name            string
	StartAttributes map[string]string
	Finished        bool
	Status          string
	EndAttributes   map[string]string

	span *SpySpanContext
}

// TracingCollectorSpy captures spans. It implements shell.TracingCollector.
type TracingCollectorSpy struct {
	mu          sync.Mutex
	spans       []SpySpanRecord
	recordCalls bool
}

// NewTracingCollectorSpy creates a spy. With recordCalls false no spans are started.
func NewTracingCollectorSpy(recordCalls bool) *TracingCollectorSpy {
	return &TracingCollectorSpy{recordCalls: recordCalls}
}

func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, shell.SpanContext) {
	if !s.recordCalls {
		return ctx, nil
	}

	span := &SpySpanContext{}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.spans = append(s.spans, SpySpanRecord{Name: name, StartAttributes: maps.Clone(attrs), span: span})

	return ctx, span
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx shell.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpySpanContext)
	if !s.recordCalls || !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.spans {
		if s.spans[i].span == span {
			s.spans[i].Finished = true
			s.spans[i].Status = status
			s.spans[i].EndAttributes = maps.Clone(attrs)
			return
		}
	}
}

// GetSpanRecordCount returns how many spans were started.
func (s *TracingCollectorSpy) GetSpanRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.spans)
}

// GetSpanRecords returns a copy of all span records.
func (s *TracingCollectorSpy) GetSpanRecords() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpySpanRecord(nil), s.spans...)
}

// HasFinishedSpan reports whether a span with name finished with status.
func (s *TracingCollectorSpy) HasFinishedSpan(name, status string) bool {
	for _, r := range s.GetSpanRecords() {
		if r.Name == name && r.Finished && r.Status == status {
			return true
		}
	}

	return false
}

var _ shell.TracingCollector = (*TracingCollectorSpy)(nil)
