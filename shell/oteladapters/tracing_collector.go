package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/lending-domain-go/shell"
)

// TracingCollector starts shell spans on an OpenTelemetry tracer.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector uses tracer, typically from a TracerProvider, for every span.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, shell.SpanContext) {
	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attrs)...))

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan sets attrs and the status on the span and ends it. Foreign span contexts are ignored.
func (t *TracingCollector) FinishSpan(spanCtx shell.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(toAttributes(attrs)...)
	otelSpanCtx.SetStatus(status)
	otelSpanCtx.span.End()
}

// OTelSpanContext wraps a trace.Span as a shell.SpanContext.
type OTelSpanContext struct {
	span trace.Span
}

// SetStatus maps shell statuses to span status codes.
// Success and idempotent outcomes are Ok, failures are Error, anything else becomes a status attribute.
func (s *OTelSpanContext) SetStatus(status string) {
	switch status {
	case shell.StatusSuccess, shell.StatusIdempotent:
		s.span.SetStatus(codes.Ok, "")
	case shell.StatusError:
		s.span.SetStatus(codes.Error, "command failed")
	case shell.StatusCanceled:
		s.span.SetStatus(codes.Error, "command canceled")
	case shell.StatusTimeout:
		s.span.SetStatus(codes.Error, "command timed out")
	case shell.StatusConcurrencyConflict:
		s.span.SetStatus(codes.Error, "concurrency conflict")
	default:
		s.span.SetAttributes(attribute.String(shell.LogAttrStatus, status))
	}
}

func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

var (
	_ shell.TracingCollector = (*TracingCollector)(nil)
	_ shell.SpanContext      = (*OTelSpanContext)(nil)
)
