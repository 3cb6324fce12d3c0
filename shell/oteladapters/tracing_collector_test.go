package oteladapters_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/lending-domain-go/shell"
	"github.com/AntonStoeckl/lending-domain-go/shell/oteladapters"
)

func Test_TracingCollector_CommandSpan(t *testing.T) {
	testCases := []struct {
		status       string
		err          error
		expectedCode codes.Code
	}{
		{shell.StatusSuccess, nil, codes.Ok},
		{shell.StatusIdempotent, nil, codes.Ok},
		{shell.StatusError, errors.New("thing is not ready to be borrowed"), codes.Error},
		{shell.StatusCanceled, context.Canceled, codes.Error},
		{shell.StatusTimeout, context.DeadlineExceeded, codes.Error},
		{shell.StatusConcurrencyConflict, shell.ErrConcurrencyConflict, codes.Error},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			// arrange
			collector, exporter := givenTracingCollector()

			// act
			ctx, span := shell.StartCommandSpan(context.Background(), collector, "RequestBorrow")
			shell.FinishCommandSpan(collector, span, tc.status, 2*time.Millisecond, tc.err)

			// assert
			assert.NotNil(t, ctx)
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, shell.SpanNameCommandHandle, spans[0].Name)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)
			attrs := spanAttributes(spans[0])
			assert.Equal(t, "RequestBorrow", attrs[shell.LogAttrCommandType])
			assert.Equal(t, tc.status, attrs[shell.LogAttrStatus])
			assert.Equal(t, "2.00", attrs[shell.LogAttrDurationMS])
			if tc.err != nil {
				assert.Equal(t, tc.err.Error(), attrs[shell.LogAttrError])
			}
		})
	}
}

func Test_TracingCollector_UnknownStatusBecomesAttribute(t *testing.T) {
	// arrange
	collector, exporter := givenTracingCollector()
	_, span := collector.StartSpan(context.Background(), "library.return", nil)
	span.AddAttribute("loan_id", "l-1")

	// act
	collector.FinishSpan(span, "partially_returned", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	attrs := spanAttributes(spans[0])
	assert.Equal(t, "partially_returned", attrs[shell.LogAttrStatus])
	assert.Equal(t, "l-1", attrs["loan_id"])
}

func Test_TracingCollector_ChildSpansShareTheTrace(t *testing.T) {
	// arrange
	collector, exporter := givenTracingCollector()

	// act
	ctx, parent := collector.StartSpan(context.Background(), "parent", nil)
	_, child := collector.StartSpan(ctx, "child", nil)
	collector.FinishSpan(child, shell.StatusSuccess, nil)
	collector.FinishSpan(parent, shell.StatusSuccess, nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

func givenTracingCollector() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(provider.Tracer("lending-test")), exporter
}

func spanAttributes(span tracetest.SpanStub) map[string]string {
	attrs := make(map[string]string)
	for _, kv := range span.Attributes {
		if kv.Value.Type() == attribute.STRING {
			attrs[string(kv.Key)] = kv.Value.AsString()
		}
	}

	return attrs
}
