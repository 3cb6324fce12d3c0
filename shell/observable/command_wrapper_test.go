package observable_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-domain-go/lending"
	"github.com/AntonStoeckl/lending-domain-go/shell"
	"github.com/AntonStoeckl/lending-domain-go/shell/observable"
	"github.com/AntonStoeckl/lending-domain-go/testutil/observability/testdoubles"
)

func Test_NewCommandWrapper_Error(t *testing.T) {
	_, err := observable.NewCommandWrapper[stubCommand](nil)
	assert.ErrorIs(t, err, observable.ErrNilCoreHandler)

	_, err = observable.NewCommandWrapper[stubCommand](newStubHandler(shell.HandlerResult{}, nil), observable.WithCommandMetrics[stubCommand](nil))
	assert.ErrorIs(t, err, shell.ErrNilMetricsCollector)
}

func Test_CommandWrapper_Handle_Success(t *testing.T) {
	// arrange
	expected := shell.HandlerResult{RetryAttempts: 1, LastErrorType: "none"}
	handler := newStubHandler(expected, nil)
	w := givenInstrumentedWrapper(t, handler)

	// act
	result, err := w.wrapper.Handle(context.Background(), stubCommand{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, expected, result)
	assert.Equal(t, 1, handler.calls)
	assert.True(t, w.metrics.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).
		WithCommandType("StubCommand").
		WithStatus(shell.StatusSuccess).
		Assert())
	assert.True(t, w.metrics.HasDurationRecordForMetric(shell.CommandHandlerDurationMetric).
		WithStatus(shell.StatusSuccess).
		Assert())
	assert.Zero(t, w.metrics.CountRecordsForMetric(testdoubles.MetricKindCounter, shell.CommandHandlerRetriesMetric))
	assert.True(t, w.tracing.HasFinishedSpan(shell.SpanNameCommandHandle, shell.StatusSuccess))
	assert.True(t, w.logger.HasInfoLog(shell.LogMsgCommandStarted))
	completed, ok := w.logger.FindLog("info", shell.LogMsgCommandCompleted)
	require.True(t, ok)
	outcome, _ := completed.Attr(shell.LogAttrBusinessOutcome)
	assert.Equal(t, shell.StatusSuccess, outcome)
}

func Test_CommandWrapper_Handle_Success_WhenIdempotent(t *testing.T) {
	// arrange
	w := givenInstrumentedWrapper(t, newStubHandler(shell.HandlerResult{Idempotent: true, RetryAttempts: 1}, nil))

	// act
	_, err := w.wrapper.Handle(context.Background(), stubCommand{})

	// assert
	require.NoError(t, err)
	assert.True(t, w.metrics.HasCounterRecordForMetric(shell.CommandHandlerIdempotentMetric).
		WithCommandType("StubCommand").
		Assert())
	assert.True(t, w.tracing.HasFinishedSpan(shell.SpanNameCommandHandle, shell.StatusIdempotent))
}

func Test_CommandWrapper_Handle_Error_ClassifiesStatus(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus string
		expectedMetric string
	}{
		{"canceled", context.Canceled, shell.StatusCanceled, shell.CommandHandlerCanceledMetric},
		{"timeout", fmt.Errorf("load thing: %w", context.DeadlineExceeded), shell.StatusTimeout, shell.CommandHandlerTimeoutMetric},
		{"concurrency conflict", shell.ErrConcurrencyConflict, shell.StatusConcurrencyConflict, shell.CommandHandlerConcurrencyConflictMetric},
		{"business error", lending.ErrThingNotReadyToBorrow, shell.StatusError, shell.CommandHandlerCallsMetric},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			w := givenInstrumentedWrapper(t, newStubHandler(shell.HandlerResult{RetryAttempts: 1}, tc.err))

			// act
			_, err := w.wrapper.Handle(context.Background(), stubCommand{})

			// assert
			assert.ErrorIs(t, err, tc.err)
			assert.True(t, w.metrics.HasCounterRecordForMetric(tc.expectedMetric).WithStatus(tc.expectedStatus).Assert())
			assert.True(t, w.tracing.HasFinishedSpan(shell.SpanNameCommandHandle, tc.expectedStatus))
			assert.True(t, w.logger.HasErrorLog(shell.LogMsgCommandFailed))
		})
	}
}

func Test_CommandWrapper_Handle_RecordsRetryMetadata(t *testing.T) {
	// arrange
	result := shell.HandlerResult{
		RetryAttempts:    6,
		TotalRetryDelay:  310 * time.Millisecond,
		LastErrorType:    "concurrency_conflict",
		RetriesExhausted: true,
	}
	w := givenInstrumentedWrapper(t, newStubHandler(result, shell.ErrConcurrencyConflict))

	// act
	_, _ = w.wrapper.Handle(context.Background(), stubCommand{})

	// assert
	assert.True(t, w.metrics.HasCounterRecordForMetric(shell.CommandHandlerRetriesMetric).
		WithLabel("attempt_number", "5").
		WithLabel("error_type", "concurrency_conflict").
		Assert())
	assert.True(t, w.metrics.HasDurationRecordForMetric(shell.CommandHandlerRetryDelayMetric).
		WithCommandType("StubCommand").
		Assert())
	assert.Equal(t, 1, w.metrics.CountRecordsForMetric(testdoubles.MetricKindCounter, shell.CommandHandlerMaxRetriesReachedMetric))
}

func Test_CommandWrapper_Handle_FallsBackToPlainLogger(t *testing.T) {
	// arrange
	logger := testdoubles.NewLoggerSpy(true)
	wrapper, err := observable.NewCommandWrapper[stubCommand](
		newStubHandler(shell.HandlerResult{}, nil),
		observable.WithCommandLogging[stubCommand](logger),
	)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), stubCommand{})

	// assert
	require.NoError(t, err)
	assert.True(t, logger.HasInfoLog(shell.LogMsgCommandStarted))
	assert.True(t, logger.HasInfoLog(shell.LogMsgCommandCompleted))
}

type instrumentedWrapper struct {
	wrapper *observable.CommandWrapper[stubCommand]
	metrics *testdoubles.MetricsCollectorSpy
	tracing *testdoubles.TracingCollectorSpy
	logger  *testdoubles.ContextualLoggerSpy
}

func givenInstrumentedWrapper(t *testing.T, handler *stubHandler) instrumentedWrapper {
	t.Helper()

	w := instrumentedWrapper{
		metrics: testdoubles.NewMetricsCollectorSpy(true),
		tracing: testdoubles.NewTracingCollectorSpy(true),
		logger:  testdoubles.NewContextualLoggerSpy(true),
	}

	wrapper, err := observable.NewCommandWrapper[stubCommand](
		handler,
		observable.WithCommandMetrics[stubCommand](w.metrics),
		observable.WithCommandTracing[stubCommand](w.tracing),
		observable.WithCommandContextualLogging[stubCommand](w.logger),
	)
	require.NoError(t, err)
	w.wrapper = wrapper

	return w
}

type stubCommand struct{}

func (stubCommand) CommandType() string { return "StubCommand" }

type stubHandler struct {
	result shell.HandlerResult
	err    error
	calls  int
}

func newStubHandler(result shell.HandlerResult, err error) *stubHandler {
	return &stubHandler{result: result, err: err}
}

func (h *stubHandler) Handle(_ context.Context, _ stubCommand) (shell.HandlerResult, error) {
	h.calls++
	return h.result, h.err
}
