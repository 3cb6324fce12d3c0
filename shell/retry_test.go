package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterSpy struct {
	counters  map[string]int
	durations map[string]int
}

func newCounterSpy() *counterSpy {
	return &counterSpy{counters: map[string]int{}, durations: map[string]int{}}
}

func (s *counterSpy) RecordDuration(metric string, _ time.Duration, _ map[string]string) {
	s.durations[metric]++
}

func (s *counterSpy) IncrementCounter(metric string, _ map[string]string) {
	s.counters[metric]++
}

func (s *counterSpy) RecordValue(string, float64, map[string]string) {}

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	// act
	meta, err := RetryWithExponentialBackoff(context.Background(), fn)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, "none", meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_Success_AfterConcurrencyConflicts(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return ErrConcurrencyConflict
		}
		return nil
	}

	// act
	meta, err := RetryWithExponentialBackoff(context.Background(), fn, WithBaseDelay(time.Millisecond))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_Error_FailsFastOnBusinessError(t *testing.T) {
	// arrange
	businessErr := errors.New("thing is not ready")
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return businessErr
	}

	// act
	meta, err := RetryWithExponentialBackoff(context.Background(), fn)

	// assert
	assert.ErrorIs(t, err, businessErr)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "other", meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_Error_WhenRetriesExhausted(t *testing.T) {
	// arrange
	spy := newCounterSpy()
	fn := func(_ context.Context) error { return ErrConcurrencyConflict }

	// act
	meta, err := RetryWithExponentialBackoff(
		context.Background(),
		fn,
		WithMaxAttempts(3),
		WithBaseDelay(time.Millisecond),
		WithJitterFactor(0),
		WithMetrics(spy, "RequestBorrow"),
	)

	// assert
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.Equal(t, 3, meta.Attempts)
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, "concurrency_conflict", meta.LastErrorType)
	assert.Equal(t, 3*time.Millisecond, meta.TotalDelay)
	assert.Equal(t, 2, spy.counters[CommandHandlerRetriesMetric])
	assert.Equal(t, 2, spy.durations[CommandHandlerRetryDelayMetric])
	assert.Equal(t, 1, spy.counters[CommandHandlerMaxRetriesReachedMetric])
}

func Test_RetryWithExponentialBackoff_Error_WhenContextCanceledDuringBackoff(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	fn := func(_ context.Context) error {
		cancel()
		return ErrConcurrencyConflict
	}

	// act
	meta, err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Second))

	// assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, "context_canceled", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	fn := func(_ context.Context) error { return nil }

	testCases := []struct {
		name        string
		option      RetryOption
		expectedErr error
	}{
		{"zero max attempts", WithMaxAttempts(0), ErrInvalidMaxAttempts},
		{"negative base delay", WithBaseDelay(-time.Second), ErrNegativeBaseDelay},
		{"jitter above one", WithJitterFactor(1.5), ErrInvalidJitterFactor},
		{"nil metrics collector", WithMetrics(nil, "RequestBorrow"), ErrNilMetricsCollector},
		{"empty command type", WithMetrics(newCounterSpy(), ""), ErrEmptyCommandType},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RetryWithExponentialBackoff(context.Background(), fn, tc.option)

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
