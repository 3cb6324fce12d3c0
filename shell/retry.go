package shell

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"time"
)

// Retry defaults: six attempts waiting 10, 20, 40, 80 and 160 ms plus up to 30% jitter.
const (
	DefaultRetryAttempts     = 6
	DefaultRetryBaseDelay    = 10 * time.Millisecond
	DefaultRetryJitterFactor = 0.3
)

// Error type labels reported in RetryMetrics.LastErrorType and on retry metrics.
const (
	ErrorTypeNone                    = "none"
	ErrorTypeConcurrencyConflict     = "concurrency_conflict"
	ErrorTypeContextCanceled         = "context_canceled"
	ErrorTypeContextDeadlineExceeded = "context_deadline_exceeded"
	ErrorTypeOther                   = "other"
)

var (
	// ErrNilMetricsCollector is returned by WithMetrics and the observable wrapper for a nil collector.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")

	// ErrEmptyCommandType is returned by WithMetrics without a command type to label metrics with.
	ErrEmptyCommandType = errors.New("command type must not be empty")

	// ErrInvalidMaxAttempts is returned by WithMaxAttempts for fewer than one attempt.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned by WithBaseDelay for a negative delay.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned by WithJitterFactor outside [0, 1].
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc is one attempt of a retried operation.
type RetryableFunc func(ctx context.Context) error

// RetryMetrics describes how a retried operation went.
type RetryMetrics struct {
	// Attempts is the number of times the function ran.
	Attempts int

	// TotalDelay is the time spent waiting between attempts.
	TotalDelay time.Duration

	// LastErrorType classifies the final error, ErrorTypeNone on success.
	LastErrorType string

	// RetriesExhausted is true when every attempt failed with a retryable error.
	RetriesExhausted bool
}

// RetryOption configures RetryWithExponentialBackoff.
type RetryOption func(*retryPolicy) error

type retryPolicy struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
	metrics      retryMetricsRecorder
}

// WithMaxAttempts caps the number of attempts, the first one included.
func WithMaxAttempts(attempts int) RetryOption {
	return func(p *retryPolicy) error {
		if attempts < 1 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the wait before the first retry. Each further retry waits twice as long.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(p *retryPolicy) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}
		p.baseDelay = delay

		return nil
	}
}

// WithJitterFactor adds up to factor times each wait at random. 0 disables jitter.
func WithJitterFactor(factor float64) RetryOption {
	return func(p *retryPolicy) error {
		if factor < 0 || factor > 1 {
			return ErrInvalidJitterFactor
		}
		p.jitterFactor = factor

		return nil
	}
}

// WithMetrics records retries, waits and exhaustion under commandType.
func WithMetrics(collector MetricsCollector, commandType string) RetryOption {
	return func(p *retryPolicy) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		if commandType == "" {
			return ErrEmptyCommandType
		}
		p.metrics = retryMetricsRecorder{collector: collector, commandType: commandType}

		return nil
	}
}

// RetryWithExponentialBackoff runs fn until it succeeds, fails with an error other than
// ErrConcurrencyConflict, or runs out of attempts. Canceling ctx while waiting stops the retries
// and returns ctx.Err().
func RetryWithExponentialBackoff(ctx context.Context, fn RetryableFunc, options ...RetryOption) (RetryMetrics, error) {
	policy := retryPolicy{
		maxAttempts:  DefaultRetryAttempts,
		baseDelay:    DefaultRetryBaseDelay,
		jitterFactor: DefaultRetryJitterFactor,
	}

	for _, option := range options {
		if err := option(&policy); err != nil {
			return RetryMetrics{}, err
		}
	}

	var result RetryMetrics
	var err error

	for attempt := range policy.maxAttempts {
		if attempt > 0 {
			wait := policy.waitBefore(attempt)
			policy.metrics.waited(ctx, attempt, wait)

			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
				result.TotalDelay += wait
			case <-ctx.Done():
				timer.Stop()
				result.LastErrorType = ErrorTypeOf(ctx.Err())

				return result, ctx.Err()
			}
		}

		result.Attempts++
		err = fn(ctx)
		result.LastErrorType = ErrorTypeOf(err)

		if err == nil || !errors.Is(err, ErrConcurrencyConflict) {
			return result, err
		}

		if attempt < policy.maxAttempts-1 {
			policy.metrics.retrying(ctx, attempt+1, err)
		}
	}

	result.RetriesExhausted = true
	policy.metrics.exhausted(ctx, err)

	return result, err
}

// waitBefore is baseDelay * 2^(attempt-1) plus jitter.
func (p retryPolicy) waitBefore(attempt int) time.Duration {
	wait := p.baseDelay << (attempt - 1)
	if p.jitterFactor > 0 {
		wait += time.Duration(rand.Float64() * p.jitterFactor * float64(wait)) //nolint:gosec // jitter needs no crypto randomness
	}

	return wait
}

// ErrorTypeOf classifies err for retry metrics.
func ErrorTypeOf(err error) string {
	switch {
	case err == nil:
		return ErrorTypeNone
	case errors.Is(err, ErrConcurrencyConflict):
		return ErrorTypeConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return ErrorTypeContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeContextDeadlineExceeded
	default:
		return ErrorTypeOther
	}
}

// retryMetricsRecorder is a no-op without a collector.
type retryMetricsRecorder struct {
	collector   MetricsCollector
	commandType string
}

func (r retryMetricsRecorder) waited(ctx context.Context, attempt int, wait time.Duration) {
	r.duration(ctx, CommandHandlerRetryDelayMetric, wait, map[string]string{
		LogAttrCommandType: r.commandType,
		"attempt_number":   strconv.Itoa(attempt),
	})
}

func (r retryMetricsRecorder) retrying(ctx context.Context, attempt int, err error) {
	r.count(ctx, CommandHandlerRetriesMetric, BuildRetryLabels(r.commandType, attempt, ErrorTypeOf(err)))
}

func (r retryMetricsRecorder) exhausted(ctx context.Context, err error) {
	r.count(ctx, CommandHandlerMaxRetriesReachedMetric, map[string]string{
		LogAttrCommandType: r.commandType,
		"final_error_type": ErrorTypeOf(err),
	})
}

func (r retryMetricsRecorder) duration(ctx context.Context, metric string, d time.Duration, labels map[string]string) {
	if r.collector != nil {
		recordDuration(ctx, r.collector, metric, d, labels)
	}
}

func (r retryMetricsRecorder) count(ctx context.Context, metric string, labels map[string]string) {
	if r.collector != nil {
		incrementCounter(ctx, r.collector, metric, labels)
	}
}
