package shell

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// Metric names. Every metric carries the command_type label, outcome metrics add status.
const (
	CommandHandlerDurationMetric            = "lending_command_duration_seconds"
	CommandHandlerCallsMetric               = "lending_command_calls_total"
	CommandHandlerIdempotentMetric          = "lending_command_idempotent_total"
	CommandHandlerCanceledMetric            = "lending_command_canceled_total"
	CommandHandlerTimeoutMetric             = "lending_command_timeout_total"
	CommandHandlerConcurrencyConflictMetric = "lending_command_conflicts_total"

	// Labeled with attempt_number and error_type.
	CommandHandlerRetriesMetric = "lending_command_retries_total"
	// Labeled with attempt_number when recorded per wait, otherwise the sum of all waits.
	CommandHandlerRetryDelayMetric = "lending_command_retry_delay_seconds"
	// Labeled with final_error_type when recorded by the retry loop.
	CommandHandlerMaxRetriesReachedMetric = "lending_command_retries_exhausted_total"
)

// Outcome statuses of a handled command.
const (
	StatusSuccess             = "success"
	StatusIdempotent          = "idempotent"
	StatusError               = "error"
	StatusCanceled            = "canceled"
	StatusTimeout             = "timeout"
	StatusConcurrencyConflict = "concurrency_conflict"
)

// Log messages and attribute keys. Span attributes reuse the keys.
const (
	LogMsgCommandStarted   = "lending command started"
	LogMsgCommandCompleted = "lending command handled"
	LogMsgCommandFailed    = "lending command failed"

	LogAttrCommandType     = "command_type"
	LogAttrStatus          = "status"
	LogAttrDurationMS      = "duration_ms"
	LogAttrBusinessOutcome = "business_outcome"
	LogAttrError           = "error"
	LogAttrEventCount      = "event_count"

	SpanNameCommandHandle = "lending.command"
)

// Logger matches the plain methods of *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger matches the context methods of *slog.Logger, so records can carry the active span.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector receives durations, counter increments and gauge values by metric name.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector is used instead of the plain methods whenever a collector offers it.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// SpanContext is a started span.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector opens and closes spans.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

var statusCounters = map[string]string{
	StatusIdempotent:          CommandHandlerIdempotentMetric,
	StatusCanceled:            CommandHandlerCanceledMetric,
	StatusTimeout:             CommandHandlerTimeoutMetric,
	StatusConcurrencyConflict: CommandHandlerConcurrencyConflictMetric,
}

// BuildCommandLabels labels an outcome metric.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{LogAttrCommandType: commandType, LogAttrStatus: status}
}

// BuildRetryLabels labels a retry counter.
func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	labels := map[string]string{LogAttrCommandType: commandType}
	labels["attempt_number"] = strconv.Itoa(attemptNumber)
	labels["error_type"] = errorType

	return labels
}

// ToMilliseconds is d in fractional milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// StatusFromError derives the outcome status of a failed command.
func StatusFromError(err error) string {
	switch {
	case IsCancellationError(err):
		return StatusCanceled
	case IsTimeoutError(err):
		return StatusTimeout
	case IsConcurrencyConflictError(err):
		return StatusConcurrencyConflict
	}

	return StatusError
}

// RecordCommandMetrics records the duration and the call of a command under its status.
// Idempotent, canceled, timed out and conflicting calls also bump their own counter.
func RecordCommandMetrics(ctx context.Context, collector MetricsCollector, commandType, status string, duration time.Duration) {
	if collector == nil {
		return
	}

	recordDuration(ctx, collector, CommandHandlerDurationMetric, duration, BuildCommandLabels(commandType, status))
	incrementCounter(ctx, collector, CommandHandlerCallsMetric, BuildCommandLabels(commandType, status))

	if metric, ok := statusCounters[status]; ok {
		incrementCounter(ctx, collector, metric, BuildCommandLabels(commandType, status))
	}
}

// RecordRetryMetrics reports the retries a handler went through, as summed up in its result.
func RecordRetryMetrics(ctx context.Context, collector MetricsCollector, commandType string, result HandlerResult) {
	if collector == nil {
		return
	}

	byCommand := map[string]string{LogAttrCommandType: commandType}

	if result.RetryAttempts > 1 {
		incrementCounter(ctx, collector, CommandHandlerRetriesMetric,
			BuildRetryLabels(commandType, result.RetryAttempts-1, result.LastErrorType))
		recordDuration(ctx, collector, CommandHandlerRetryDelayMetric, result.TotalRetryDelay, byCommand)
	}

	if result.RetriesExhausted {
		incrementCounter(ctx, collector, CommandHandlerMaxRetriesReachedMetric, byCommand)
	}
}

func recordDuration(ctx context.Context, collector MetricsCollector, metric string, d time.Duration, labels map[string]string) {
	if cc, ok := collector.(ContextualMetricsCollector); ok {
		cc.RecordDurationContext(ctx, metric, d, labels)
		return
	}

	collector.RecordDuration(metric, d, labels)
}

func incrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	if cc, ok := collector.(ContextualMetricsCollector); ok {
		cc.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

// StartCommandSpan opens the command span. Without a collector the span is nil.
func StartCommandSpan(ctx context.Context, tracing TracingCollector, commandType string) (context.Context, SpanContext) {
	if tracing == nil {
		return ctx, nil
	}

	return tracing.StartSpan(ctx, SpanNameCommandHandle, map[string]string{LogAttrCommandType: commandType})
}

// FinishCommandSpan closes span with the outcome status, the duration and the error message if any.
func FinishCommandSpan(tracing TracingCollector, span SpanContext, status string, duration time.Duration, err error) {
	if tracing == nil || span == nil {
		return
	}

	attrs := map[string]string{LogAttrStatus: status, LogAttrDurationMS: formatDurationMS(duration)}
	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracing.FinishSpan(span, status, attrs)
}

// LogCommandStart logs that a command arrived.
func LogCommandStart(ctx context.Context, logger Logger, ctxLogger ContextualLogger, commandType string) {
	logLine(ctx, logger, ctxLogger, false, LogMsgCommandStarted, LogAttrCommandType, commandType)
}

// LogCommandSuccess logs a handled command with its business outcome.
func LogCommandSuccess(
	ctx context.Context, logger Logger, ctxLogger ContextualLogger,
	commandType, businessOutcome string, duration time.Duration,
) {
	logLine(ctx, logger, ctxLogger, false, LogMsgCommandCompleted,
		LogAttrCommandType, commandType, LogAttrBusinessOutcome, businessOutcome, LogAttrDurationMS, ToMilliseconds(duration))
}

// LogCommandError logs a rejected or failed command.
func LogCommandError(ctx context.Context, logger Logger, ctxLogger ContextualLogger, commandType string, err error) {
	logLine(ctx, logger, ctxLogger, true, LogMsgCommandFailed, LogAttrCommandType, commandType, LogAttrError, err.Error())
}

// logLine prefers ctxLogger and logs at error level when failed is set, info otherwise.
func logLine(ctx context.Context, logger Logger, ctxLogger ContextualLogger, failed bool, msg string, args ...any) {
	switch {
	case ctxLogger != nil && failed:
		ctxLogger.ErrorContext(ctx, msg, args...)
	case ctxLogger != nil:
		ctxLogger.InfoContext(ctx, msg, args...)
	case logger != nil && failed:
		logger.Error(msg, args...)
	case logger != nil:
		logger.Info(msg, args...)
	}
}

func formatDurationMS(d time.Duration) string {
	return strconv.FormatFloat(ToMilliseconds(d), 'f', 2, 64)
}

// IsCancellationError reports whether err stems from a canceled context.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError reports whether err stems from an expired deadline.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsConcurrencyConflictError reports whether err stems from a stale document version.
func IsConcurrencyConflictError(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}
