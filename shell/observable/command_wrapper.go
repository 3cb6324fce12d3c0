package observable

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/lending-domain-go/shell"
)

// ErrNilCoreHandler is returned by NewCommandWrapper without a handler to wrap.
var ErrNilCoreHandler = errors.New("core command handler must not be nil")

// CommandWrapper traces, logs and measures every command passing through a core handler.
// The handler's result and error are returned untouched.
type CommandWrapper[C shell.Command] struct {
	core        shell.CoreCommandHandler[C]
	commandType string

	metrics   shell.MetricsCollector
	tracing   shell.TracingCollector
	ctxLogger shell.ContextualLogger
	logger    shell.Logger
}

// CommandOption configures a CommandWrapper.
type CommandOption[C shell.Command] func(*CommandWrapper[C]) error

// NewCommandWrapper wraps core. Metrics and spans are labeled with the CommandType of the zero C.
func NewCommandWrapper[C shell.Command](core shell.CoreCommandHandler[C], opts ...CommandOption[C]) (*CommandWrapper[C], error) {
	if core == nil {
		return nil, ErrNilCoreHandler
	}

	var zero C
	w := &CommandWrapper[C]{core: core, commandType: zero.CommandType()}

	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// WithCommandMetrics sets the metrics collector.
func WithCommandMetrics[C shell.Command](collector shell.MetricsCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		if collector == nil {
			return shell.ErrNilMetricsCollector
		}
		w.metrics = collector

		return nil
	}
}

// WithCommandTracing sets the tracing collector.
func WithCommandTracing[C shell.Command](collector shell.TracingCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.tracing = collector
		return nil
	}
}

// WithCommandContextualLogging sets a logger that receives the span context. It wins over WithCommandLogging.
func WithCommandContextualLogging[C shell.Command](logger shell.ContextualLogger) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.ctxLogger = logger
		return nil
	}
}

// WithCommandLogging sets a plain logger.
func WithCommandLogging[C shell.Command](logger shell.Logger) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.logger = logger
		return nil
	}
}

// Handle runs the command through the core handler inside a command span.
func (w *CommandWrapper[C]) Handle(ctx context.Context, command C) (shell.HandlerResult, error) {
	start := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, w.tracing, w.commandType)
	shell.LogCommandStart(ctx, w.logger, w.ctxLogger, w.commandType)

	result, err := w.core.Handle(ctx, command)
	elapsed := time.Since(start)
	status := outcomeStatus(result, err)

	shell.RecordRetryMetrics(ctx, w.metrics, w.commandType, result)
	shell.RecordCommandMetrics(ctx, w.metrics, w.commandType, status, elapsed)
	shell.FinishCommandSpan(w.tracing, span, status, elapsed, err)

	if err != nil {
		shell.LogCommandError(ctx, w.logger, w.ctxLogger, w.commandType, err)
	} else {
		shell.LogCommandSuccess(ctx, w.logger, w.ctxLogger, w.commandType, status, elapsed)
	}

	return result, err
}

func outcomeStatus(result shell.HandlerResult, err error) string {
	switch {
	case err != nil:
		return shell.StatusFromError(err)
	case result.Idempotent:
		return shell.StatusIdempotent
	default:
		return shell.StatusSuccess
	}
}
