// Package observable decorates command handlers with metrics, tracing and logging.
//
// A CommandWrapper delegates to a shell.CoreCommandHandler and turns its HandlerResult and
// error into observations:
//   - lending_command_duration_seconds and lending_command_calls_total for every call
//   - a dedicated counter for idempotent, canceled, timed out and conflicting calls
//   - retry counters derived from the result's retry metadata
//   - one lending.command span per call
//   - start, completion and failure log lines
//
// Usage:
//
//	handler, err := observable.NewCommandWrapper(
//		requestborrow.NewCommandHandler(store),
//		observable.WithCommandMetrics[requestborrow.Command](metrics),
//		observable.WithCommandTracing[requestborrow.Command](tracing),
//		observable.WithCommandContextualLogging[requestborrow.Command](logger),
//	)
package observable
