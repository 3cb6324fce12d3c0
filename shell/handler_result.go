package shell

import "time"

// HandlerResult is what a command handler reports next to its error: whether the command changed
// nothing, and how the retries around it went.
type HandlerResult struct {
	// Idempotent is set when the thing or loan already was in the requested state.
	Idempotent bool

	RetryAttempts    int
	TotalRetryDelay  time.Duration
	LastErrorType    string // one of the ErrorType* labels
	RetriesExhausted bool
}

// NewSuccessResult reports a command that changed state.
func NewSuccessResult(retries RetryMetrics) HandlerResult {
	return withRetries(HandlerResult{}, retries)
}

// NewIdempotentResult reports a command that had nothing to change.
func NewIdempotentResult(retries RetryMetrics) HandlerResult {
	return withRetries(HandlerResult{Idempotent: true}, retries)
}

// NewErrorResult keeps the retry figures of a failed command.
func NewErrorResult(retries RetryMetrics) HandlerResult {
	return withRetries(HandlerResult{}, retries)
}

func withRetries(result HandlerResult, retries RetryMetrics) HandlerResult {
	result.RetryAttempts = retries.Attempts
	result.TotalRetryDelay = retries.TotalDelay
	result.LastErrorType = retries.LastErrorType
	result.RetriesExhausted = retries.RetriesExhausted

	return result
}
