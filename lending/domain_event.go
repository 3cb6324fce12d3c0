package lending

import "time"

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent is a business fact produced by a decision.
type DomainEvent interface {
	// IsEventType returns the string identifier for this event type.
	IsEventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time

	// IsErrorEvent returns true if this event records a rejected operation.
	IsErrorEvent() bool
}

// ToOccurredAt normalizes t to UTC with microsecond precision.
func ToOccurredAt(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// DecisionResult is the outcome of a Decide function.
//
// Build it only with IdempotentDecision, SuccessDecision or ErrorDecision.
type DecisionResult struct {
	Outcome string
	Event   DomainEvent
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision signals that no state change is needed.
func IdempotentDecision() DecisionResult {
	return DecisionResult{Outcome: idempotentOutcome}
}

// SuccessDecision signals a state change described by event.
func SuccessDecision(event DomainEvent) DecisionResult {
	return DecisionResult{Outcome: successOutcome, Event: event}
}

// ErrorDecision signals a rejected operation, recorded by an error event.
func ErrorDecision(event DomainEvent, err error) DecisionResult {
	return DecisionResult{Outcome: errorOutcome, Event: event, Err: err}
}

// HasEventToAppend reports whether the decision produced an event.
func (r DecisionResult) HasEventToAppend() bool {
	return r.Outcome != idempotentOutcome
}

// HasError returns the business error of an error decision, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}

// IsIdempotent reports whether nothing needs to change.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}
