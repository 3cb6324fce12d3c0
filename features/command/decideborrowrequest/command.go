package decideborrowrequest

import (
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/lending-domain-go/lending"
)

// Decision is the owner's answer to a borrow request.
type Decision string

const (
	Approve Decision = "approve"
	Reject  Decision = "reject"
)

// ErrUnknownDecision is returned for answers other than approve and reject.
var ErrUnknownDecision = errors.New("unknown borrow request decision")

// ParseDecision validates a decision name.
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(s); d {
	case Approve, Reject:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDecision, s)
	}
}

// Command represents the owner deciding a pending borrow request.
type Command struct {
	ThingID    lending.ID
	ActorID    lending.ID
	Decision   Decision
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return "DecideBorrowRequest"
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(thingID, actorID lending.ID, decision Decision, occurredAt time.Time) Command {
	return Command{
		ThingID:    thingID,
		ActorID:    actorID,
		Decision:   decision,
		OccurredAt: lending.ToOccurredAt(occurredAt),
	}
}
