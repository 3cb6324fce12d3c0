package requestborrow

import (
	"fmt"
	"time"

	"github.com/AntonStoeckl/lending-domain-go/lending"
)

// DefaultCooldown is how long a member has to wait before asking for the same thing again.
const DefaultCooldown = time.Hour

// State is what Decide knows about the thing and the requester's earlier requests.
type State struct {
	Thing           *lending.Thing
	LastRequestedAt time.Time
	RequestedBefore bool
	Cooldown        time.Duration
}

// Decide determines whether the borrow request is accepted.
// On success the thing in s carries the pending request.
//
// Business Rules:
//
//	GIVEN: A thing with ThingID and a member with RequesterID
//	WHEN: RequestBorrow command is received
//	THEN: BorrowRequested event is generated
//	ERROR: the member asked for this thing within the cooldown window
//	ERROR: the member owns the thing
//	ERROR: the thing is not READY
//	IDEMPOTENCY: the thing already waits for the owner's answer to this member
func Decide(s State, command Command) lending.DecisionResult {
	thing := s.Thing

	if requester, ok := thing.RequestedToBorrowBy(); ok &&
		requester.Equal(command.RequesterID) &&
		thing.Status() == lending.ThingWaitingForLenderApproval {
		return lending.IdempotentDecision()
	}

	if s.RequestedBefore && command.OccurredAt.Sub(s.LastRequestedAt) < s.Cooldown {
		return failed(command, lending.ErrBorrowRequestCooldown)
	}

	if err := thing.RequestBorrow(command.RequesterID); err != nil {
		return failed(command, err)
	}

	return lending.SuccessDecision(
		lending.BuildBorrowRequested(thing.ID, command.RequesterID, thing.OwnerID, command.OccurredAt),
	)
}

func failed(command Command, err error) lending.DecisionResult {
	event := lending.BuildRequestingBorrowFailed(command.ThingID, command.RequesterID, err.Error(), command.OccurredAt)

	return lending.ErrorDecision(event, fmt.Errorf("%s: %w", event.IsEventType(), err))
}
