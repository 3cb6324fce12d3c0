package decideborrowrequest

import (
	"fmt"

	"github.com/AntonStoeckl/lending-domain-go/lending"
)

// Decide applies the owner's decision to thing.
// On success thing carries the new status.
//
// Business Rules:
//
//	GIVEN: A thing waiting for the owner's approval
//	WHEN: DecideBorrowRequest command is received from the owner
//	THEN: BorrowRequestApproved or BorrowRequestRejected event is generated
//	ERROR: the actor does not own the thing
//	ERROR: the decision is neither approve nor reject
//	ERROR: no request is pending and the thing is not already where the decision would put it
//	IDEMPOTENCY: no request is pending and the thing already shows the decision's outcome
func Decide(thing *lending.Thing, command Command) lending.DecisionResult {
	if !thing.IsOwnedBy(command.ActorID) {
		return failed(command, lending.ErrNotOwner)
	}

	target, ok := targetStatus(command.Decision)
	if !ok {
		return failed(command, fmt.Errorf("%w: %q", ErrUnknownDecision, command.Decision))
	}

	if thing.Status() != lending.ThingWaitingForLenderApproval && thing.Status() == target {
		return lending.IdempotentDecision()
	}

	requesterID, _ := thing.RequestedToBorrowBy()

	if command.Decision == Approve {
		if err := thing.ApproveBorrowRequest(); err != nil {
			return failed(command, err)
		}

		return lending.SuccessDecision(
			lending.BuildBorrowRequestApproved(thing.ID, requesterID, thing.OwnerID, command.OccurredAt),
		)
	}

	if err := thing.RejectBorrowRequest(); err != nil {
		return failed(command, err)
	}

	return lending.SuccessDecision(
		lending.BuildBorrowRequestRejected(thing.ID, requesterID, thing.OwnerID, command.OccurredAt),
	)
}

func targetStatus(decision Decision) (lending.ThingStatus, bool) {
	switch decision {
	case Approve:
		return lending.ThingBorrowed, true
	case Reject:
		return lending.ThingReady, true
	default:
		return "", false
	}
}

func failed(command Command, err error) lending.DecisionResult {
	event := lending.BuildDecidingBorrowRequestFailed(command.ThingID, command.ActorID, err.Error(), command.OccurredAt)

	return lending.ErrorDecision(event, fmt.Errorf("%s: %w", event.IsEventType(), err))
}
