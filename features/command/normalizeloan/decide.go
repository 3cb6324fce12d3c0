package normalizeloan

import (
	"fmt"

	"github.com/AntonStoeckl/lending-domain-go/lending"
)

// State is the loan as desired by the writer, still at its previously stored status.
type State struct {
	Loan      *lending.Loan
	Created   bool
	Unchanged bool
}

// Decide validates the desired status against the loan state machine.
// On success the loan in s carries the desired status.
//
// Business Rules:
//
//	GIVEN: A loan at its stored status, RETURNED when it is being created
//	WHEN: NormalizeLoan command is received
//	THEN: LoanStatusChanged event is generated, with an empty From on creation
//	ERROR: the desired status is not a loan status
//	ERROR: the loan state machine does not allow the change
//	IDEMPOTENCY: the desired record equals the stored one
func Decide(s State, desiredStatus string, command Command) lending.DecisionResult {
	if s.Unchanged {
		return lending.IdempotentDecision()
	}

	loan := s.Loan
	from := loan.StoredStatus()

	to, err := lending.ParseLoanStatus(desiredStatus)
	if err != nil {
		return failed(loan, err, command)
	}

	if to != from {
		if err = loan.SetStatus(to); err != nil {
			return failed(loan, err, command)
		}
	}

	if s.Created {
		from = ""
	}

	return lending.SuccessDecision(lending.BuildLoanStatusChanged(loan, from, to, command.OccurredAt))
}

func failed(loan *lending.Loan, err error, command Command) lending.DecisionResult {
	event := lending.BuildChangingLoanStatusFailed(loan.ID.String(), err.Error(), command.OccurredAt)

	return lending.ErrorDecision(event, fmt.Errorf("%s: %w", event.IsEventType(), err))
}
