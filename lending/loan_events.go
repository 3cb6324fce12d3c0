package lending

import "time"

const (
	LoanStatusChangedEventType        = "LoanStatusChanged"
	ChangingLoanStatusFailedEventType = "ChangingLoanStatusFailed"
)

// LoanStatusChanged records an accepted loan record write.
// From is empty when the loan record was created.
type LoanStatusChanged struct {
	LoanID     string
	ThingID    string
	BorrowerID string
	From       string
	To         string
	OccurredAt time.Time
}

func BuildLoanStatusChanged(loan *Loan, from, to LoanStatus, occurredAt time.Time) LoanStatusChanged {
	event := LoanStatusChanged{
		LoanID:     loan.ID.String(),
		BorrowerID: loan.BorrowerID.String(),
		From:       string(from),
		To:         string(to),
		OccurredAt: ToOccurredAt(occurredAt),
	}

	if loan.Item != nil {
		event.ThingID = loan.Item.ID.String()
	}

	return event
}

func (e LoanStatusChanged) IsEventType() string      { return LoanStatusChangedEventType }
func (e LoanStatusChanged) HasOccurredAt() time.Time { return e.OccurredAt }
func (e LoanStatusChanged) IsErrorEvent() bool       { return false }

// ChangingLoanStatusFailed records a rejected loan record write.
type ChangingLoanStatusFailed struct {
	LoanID      string
	FailureInfo string
	OccurredAt  time.Time
}

func BuildChangingLoanStatusFailed(loanID string, failureInfo string, occurredAt time.Time) ChangingLoanStatusFailed {
	return ChangingLoanStatusFailed{
		LoanID:      loanID,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e ChangingLoanStatusFailed) IsEventType() string      { return ChangingLoanStatusFailedEventType }
func (e ChangingLoanStatusFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ChangingLoanStatusFailed) IsErrorEvent() bool       { return true }
