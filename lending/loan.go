package lending

import (
	"fmt"
	"time"
)

// LoanStatus is the stage of a borrow transaction.
type LoanStatus string

const (
	LoanBorrowed                  LoanStatus = "BORROWED"
	LoanOverdue                   LoanStatus = "OVERDUE"
	LoanReturnStarted             LoanStatus = "RETURN_STARTED"
	LoanWaitingOnLenderAcceptance LoanStatus = "WAITING_ON_LENDER_ACCEPTANCE"
	LoanReturned                  LoanStatus = "RETURNED"
	LoanReturnedDamaged           LoanStatus = "RETURNED_DAMAGED"
)

// LoanTransitions is the loan state machine. RETURNED doubles as the placeholder before activation.
var LoanTransitions = TransitionTable[LoanStatus]{
	LoanReturned:                  {LoanBorrowed},
	LoanBorrowed:                  {LoanReturnStarted, LoanOverdue},
	LoanOverdue:                   {LoanReturnStarted},
	LoanReturnStarted:             {LoanWaitingOnLenderAcceptance, LoanReturned, LoanReturnedDamaged},
	LoanWaitingOnLenderAcceptance: {LoanReturned, LoanReturnedDamaged, LoanOverdue},
	LoanReturnedDamaged:           {},
}

// ParseLoanStatus validates a stored status name.
func ParseLoanStatus(s string) (LoanStatus, error) {
	status := LoanStatus(s)
	if !LoanTransitions.Knows(status) {
		return "", fmt.Errorf("%w: loan status %q", ErrUnknownStatus, s)
	}

	return status, nil
}

// EffectiveLoanStatus derives the readable status from stored state.
// A BORROWED loan whose due day is today or earlier reads as OVERDUE. Permanent loans never do.
func EffectiveLoanStatus(stored LoanStatus, due DueDate, now time.Time) LoanStatus {
	if stored == LoanBorrowed && due.HasPassed(now) {
		return LoanOverdue
	}

	return stored
}

// LoanParams carries the fields of a loan.
type LoanParams struct {
	ID             ID
	Item           *Thing
	DueDate        DueDate
	BorrowerID     ID
	ReturnLocation Location
	TimeReturned   *time.Time
}

// Loan is one borrow transaction of a thing.
//
// Invariants:
//   - the stored status only changes along LoanTransitions
//   - reading the status never mutates it; see StatusAt and SettleOverdue
type Loan struct {
	ID             ID
	Item           *Thing
	DueDate        DueDate
	BorrowerID     ID
	ReturnLocation Location

	timeReturned    *time.Time
	status          LoanStatus
	rejectionReason string
	clock           func() time.Time
}

// NewLoan creates a loan in the RETURNED placeholder status.
// Activate it with SetStatus(LoanBorrowed).
func NewLoan(params LoanParams) *Loan {
	return &Loan{
		ID:             params.ID,
		Item:           params.Item,
		DueDate:        params.DueDate,
		BorrowerID:     params.BorrowerID,
		ReturnLocation: params.ReturnLocation,
		timeReturned:   params.TimeReturned,
		status:         LoanReturned,
		clock:          time.Now,
	}
}

// RestoreLoan rebuilds a loan from stored state without replaying transitions.
func RestoreLoan(params LoanParams, status LoanStatus) (*Loan, error) {
	if !LoanTransitions.Knows(status) {
		return nil, fmt.Errorf("%w: loan status %q", ErrUnknownStatus, status)
	}

	loan := NewLoan(params)
	loan.status = status

	return loan, nil
}

// WithClock replaces the wall clock used by Status. It returns the loan for chaining.
func (l *Loan) WithClock(clock func() time.Time) *Loan {
	l.clock = clock
	return l
}

// EntityID implements Entity.
func (l *Loan) EntityID() ID {
	return l.ID
}

// LenderID is the owner of the borrowed item.
func (l *Loan) LenderID() ID {
	if l.Item == nil {
		return ID{}
	}

	return l.Item.OwnerID
}

// Status is the effective status at the loan's clock.
func (l *Loan) Status() LoanStatus {
	return l.StatusAt(l.clock())
}

// StatusAt is the effective status at now. It has no side effects.
func (l *Loan) StatusAt(now time.Time) LoanStatus {
	return EffectiveLoanStatus(l.status, l.DueDate, now)
}

// StoredStatus is the status as last written.
func (l *Loan) StoredStatus() LoanStatus {
	return l.status
}

// SettleOverdue persists a derived OVERDUE status. It reports whether the stored status changed.
func (l *Loan) SettleOverdue(now time.Time) bool {
	if l.StatusAt(now) == l.status {
		return false
	}
	l.status = LoanOverdue

	return true
}

// SetStatus validates the change against LoanTransitions from the stored status.
func (l *Loan) SetStatus(status LoanStatus) error {
	next, err := Transition(LoanMachine, LoanTransitions, l.status, status)
	if err != nil {
		return err
	}
	l.status = next

	return nil
}

// IsPermanent reports whether the loan has no due date.
func (l *Loan) IsPermanent() bool {
	return l.DueDate.IsPermanent()
}

// IsActive reports whether the item is currently out on this loan.
func (l *Loan) IsActive() bool {
	return l.status == LoanBorrowed
}

// TimeReturned returns when the borrower handed the item back, if they did.
func (l *Loan) TimeReturned() (time.Time, bool) {
	if l.timeReturned == nil {
		return time.Time{}, false
	}

	return *l.timeReturned, true
}

func (l *Loan) markReturnedAt(t time.Time) {
	l.timeReturned = &t
}

// RejectionReason explains why the lender refused the return, if they did.
func (l *Loan) RejectionReason() string {
	return l.rejectionReason
}
