package lending

import (
	"time"
)

// FeeStatus is the payment state of a library fee.
type FeeStatus string

const (
	FeeOutstanding FeeStatus = "OUTSTANDING"
	FeePaid        FeeStatus = "PAID"
	FeeWaived      FeeStatus = "WAIVED"
)

// FeeTransitions is the fee payment state machine.
var FeeTransitions = TransitionTable[FeeStatus]{
	FeeOutstanding: {FeePaid, FeeWaived},
	FeePaid:        {},
	FeeWaived:      {},
}

// LibraryFee is a charge levied by a library against a borrower.
// Only its status ever changes.
type LibraryFee struct {
	ID           ID
	LibraryID    ID
	Amount       Money
	ChargedForID ID

	status FeeStatus
}

// NewLibraryFee creates an OUTSTANDING fee for the loan or charge chargedForID.
func NewLibraryFee(libraryID ID, amount Money, chargedForID ID) *LibraryFee {
	return &LibraryFee{
		ID:           NewID(),
		LibraryID:    libraryID,
		Amount:       amount,
		ChargedForID: chargedForID,
		status:       FeeOutstanding,
	}
}

// EntityID implements Entity.
func (f *LibraryFee) EntityID() ID {
	return f.ID
}

func (f *LibraryFee) Status() FeeStatus {
	return f.status
}

func (f *LibraryFee) IsOutstanding() bool {
	return f.status == FeeOutstanding
}

func (f *LibraryFee) Pay() error {
	return f.setStatus(FeePaid)
}

func (f *LibraryFee) Waive() error {
	return f.setStatus(FeeWaived)
}

func (f *LibraryFee) setStatus(status FeeStatus) error {
	next, err := Transition(FeeMachine, FeeTransitions, f.status, status)
	if err != nil {
		return err
	}
	f.status = next

	return nil
}

// OutstandingTotal sums the outstanding fees in currency. Fees in any other currency are an error.
func OutstandingTotal(currency Currency, fees []*LibraryFee) (Money, error) {
	amounts := make([]Money, 0, len(fees))
	for _, fee := range fees {
		if fee.IsOutstanding() {
			amounts = append(amounts, fee.Amount)
		}
	}

	return Total(currency, amounts...)
}

// FeeSchedule prices overdue and damaged returns.
type FeeSchedule interface {
	// FeeForOverdueItem is the charge for loan when returned at returnedAt.
	FeeForOverdueItem(loan *Loan, returnedAt time.Time) Money
	// FeeForDamagedItem is the charge for a damaged return, or false when the schedule has none.
	FeeForDamagedItem(loan *Loan) (Money, bool)
}

// PerDayFeeSchedule charges DailyCharge for every calendar day past the due day.
type PerDayFeeSchedule struct {
	DailyCharge  Money
	DamageCharge *Money
}

func (s PerDayFeeSchedule) FeeForOverdueItem(loan *Loan, returnedAt time.Time) Money {
	return s.DailyCharge.Mul(loan.DueDate.DaysLate(returnedAt))
}

func (s PerDayFeeSchedule) FeeForDamagedItem(*Loan) (Money, bool) {
	if s.DamageCharge == nil {
		return Money{}, false
	}

	return *s.DamageCharge, true
}

// NoFeeSchedule charges zero for lateness and nothing for damage.
type NoFeeSchedule struct {
	Currency Currency
}

func (s NoFeeSchedule) FeeForOverdueItem(*Loan, time.Time) Money {
	return ZeroMoney(s.Currency)
}

func (s NoFeeSchedule) FeeForDamagedItem(*Loan) (Money, bool) {
	return Money{}, false
}

var (
	_ FeeSchedule = PerDayFeeSchedule{}
	_ FeeSchedule = NoFeeSchedule{}
)
