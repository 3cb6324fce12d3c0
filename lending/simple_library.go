package lending

import (
	"slices"
	"time"
)

// SimpleLibrary owns its inventory and is its own lender. Items are returned to its location.
type SimpleLibrary struct {
	libraryCore
	Location Location

	items []*Thing
}

// NewSimpleLibrary validates config and creates an empty library at location.
func NewSimpleLibrary(config LibraryConfig, location Location, opts ...LibraryOption) (*SimpleLibrary, error) {
	core, err := newLibraryCore(config, opts...)
	if err != nil {
		return nil, err
	}

	return &SimpleLibrary{libraryCore: core, Location: location}, nil
}

// AddItem adds a thing to the inventory.
func (l *SimpleLibrary) AddItem(item *Thing) {
	l.items = append(l.items, item)
}

// Items implements Lender.
func (l *SimpleLibrary) Items() []*Thing {
	return slices.Clone(l.items)
}

func (l *SimpleLibrary) AllThings() []*Thing {
	return l.Items()
}

func (l *SimpleLibrary) AvailableThings() []*Thing {
	return availableThings(l.AllThings())
}

func (l *SimpleLibrary) AllTitles() []ThingTitle {
	return UniqueTitles(l.AllThings())
}

func (l *SimpleLibrary) AvailableTitles() []ThingTitle {
	return UniqueTitles(l.AvailableThings())
}

// PreferredReturnLocation implements Lender.
func (l *SimpleLibrary) PreferredReturnLocation() Location {
	return l.Location
}

// BeginReturn implements Lender: the loan moves to RETURN_STARTED.
func (l *SimpleLibrary) BeginReturn(loan *Loan, now time.Time) error {
	loan.SettleOverdue(now)
	return loan.SetStatus(LoanReturnStarted)
}

// AcceptReturn implements Lender. A loan still waiting on acceptance is marked RETURNED,
// a loan already settled by the library is left as is.
func (l *SimpleLibrary) AcceptReturn(loan *Loan) error {
	if loan.StoredStatus() != LoanWaitingOnLenderAcceptance {
		return nil
	}

	return loan.SetStatus(LoanReturned)
}

// StartBorrow checks that thing is READY and borrower is in good standing.
func (l *SimpleLibrary) StartBorrow(thing *Thing, borrower Borrower) (*Thing, error) {
	if err := l.ensureBorrowable(thing, borrower); err != nil {
		return nil, err
	}

	return thing, nil
}

func (l *SimpleLibrary) FinishBorrow(thing *Thing, borrower Borrower, until *DueDate) (*Loan, error) {
	return l.finishBorrow(thing, borrower, until, l)
}

// StartReturn moves the loan to WAITING_ON_LENDER_ACCEPTANCE and stamps the return time.
func (l *SimpleLibrary) StartReturn(loan *Loan) (*Loan, error) {
	return l.startReturn(loan, l)
}

// FinishLibraryReturn settles status and fees, then promotes the next waiting borrower.
func (l *SimpleLibrary) FinishLibraryReturn(loan *Loan, borrower Borrower) (*Loan, error) {
	return l.finishLibraryReturn(loan, borrower)
}

var (
	_ Library = (*SimpleLibrary)(nil)
	_ Lender  = (*SimpleLibrary)(nil)
)
