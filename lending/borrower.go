package lending

import (
	"slices"
	"time"
)

// Borrower is the capability of holding library membership and fees.
type Borrower interface {
	Entity
	// LibraryID is the library the borrower is a member of.
	LibraryID() ID
	Fees() []*LibraryFee
	ApplyFee(fee *LibraryFee)
}

// Lender is the capability of owning an inventory and taking items back.
type Lender interface {
	Entity
	Items() []*Thing
	PreferredReturnLocation() Location
	// BeginReturn is the lender's hook when a borrower begins handing an item back.
	BeginReturn(loan *Loan, now time.Time) error
	// AcceptReturn is called once the library settled the loan. It must not undo a settled status.
	AcceptReturn(loan *Loan) error
}

// VerificationFlag marks a check a borrower passed.
type VerificationFlag string

const (
	VerifiedEmail    VerificationFlag = "EMAIL"
	VerifiedIdentity VerificationFlag = "IDENTITY"
	VerifiedAddress  VerificationFlag = "ADDRESS"
)

// PersonBorrower is a person borrowing from one library.
type PersonBorrower struct {
	Person
	Library           ID
	VerificationFlags []VerificationFlag

	fees []*LibraryFee
}

func NewPersonBorrower(person Person, libraryID ID, flags ...VerificationFlag) *PersonBorrower {
	return &PersonBorrower{Person: person, Library: libraryID, VerificationFlags: flags}
}

func (b *PersonBorrower) LibraryID() ID {
	return b.Library
}

func (b *PersonBorrower) Fees() []*LibraryFee {
	return slices.Clone(b.fees)
}

func (b *PersonBorrower) ApplyFee(fee *LibraryFee) {
	b.fees = append(b.fees, fee)
}

// OutstandingFees lists the fees not yet paid or waived.
func (b *PersonBorrower) OutstandingFees() []*LibraryFee {
	outstanding := make([]*LibraryFee, 0, len(b.fees))
	for _, fee := range b.fees {
		if fee.IsOutstanding() {
			outstanding = append(outstanding, fee)
		}
	}

	return outstanding
}

func (b *PersonBorrower) IsVerified(flag VerificationFlag) bool {
	return slices.Contains(b.VerificationFlags, flag)
}

// PersonLender is a person lending things from their own home.
type PersonLender struct {
	Person
	Home Location

	items []*Thing
}

func NewPersonLender(person Person, home Location, items ...*Thing) *PersonLender {
	return &PersonLender{Person: person, Home: home, items: items}
}

func (l *PersonLender) AddItem(item *Thing) {
	l.items = append(l.items, item)
}

func (l *PersonLender) Items() []*Thing {
	return slices.Clone(l.items)
}

func (l *PersonLender) PreferredReturnLocation() Location {
	return l.Home
}

// BeginReturn moves an active or overdue loan to RETURN_STARTED.
func (l *PersonLender) BeginReturn(loan *Loan, now time.Time) error {
	loan.SettleOverdue(now)
	return loan.SetStatus(LoanReturnStarted)
}

// AcceptReturn takes the settled loan as is.
func (l *PersonLender) AcceptReturn(*Loan) error {
	return nil
}

var (
	_ Borrower = (*PersonBorrower)(nil)
	_ Lender   = (*PersonLender)(nil)
)
