package lending

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Library mediates borrowing of things on behalf of one or more lenders.
type Library interface {
	Entity
	Name() string

	AllThings() []*Thing
	AvailableThings() []*Thing
	AllTitles() []ThingTitle
	AvailableTitles() []ThingTitle

	AddBorrower(borrower Borrower)
	Borrowers() []Borrower
	Loans() []*Loan

	// CanBorrow reports membership and good standing. Fees in a foreign currency are an error.
	CanBorrow(borrower Borrower) (bool, error)
	StartBorrow(thing *Thing, borrower Borrower) (*Thing, error)
	// FinishBorrow lends thing until the given due date, or for the default loan time when until is nil.
	FinishBorrow(thing *Thing, borrower Borrower, until *DueDate) (*Loan, error)
	StartReturn(loan *Loan) (*Loan, error)
	RejectReturn(loan *Loan, reason string) (*Loan, error)
	FinishLibraryReturn(loan *Loan, borrower Borrower) (*Loan, error)

	ReserveItem(item *Thing, borrower Borrower) (WaitingList, error)
	WaitingListFor(item *Thing) (WaitingList, bool)
	ExpireReservation(item *Thing) (*Reservation, error)
}

// LibraryConfig is the policy of a library.
type LibraryConfig struct {
	ID                       ID
	Name                     string
	Administrators           []Person
	WaitingListType          WaitingListType
	MaxFinesBeforeSuspension Money
	FeeSchedule              FeeSchedule
	DefaultLoanDays          int
	PublicURL                URL
	MOPServer                MOPServer
}

// Validate reports every configuration problem at once.
func (c LibraryConfig) Validate() error {
	var errs []error

	if c.ID.IsZero() {
		errs = append(errs, errors.New("library id is required"))
	}

	if c.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}

	if c.DefaultLoanDays < 1 {
		errs = append(errs, fmt.Errorf("default loan days must be at least 1, got %d", c.DefaultLoanDays))
	}

	if c.FeeSchedule == nil {
		errs = append(errs, errors.New("fee schedule is required"))
	}

	if !c.MaxFinesBeforeSuspension.Currency().IsValid() {
		errs = append(errs, errors.New("max fines before suspension needs a currency"))
	}

	if _, err := NewWaitingList(c.WaitingListType, nil); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidLibraryConfiguration}, errs...)...)
	}

	return nil
}

// LibraryOption configures a library.
type LibraryOption func(*libraryCore)

// WithClock replaces the wall clock of a library and of the loans it creates.
func WithClock(clock func() time.Time) LibraryOption {
	return func(c *libraryCore) {
		c.now = clock
	}
}

// libraryCore holds what every library variant shares: configuration, members, loans and waiting lists.
// Variants supply the lender that owns each item.
type libraryCore struct {
	config       LibraryConfig
	borrowers    []Borrower
	loans        []*Loan
	waitingLists map[ID]WaitingList
	now          func() time.Time
}

func newLibraryCore(config LibraryConfig, opts ...LibraryOption) (libraryCore, error) {
	if err := config.Validate(); err != nil {
		return libraryCore{}, err
	}

	core := libraryCore{
		config:       config,
		waitingLists: make(map[ID]WaitingList),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(&core)
	}

	return core, nil
}

// EntityID implements Entity.
func (c *libraryCore) EntityID() ID {
	return c.config.ID
}

func (c *libraryCore) Name() string {
	return c.config.Name
}

func (c *libraryCore) Config() LibraryConfig {
	return c.config
}

// AddBorrower registers borrower unless already registered.
func (c *libraryCore) AddBorrower(borrower Borrower) {
	if slices.ContainsFunc(c.borrowers, func(b Borrower) bool { return SameEntity(b, borrower) }) {
		return
	}
	c.borrowers = append(c.borrowers, borrower)
}

func (c *libraryCore) Borrowers() []Borrower {
	return slices.Clone(c.borrowers)
}

func (c *libraryCore) Loans() []*Loan {
	return slices.Clone(c.loans)
}

func (c *libraryCore) CanBorrow(borrower Borrower) (bool, error) {
	if !borrower.LibraryID().Equal(c.config.ID) {
		return false, nil
	}

	threshold := c.config.MaxFinesBeforeSuspension

	outstanding, err := OutstandingTotal(threshold.Currency(), borrower.Fees())
	if err != nil {
		return false, err
	}

	return outstanding.LessThanOrEqual(threshold)
}

// RejectReturn marks the loan RETURNED_DAMAGED and keeps the reason.
func (c *libraryCore) RejectReturn(loan *Loan, reason string) (*Loan, error) {
	if err := loan.SetStatus(LoanReturnedDamaged); err != nil {
		return nil, err
	}
	loan.rejectionReason = reason

	return loan, nil
}

// ReserveItem queues borrower for item, creating the waiting list on first use.
func (c *libraryCore) ReserveItem(item *Thing, borrower Borrower) (WaitingList, error) {
	list, ok := c.waitingLists[item.ID]
	if !ok {
		created, err := NewWaitingList(c.config.WaitingListType, item)
		if err != nil {
			return nil, err
		}
		list = created
		c.waitingLists[item.ID] = list
	}

	list.Add(borrower)

	return list, nil
}

func (c *libraryCore) WaitingListFor(item *Thing) (WaitingList, bool) {
	list, ok := c.waitingLists[item.ID]
	return list, ok
}

// ExpireReservation ends the current reservation of item and hands the item to the next
// waiting borrower, or makes it READY when nobody is waiting.
func (c *libraryCore) ExpireReservation(item *Thing) (*Reservation, error) {
	list, ok := c.waitingLists[item.ID]
	if !ok || list.CurrentReservation() == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoActiveReservation, item.Title.Name)
	}

	expired := list.CurrentReservation()
	if err := list.ProcessReservationExpired(expired); err != nil {
		return nil, err
	}

	if list.FindNextBorrower() != nil {
		if _, err := list.ReserveItemForNextBorrower(c.now()); err != nil {
			return nil, err
		}

		return expired, nil
	}

	if err := item.MarkReady(); err != nil {
		return nil, err
	}

	return expired, nil
}

func (c *libraryCore) ensureBorrowable(thing *Thing, borrower Borrower) error {
	if thing.Status() != ThingReady {
		return fmt.Errorf("%w: %s is %s", ErrThingNotReadyToBorrow, thing.Title.Name, thing.Status())
	}

	ok, err := c.CanBorrow(borrower)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("%w: %s", ErrBorrowerNotInGoodStanding, borrower.EntityID())
	}

	return nil
}

func (c *libraryCore) finishBorrow(thing *Thing, borrower Borrower, until *DueDate, owner Lender) (*Loan, error) {
	if err := c.ensureBorrowable(thing, borrower); err != nil {
		return nil, err
	}

	due := DueInDays(c.now(), c.config.DefaultLoanDays)
	if until != nil {
		due = *until
	}

	if err := thing.MarkBorrowed(); err != nil {
		return nil, err
	}

	loan := NewLoan(LoanParams{
		ID:             NewID(),
		Item:           thing,
		DueDate:        due,
		BorrowerID:     borrower.EntityID(),
		ReturnLocation: owner.PreferredReturnLocation(),
	}).WithClock(c.now)

	if err := loan.SetStatus(LoanBorrowed); err != nil {
		return nil, err
	}

	c.loans = append(c.loans, loan)

	return loan, nil
}

func (c *libraryCore) startReturn(loan *Loan, owner Lender) (*Loan, error) {
	now := c.now()

	if err := owner.BeginReturn(loan, now); err != nil {
		return nil, err
	}

	if loan.StoredStatus() != LoanWaitingOnLenderAcceptance {
		if err := loan.SetStatus(LoanWaitingOnLenderAcceptance); err != nil {
			return nil, err
		}
	}
	loan.markReturnedAt(now)

	return loan, nil
}

func (c *libraryCore) finishLibraryReturn(loan *Loan, borrower Borrower) (*Loan, error) {
	returnedAt, returned := loan.TimeReturned()
	if loan.StoredStatus() != LoanWaitingOnLenderAcceptance || !returned {
		return nil, fmt.Errorf("%w: loan %s is %s", ErrReturnNotStarted, loan.ID, loan.StoredStatus())
	}

	item := loan.Item
	damaged := item.Status() == ThingDamaged

	resolved := LoanReturned
	switch {
	case damaged:
		resolved = LoanReturnedDamaged
	case loan.DueDate.DaysLate(returnedAt) > 0:
		resolved = LoanOverdue
	}

	if err := loan.SetStatus(resolved); err != nil {
		return nil, err
	}

	c.assessFees(loan, borrower, damaged, returnedAt)

	if err := c.promoteWaitingBorrower(item, damaged); err != nil {
		return nil, err
	}

	if item.Status() == ThingBorrowed {
		if err := item.MarkReady(); err != nil {
			return nil, err
		}
	}

	return loan, nil
}

// assessFees charges for damage, or else for lateness. A computed fee is applied even when it is zero.
func (c *libraryCore) assessFees(loan *Loan, borrower Borrower, damaged bool, returnedAt time.Time) {
	schedule := c.config.FeeSchedule

	var (
		amount  Money
		charged bool
	)

	switch {
	case damaged:
		amount, charged = schedule.FeeForDamagedItem(loan)
	case loan.StoredStatus() == LoanOverdue:
		amount, charged = schedule.FeeForOverdueItem(loan, returnedAt), true
	}

	if !charged {
		return
	}

	borrower.ApplyFee(NewLibraryFee(c.config.ID, amount, loan.ID))
}

func (c *libraryCore) promoteWaitingBorrower(item *Thing, damaged bool) error {
	list, ok := c.waitingLists[item.ID]
	if !ok || damaged || list.CurrentReservation() != nil || list.FindNextBorrower() == nil {
		return nil
	}

	_, err := list.ReserveItemForNextBorrower(c.now())

	return err
}

func availableThings(all []*Thing) []*Thing {
	return slices.DeleteFunc(all, func(t *Thing) bool { return t.Status() != ThingReady })
}
