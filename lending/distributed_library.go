package lending

import (
	"fmt"
	"slices"
)

// DistributedLibrary owns no items. It aggregates lenders and routes every per-item
// operation to the lender that owns the item.
type DistributedLibrary struct {
	libraryCore
	Area *PhysicalArea

	lenders []Lender
	owners  map[ID]Lender
}

// NewDistributedLibrary validates config and creates a library without lenders.
func NewDistributedLibrary(config LibraryConfig, opts ...LibraryOption) (*DistributedLibrary, error) {
	core, err := newLibraryCore(config, opts...)
	if err != nil {
		return nil, err
	}

	return &DistributedLibrary{libraryCore: core, owners: make(map[ID]Lender)}, nil
}

// AddLender registers lender and indexes its current items.
func (l *DistributedLibrary) AddLender(lender Lender) {
	if slices.ContainsFunc(l.lenders, func(existing Lender) bool { return SameEntity(existing, lender) }) {
		return
	}

	l.lenders = append(l.lenders, lender)
	for _, item := range lender.Items() {
		l.owners[item.ID] = lender
	}
}

func (l *DistributedLibrary) Lenders() []Lender {
	return slices.Clone(l.lenders)
}

// OwnerOf resolves the lender holding item. Items added to a lender after registration
// are found by a scan and indexed on first lookup.
func (l *DistributedLibrary) OwnerOf(item *Thing) (Lender, error) {
	if lender, ok := l.owners[item.ID]; ok && holds(lender, item) {
		return lender, nil
	}

	for _, lender := range l.lenders {
		if holds(lender, item) {
			l.owners[item.ID] = lender
			return lender, nil
		}
	}

	delete(l.owners, item.ID)

	return nil, fmt.Errorf("%w: Cannot find an owner for %s", ErrNoOwnerForThing, item.Title.Name)
}

func holds(lender Lender, item *Thing) bool {
	return slices.ContainsFunc(lender.Items(), func(t *Thing) bool { return t.ID.Equal(item.ID) })
}

// AllThings aggregates the items of every lender in registration order.
func (l *DistributedLibrary) AllThings() []*Thing {
	var all []*Thing
	for _, lender := range l.lenders {
		all = append(all, lender.Items()...)
	}

	return all
}

func (l *DistributedLibrary) AvailableThings() []*Thing {
	return availableThings(l.AllThings())
}

func (l *DistributedLibrary) AllTitles() []ThingTitle {
	return UniqueTitles(l.AllThings())
}

func (l *DistributedLibrary) AvailableTitles() []ThingTitle {
	return UniqueTitles(l.AvailableThings())
}

func (l *DistributedLibrary) StartBorrow(thing *Thing, borrower Borrower) (*Thing, error) {
	if _, err := l.OwnerOf(thing); err != nil {
		return nil, err
	}

	if err := l.ensureBorrowable(thing, borrower); err != nil {
		return nil, err
	}

	return thing, nil
}

// FinishBorrow creates the loan with the owning lender's preferred return location.
func (l *DistributedLibrary) FinishBorrow(thing *Thing, borrower Borrower, until *DueDate) (*Loan, error) {
	owner, err := l.OwnerOf(thing)
	if err != nil {
		return nil, err
	}

	return l.finishBorrow(thing, borrower, until, owner)
}

// StartReturn runs the owner's return hook, then waits on the owner's acceptance.
func (l *DistributedLibrary) StartReturn(loan *Loan) (*Loan, error) {
	owner, err := l.OwnerOf(loan.Item)
	if err != nil {
		return nil, err
	}

	return l.startReturn(loan, owner)
}

// FinishLibraryReturn settles the loan and lets the owner accept it.
func (l *DistributedLibrary) FinishLibraryReturn(loan *Loan, borrower Borrower) (*Loan, error) {
	owner, err := l.OwnerOf(loan.Item)
	if err != nil {
		return nil, err
	}

	settled, err := l.finishLibraryReturn(loan, borrower)
	if err != nil {
		return nil, err
	}

	if err := owner.AcceptReturn(settled); err != nil {
		return nil, err
	}

	return settled, nil
}

var _ Library = (*DistributedLibrary)(nil)
