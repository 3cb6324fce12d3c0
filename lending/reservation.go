package lending

import (
	"fmt"
	"time"
)

// ReservationStatus is the stage of a time-boxed hold on an item.
type ReservationStatus string

const (
	ReservationAssigned         ReservationStatus = "ASSIGNED"
	ReservationBorrowerNotified ReservationStatus = "BORROWER_NOTIFIED"
	ReservationExpired          ReservationStatus = "EXPIRED"
	ReservationBorrowed         ReservationStatus = "BORROWED"
	ReservationCancelled        ReservationStatus = "CANCELLED"
)

// ReservationTransitions is the reservation state machine.
var ReservationTransitions = TransitionTable[ReservationStatus]{
	ReservationAssigned:         {ReservationBorrowerNotified},
	ReservationBorrowerNotified: {ReservationExpired, ReservationBorrowed},
	ReservationExpired:          {},
	ReservationBorrowed:         {},
	ReservationCancelled:        {},
}

// Reservation holds an item for one borrower until GoodUntil.
type Reservation struct {
	ID        ID
	Holder    Borrower
	Item      *Thing
	GoodUntil time.Time

	status ReservationStatus
}

// NewReservation creates an ASSIGNED reservation.
func NewReservation(holder Borrower, item *Thing, goodUntil time.Time) *Reservation {
	return &Reservation{
		ID:        NewID(),
		Holder:    holder,
		Item:      item,
		GoodUntil: goodUntil,
		status:    ReservationAssigned,
	}
}

// RestoreReservation rebuilds a reservation from stored state without replaying transitions.
func RestoreReservation(id ID, holder Borrower, item *Thing, goodUntil time.Time, status ReservationStatus) (*Reservation, error) {
	if !ReservationTransitions.Knows(status) {
		return nil, fmt.Errorf("%w: reservation status %q", ErrUnknownStatus, status)
	}

	return &Reservation{ID: id, Holder: holder, Item: item, GoodUntil: goodUntil, status: status}, nil
}

// EntityID implements Entity.
func (r *Reservation) EntityID() ID {
	return r.ID
}

func (r *Reservation) Status() ReservationStatus {
	return r.status
}

// SetStatus validates the change against ReservationTransitions.
func (r *Reservation) SetStatus(status ReservationStatus) error {
	next, err := Transition(ReservationMachine, ReservationTransitions, r.status, status)
	if err != nil {
		return err
	}
	r.status = next

	return nil
}

// NotifyBorrower records that the holder was told the item is waiting.
func (r *Reservation) NotifyBorrower() error {
	return r.SetStatus(ReservationBorrowerNotified)
}

// IsExpiredAt reports whether now is past GoodUntil.
func (r *Reservation) IsExpiredAt(now time.Time) bool {
	return now.After(r.GoodUntil)
}

func (r *Reservation) String() string {
	return fmt.Sprintf("reservation %s of %s (%s)", r.ID, r.Item.Title.Name, r.status)
}
