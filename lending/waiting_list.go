package lending

import (
	"fmt"
	"slices"
	"time"
)

// WaitingListType selects a waiting list policy.
type WaitingListType string

const (
	WaitingListNone                WaitingListType = "NONE"
	WaitingListFirstComeFirstServe WaitingListType = "FIRST_COME_FIRST_SERVE"
)

const firstComeFirstServeReservationDays = 3

// WaitingList queues borrowers for one item and holds at most one current reservation.
type WaitingList interface {
	Entity
	Item() *Thing
	Type() WaitingListType
	ReservationDays() int

	Add(borrower Borrower)
	IsOnList(borrower Borrower) bool
	Cancel(borrower Borrower)
	FindNextBorrower() Borrower
	Waiting() []Borrower

	CurrentReservation() *Reservation
	ExpiredReservations() []*Reservation
	ReserveItemForNextBorrower(now time.Time) (*Reservation, error)
	ProcessReservationExpired(reservation *Reservation) error
}

// NewWaitingList is the waiting list factory.
func NewWaitingList(listType WaitingListType, item *Thing) (WaitingList, error) {
	switch listType {
	case WaitingListNone:
		return NewNullWaitingList(item), nil
	case WaitingListFirstComeFirstServe:
		return NewFirstComeFirstServeWaitingList(item), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownWaitingListType, listType)
	}
}

// reservations is the reservation bookkeeping shared by all waiting list policies.
type reservations struct {
	id      ID
	item    *Thing
	current *Reservation
	expired []*Reservation
}

func (r *reservations) EntityID() ID {
	return r.id
}

func (r *reservations) Item() *Thing {
	return r.item
}

func (r *reservations) CurrentReservation() *Reservation {
	return r.current
}

func (r *reservations) ExpiredReservations() []*Reservation {
	return slices.Clone(r.expired)
}

// reserveNext runs the reservation protocol against the policy of list.
func (r *reservations) reserveNext(list WaitingList, now time.Time) (*Reservation, error) {
	if r.current != nil {
		return nil, ErrReservationAlreadyActive
	}

	next := list.FindNextBorrower()
	if next == nil {
		return nil, ErrNoBorrowerWaiting
	}

	if err := r.item.Reserve(); err != nil {
		return nil, err
	}

	goodUntil := now.AddDate(0, 0, list.ReservationDays())
	reservation := NewReservation(next, r.item, goodUntil)
	list.Cancel(next)
	r.current = reservation

	return reservation, nil
}

func (r *reservations) ProcessReservationExpired(reservation *Reservation) error {
	if reservation.Status() == ReservationAssigned {
		if err := reservation.NotifyBorrower(); err != nil {
			return err
		}
	}

	if err := reservation.SetStatus(ReservationExpired); err != nil {
		return err
	}

	r.expired = append(r.expired, reservation)
	if r.current != nil && SameEntity(r.current, reservation) {
		r.current = nil
	}

	return nil
}

// FirstComeFirstServeWaitingList serves borrowers in the order they joined.
type FirstComeFirstServeWaitingList struct {
	reservations
	queue []Borrower
}

func NewFirstComeFirstServeWaitingList(item *Thing) *FirstComeFirstServeWaitingList {
	return &FirstComeFirstServeWaitingList{reservations: reservations{id: NewID(), item: item}}
}

func (l *FirstComeFirstServeWaitingList) Type() WaitingListType {
	return WaitingListFirstComeFirstServe
}

func (l *FirstComeFirstServeWaitingList) ReservationDays() int {
	return firstComeFirstServeReservationDays
}

// Add enqueues borrower unless already queued.
func (l *FirstComeFirstServeWaitingList) Add(borrower Borrower) {
	if l.IsOnList(borrower) {
		return
	}
	l.queue = append(l.queue, borrower)
}

func (l *FirstComeFirstServeWaitingList) IsOnList(borrower Borrower) bool {
	return slices.ContainsFunc(l.queue, func(b Borrower) bool { return SameEntity(b, borrower) })
}

// Cancel removes borrower wherever they are in the queue.
func (l *FirstComeFirstServeWaitingList) Cancel(borrower Borrower) {
	l.queue = slices.DeleteFunc(l.queue, func(b Borrower) bool { return SameEntity(b, borrower) })
}

// FindNextBorrower returns the earliest queued borrower, or nil.
func (l *FirstComeFirstServeWaitingList) FindNextBorrower() Borrower {
	if len(l.queue) == 0 {
		return nil
	}

	return l.queue[0]
}

func (l *FirstComeFirstServeWaitingList) Waiting() []Borrower {
	return slices.Clone(l.queue)
}

func (l *FirstComeFirstServeWaitingList) ReserveItemForNextBorrower(now time.Time) (*Reservation, error) {
	return l.reserveNext(l, now)
}

// NullWaitingList is used when a library supports no waiting: it never holds anyone.
type NullWaitingList struct {
	reservations
}

func NewNullWaitingList(item *Thing) *NullWaitingList {
	return &NullWaitingList{reservations: reservations{id: NewID(), item: item}}
}

func (l *NullWaitingList) Type() WaitingListType {
	return WaitingListNone
}

func (l *NullWaitingList) ReservationDays() int {
	return 0
}

func (l *NullWaitingList) Add(Borrower) {}

func (l *NullWaitingList) IsOnList(Borrower) bool {
	return false
}

func (l *NullWaitingList) Cancel(Borrower) {}

func (l *NullWaitingList) FindNextBorrower() Borrower {
	return nil
}

func (l *NullWaitingList) Waiting() []Borrower {
	return nil
}

func (l *NullWaitingList) ReserveItemForNextBorrower(now time.Time) (*Reservation, error) {
	return l.reserveNext(l, now)
}

var (
	_ WaitingList = (*FirstComeFirstServeWaitingList)(nil)
	_ WaitingList = (*NullWaitingList)(nil)
)
