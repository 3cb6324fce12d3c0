package lending

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors so callers can translate them at their boundary.
type ErrorKind string

const (
	KindUnknown           ErrorKind = "unknown"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindPrecondition      ErrorKind = "precondition"
	KindEligibility       ErrorKind = "eligibility"
	KindCurrencyMismatch  ErrorKind = "currency_mismatch"
	KindMalformedIdentity ErrorKind = "malformed_identity"
)

var (
	// ErrInvalidTransition is matched by every *InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrUnknownStatus is returned when a stored status name is not part of a state machine.
	ErrUnknownStatus = errors.New("unknown status")

	// ErrThingNotReadyToBorrow is returned when a borrow is attempted on a thing that is not READY.
	ErrThingNotReadyToBorrow = errors.New("thing is not ready to be borrowed")

	// ErrNoPendingBorrowRequest is returned when a borrow request decision finds no pending request.
	ErrNoPendingBorrowRequest = errors.New("thing has no pending borrow request")

	// ErrReturnNotStarted is returned when a return is finished before it was started.
	ErrReturnNotStarted = errors.New("return not started")

	// ErrReservationAlreadyActive is returned when a waiting list already holds a current reservation.
	ErrReservationAlreadyActive = errors.New("this item already has a reservation, please remove that first")

	// ErrNoBorrowerWaiting is returned when a reservation is requested for an empty waiting list.
	ErrNoBorrowerWaiting = errors.New("no borrower is waiting for this item")

	// ErrNoActiveReservation is returned when a reservation expiry finds no current reservation.
	ErrNoActiveReservation = errors.New("item has no active reservation")

	// ErrNoOwnerForThing is returned when no registered lender owns a thing.
	ErrNoOwnerForThing = errors.New("cannot find an owner for thing")

	// ErrUnknownWaitingListType is returned by the waiting list factory for unsupported types.
	ErrUnknownWaitingListType = errors.New("unknown waiting list type")

	// ErrInvalidLibraryConfiguration is returned when a library is configured inconsistently.
	ErrInvalidLibraryConfiguration = errors.New("invalid library configuration")

	// ErrMissingCoordinates is returned when a distance needs coordinates a location does not carry.
	ErrMissingCoordinates = errors.New("location has no coordinates")

	// ErrUnsupportedLocation is returned when two location kinds cannot be compared.
	ErrUnsupportedLocation = errors.New("unsupported location kind")

	// ErrNegativeDistance is returned when a distance would be negative.
	ErrNegativeDistance = errors.New("distance must not be negative")

	// ErrNotDollars is returned when a dollar amount is requested from a non-USD money value.
	ErrNotDollars = errors.New("money is not in US dollars")

	// ErrBorrowerNotInGoodStanding is returned when a borrower may not borrow from a library.
	ErrBorrowerNotInGoodStanding = errors.New("borrower is not in good standing")

	// ErrRequesterIsOwner is returned when an owner requests to borrow their own thing.
	ErrRequesterIsOwner = errors.New("owner cannot request to borrow their own thing")

	// ErrBorrowRequestCooldown is returned when a user asks for the same item again too soon.
	ErrBorrowRequestCooldown = errors.New("you already requested this item recently, please wait before asking again")

	// ErrNotOwner is returned when a non-owner attempts an owner-only action.
	ErrNotOwner = errors.New("only the owner can perform this action")

	// ErrOnlyBorrowRequestAllowed is returned when a non-owner attempts any status change other than a borrow request.
	ErrOnlyBorrowRequestAllowed = errors.New("you can only request to borrow items that are available")

	// ErrCurrencyMismatch is returned by money operations across different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrUnknownCurrency is returned for currencies outside the supported catalogue.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrMalformedID is returned when an identifier is not a valid UUID.
	ErrMalformedID = errors.New("malformed id")
)

// Machine names used in InvalidTransitionError.
const (
	ThingMachine       = "thing"
	LoanMachine        = "loan"
	ReservationMachine = "reservation"
	FeeMachine         = "fee"
)

// InvalidTransitionError reports an attempted transition that is not in a state machine's table.
type InvalidTransitionError struct {
	Machine string
	From    string
	To      string
}

func (e *InvalidTransitionError) Error() string {
	switch e.Machine {
	case LoanMachine:
		return fmt.Sprintf("Cannot change loan status from '%s' to '%s'.", e.From, e.To)
	case ThingMachine:
		return fmt.Sprintf("Invalid thing state transition. Current status: %s, New status: %s", e.From, e.To)
	default:
		return fmt.Sprintf("Invalid %s state transition. Current status: %s, New status: %s", e.Machine, e.From, e.To)
	}
}

// Is makes errors.Is(err, ErrInvalidTransition) match any InvalidTransitionError.
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

var kindsBySentinel = []struct {
	sentinel error
	kind     ErrorKind
}{
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrUnknownStatus, KindInvalidTransition},
	{ErrCurrencyMismatch, KindCurrencyMismatch},
	{ErrUnknownCurrency, KindCurrencyMismatch},
	{ErrMalformedID, KindMalformedIdentity},
	{ErrBorrowerNotInGoodStanding, KindEligibility},
	{ErrRequesterIsOwner, KindEligibility},
	{ErrNotOwner, KindEligibility},
	{ErrBorrowRequestCooldown, KindEligibility},
	{ErrOnlyBorrowRequestAllowed, KindEligibility},
	{ErrThingNotReadyToBorrow, KindPrecondition},
	{ErrNoPendingBorrowRequest, KindPrecondition},
	{ErrReturnNotStarted, KindPrecondition},
	{ErrReservationAlreadyActive, KindPrecondition},
	{ErrNoBorrowerWaiting, KindPrecondition},
	{ErrNoOwnerForThing, KindPrecondition},
	{ErrNoActiveReservation, KindPrecondition},
	{ErrUnknownWaitingListType, KindPrecondition},
	{ErrInvalidLibraryConfiguration, KindPrecondition},
	{ErrMissingCoordinates, KindPrecondition},
	{ErrUnsupportedLocation, KindPrecondition},
	{ErrNegativeDistance, KindPrecondition},
	{ErrNotDollars, KindPrecondition},
}

// KindOf classifies err by the first domain sentinel found in its chain.
// Errors from outside this package are KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	for _, entry := range kindsBySentinel {
		if errors.Is(err, entry.sentinel) {
			return entry.kind
		}
	}

	return KindUnknown
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
