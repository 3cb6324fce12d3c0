package lending

import "fmt"

// ThingStatus is the availability of a thing.
type ThingStatus string

const (
	ThingReady                    ThingStatus = "READY"
	ThingWaitingForLenderApproval ThingStatus = "WAITING_FOR_LENDER_APPROVAL_TO_BORROW"
	ThingReserved                 ThingStatus = "RESERVED"
	ThingBorrowed                 ThingStatus = "BORROWED"
	ThingDamaged                  ThingStatus = "DAMAGED"
)

// ThingTransitions is the thing availability state machine. DAMAGED is terminal.
var ThingTransitions = TransitionTable[ThingStatus]{
	ThingReady:                    {ThingBorrowed, ThingReserved, ThingWaitingForLenderApproval},
	ThingBorrowed:                 {ThingReady, ThingReserved, ThingDamaged},
	ThingReserved:                 {ThingReady, ThingBorrowed},
	ThingWaitingForLenderApproval: {ThingReady, ThingBorrowed},
	ThingDamaged:                  {},
}

// ParseThingStatus validates a stored status name.
func ParseThingStatus(s string) (ThingStatus, error) {
	status := ThingStatus(s)
	if !ThingTransitions.Knows(status) {
		return "", fmt.Errorf("%w: thing status %q", ErrUnknownStatus, s)
	}

	return status, nil
}

// ThingParams carries the descriptive fields of a thing.
type ThingParams struct {
	ID              ID
	Title           ThingTitle
	Description     string
	OwnerID         ID
	StorageLocation Location
	ImageURLs       []string
	PurchaseCost    *Money
}

// Thing is a shareable physical item owned by one person or library.
//
// Invariants:
//   - status only changes along ThingTransitions
//   - requestedToBorrowBy is set only while a borrow request is pending
type Thing struct {
	ID              ID
	Title           ThingTitle
	Description     string
	OwnerID         ID
	StorageLocation Location
	ImageURLs       []string
	PurchaseCost    *Money

	status              ThingStatus
	requestedToBorrowBy ID
}

// NewThing creates a READY thing.
func NewThing(params ThingParams) *Thing {
	return &Thing{
		ID:              params.ID,
		Title:           params.Title,
		Description:     params.Description,
		OwnerID:         params.OwnerID,
		StorageLocation: params.StorageLocation,
		ImageURLs:       params.ImageURLs,
		PurchaseCost:    params.PurchaseCost,
		status:          ThingReady,
	}
}

// RestoreThing rebuilds a thing from stored state without replaying transitions.
// requestedToBorrowBy may be the zero ID. It is ignored unless the thing waits for lender approval.
func RestoreThing(params ThingParams, status ThingStatus, requestedToBorrowBy ID) (*Thing, error) {
	if !ThingTransitions.Knows(status) {
		return nil, fmt.Errorf("%w: thing status %q", ErrUnknownStatus, status)
	}

	thing := NewThing(params)
	thing.status = status
	if status == ThingWaitingForLenderApproval {
		thing.requestedToBorrowBy = requestedToBorrowBy
	}

	return thing, nil
}

// EntityID implements Entity.
func (t *Thing) EntityID() ID {
	return t.ID
}

func (t *Thing) Status() ThingStatus {
	return t.status
}

// RequestedToBorrowBy returns the pending requester, if any.
func (t *Thing) RequestedToBorrowBy() (ID, bool) {
	return t.requestedToBorrowBy, !t.requestedToBorrowBy.IsZero()
}

// IsOwnedBy reports whether userID owns the thing.
func (t *Thing) IsOwnedBy(userID ID) bool {
	return t.OwnerID.Equal(userID)
}

// SetStatus moves the thing to status along the table. Writing the current status is a no-op.
// Leaving WAITING_FOR_LENDER_APPROVAL_TO_BORROW forgets the requester.
func (t *Thing) SetStatus(status ThingStatus) error {
	if status == t.status {
		return nil
	}

	next, err := Transition(ThingMachine, ThingTransitions, t.status, status)
	if err != nil {
		return err
	}
	t.status = next

	if next != ThingWaitingForLenderApproval {
		t.requestedToBorrowBy = ID{}
	}

	return nil
}

// RequestBorrow records a borrow request from a non-owner while the thing is READY.
func (t *Thing) RequestBorrow(requesterID ID) error {
	if t.IsOwnedBy(requesterID) {
		return ErrRequesterIsOwner
	}

	if t.status != ThingReady {
		return fmt.Errorf("%w: status is %s", ErrThingNotReadyToBorrow, t.status)
	}

	if err := t.SetStatus(ThingWaitingForLenderApproval); err != nil {
		return err
	}
	t.requestedToBorrowBy = requesterID

	return nil
}

// ApproveBorrowRequest lends the thing to the pending requester.
func (t *Thing) ApproveBorrowRequest() error {
	if t.status != ThingWaitingForLenderApproval {
		return fmt.Errorf("%w: status is %s", ErrNoPendingBorrowRequest, t.status)
	}

	return t.SetStatus(ThingBorrowed)
}

// RejectBorrowRequest makes the thing READY again and forgets the requester.
func (t *Thing) RejectBorrowRequest() error {
	if t.status != ThingWaitingForLenderApproval {
		return fmt.Errorf("%w: status is %s", ErrNoPendingBorrowRequest, t.status)
	}

	return t.SetStatus(ThingReady)
}

func (t *Thing) Reserve() error {
	return t.SetStatus(ThingReserved)
}

func (t *Thing) MarkReady() error {
	return t.SetStatus(ThingReady)
}

func (t *Thing) MarkDamaged() error {
	return t.SetStatus(ThingDamaged)
}

func (t *Thing) MarkBorrowed() error {
	return t.SetStatus(ThingBorrowed)
}

// ApplyStatusUpdate applies a status change requested by actorID the way a document write would.
//
// A non-owner may only ask for WAITING_FOR_LENDER_APPROVAL_TO_BORROW, which files a borrow request.
// An owner answering a pending request rejects (READY), approves (BORROWED) or reserves (RESERVED).
// Any other owner write is a plain table-checked status change.
func ApplyStatusUpdate(thing *Thing, actorID ID, requested ThingStatus) error {
	if !thing.IsOwnedBy(actorID) {
		if requested != ThingWaitingForLenderApproval {
			return ErrOnlyBorrowRequestAllowed
		}

		return thing.RequestBorrow(actorID)
	}

	if thing.Status() == ThingWaitingForLenderApproval {
		switch requested {
		case ThingReady:
			return thing.RejectBorrowRequest()
		case ThingBorrowed:
			return thing.ApproveBorrowRequest()
		case ThingReserved:
			return thing.Reserve()
		}
	}

	return thing.SetStatus(requested)
}
