package lending

import "time"

const (
	BorrowRequestedEventType             = "BorrowRequested"
	RequestingBorrowFailedEventType      = "RequestingBorrowFailed"
	BorrowRequestApprovedEventType       = "BorrowRequestApproved"
	BorrowRequestRejectedEventType       = "BorrowRequestRejected"
	DecidingBorrowRequestFailedEventType = "DecidingBorrowRequestFailed"
)

// BorrowRequested records a non-owner asking to borrow a thing.
type BorrowRequested struct {
	ThingID     string
	RequesterID string
	OwnerID     string
	OccurredAt  time.Time
}

func BuildBorrowRequested(thingID, requesterID, ownerID ID, occurredAt time.Time) BorrowRequested {
	return BorrowRequested{
		ThingID:     thingID.String(),
		RequesterID: requesterID.String(),
		OwnerID:     ownerID.String(),
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e BorrowRequested) IsEventType() string      { return BorrowRequestedEventType }
func (e BorrowRequested) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BorrowRequested) IsErrorEvent() bool       { return false }

// RequestingBorrowFailed records a rejected borrow request.
type RequestingBorrowFailed struct {
	ThingID     string
	RequesterID string
	FailureInfo string
	OccurredAt  time.Time
}

func BuildRequestingBorrowFailed(thingID, requesterID ID, failureInfo string, occurredAt time.Time) RequestingBorrowFailed {
	return RequestingBorrowFailed{
		ThingID:     thingID.String(),
		RequesterID: requesterID.String(),
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e RequestingBorrowFailed) IsEventType() string      { return RequestingBorrowFailedEventType }
func (e RequestingBorrowFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e RequestingBorrowFailed) IsErrorEvent() bool       { return true }

// BorrowRequestApproved records the owner lending the thing to the requester.
type BorrowRequestApproved struct {
	ThingID    string
	BorrowerID string
	OwnerID    string
	OccurredAt time.Time
}

func BuildBorrowRequestApproved(thingID, borrowerID, ownerID ID, occurredAt time.Time) BorrowRequestApproved {
	return BorrowRequestApproved{
		ThingID:    thingID.String(),
		BorrowerID: borrowerID.String(),
		OwnerID:    ownerID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BorrowRequestApproved) IsEventType() string      { return BorrowRequestApprovedEventType }
func (e BorrowRequestApproved) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BorrowRequestApproved) IsErrorEvent() bool       { return false }

// BorrowRequestRejected records the owner declining a request.
type BorrowRequestRejected struct {
	ThingID     string
	RequesterID string
	OwnerID     string
	OccurredAt  time.Time
}

func BuildBorrowRequestRejected(thingID, requesterID, ownerID ID, occurredAt time.Time) BorrowRequestRejected {
	return BorrowRequestRejected{
		ThingID:     thingID.String(),
		RequesterID: requesterID.String(),
		OwnerID:     ownerID.String(),
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e BorrowRequestRejected) IsEventType() string      { return BorrowRequestRejectedEventType }
func (e BorrowRequestRejected) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BorrowRequestRejected) IsErrorEvent() bool       { return false }

// DecidingBorrowRequestFailed records a rejected approve or reject attempt.
type DecidingBorrowRequestFailed struct {
	ThingID     string
	ActorID     string
	FailureInfo string
	OccurredAt  time.Time
}

func BuildDecidingBorrowRequestFailed(thingID, actorID ID, failureInfo string, occurredAt time.Time) DecidingBorrowRequestFailed {
	return DecidingBorrowRequestFailed{
		ThingID:     thingID.String(),
		ActorID:     actorID.String(),
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e DecidingBorrowRequestFailed) IsEventType() string {
	return DecidingBorrowRequestFailedEventType
}
func (e DecidingBorrowRequestFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e DecidingBorrowRequestFailed) IsErrorEvent() bool       { return true }
