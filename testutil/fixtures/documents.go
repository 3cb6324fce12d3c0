package fixtures

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-domain-go/lending"
	"github.com/AntonStoeckl/lending-domain-go/shell"
)

// ThingDocument renders thing as a stored thing document.
func ThingDocument(thing *lending.Thing) []byte {
	record := shell.ThingRecord{
		ID:          thing.ID.String(),
		Name:        thing.Title.Name,
		Status:      string(thing.Status()),
		Description: thing.Description,
		OfferedBy:   thing.OwnerID.String(),
	}

	if requester, ok := thing.RequestedToBorrowBy(); ok {
		record.RequestedToBorrowBy = requester.String()
	}

	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(record)
	if err != nil {
		panic(err)
	}

	return body
}

// PendingThing returns a thing owned by ownerID that requesterID asked to borrow.
func PendingThing(ownerID, requesterID lending.ID, name string) *lending.Thing {
	thing := Thing(ownerID, name)
	if err := thing.RequestBorrow(requesterID); err != nil {
		panic(err)
	}

	return thing
}
