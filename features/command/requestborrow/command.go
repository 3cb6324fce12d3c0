package requestborrow

import (
	"time"

	"github.com/AntonStoeckl/lending-domain-go/lending"
)

// Command represents the intent of a member to borrow a thing.
type Command struct {
	ThingID     lending.ID
	RequesterID lending.ID
	OccurredAt  time.Time
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return "RequestBorrow"
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(thingID, requesterID lending.ID, occurredAt time.Time) Command {
	return Command{
		ThingID:     thingID,
		RequesterID: requesterID,
		OccurredAt:  lending.ToOccurredAt(occurredAt),
	}
}
