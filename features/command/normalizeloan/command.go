package normalizeloan

import (
	"time"

	"github.com/AntonStoeckl/lending-domain-go/lending"
	"github.com/AntonStoeckl/lending-domain-go/shell"
)

// Command represents a write of a loan record.
//
// Previous is the record the writer last read. When nil, the stored record is used,
// and a loan without a stored record is created.
type Command struct {
	Previous   *shell.LoanRecord
	Desired    shell.LoanRecord
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return "NormalizeLoan"
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(previous *shell.LoanRecord, desired shell.LoanRecord, occurredAt time.Time) Command {
	return Command{
		Previous:   previous,
		Desired:    desired,
		OccurredAt: lending.ToOccurredAt(occurredAt),
	}
}
