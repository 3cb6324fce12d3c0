package lending

import (
	"fmt"

	"github.com/google/uuid"
)

// ID is a validated UUID identifier. Two IDs are equal iff their underlying strings match.
// The zero ID is not a valid identifier and is used to signal "absent".
type ID struct {
	value string
}

// NewID generates a fresh random identifier.
func NewID() ID {
	return IDFromUUID(uuid.New())
}

// ParseID validates s as a UUID and wraps it, keeping the original spelling.
func ParseID(s string) (ID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return ID{}, fmt.Errorf("%w: %q: %v", ErrMalformedID, s, err)
	}

	return ID{value: s}, nil
}

// MustParseID is like ParseID but panics on malformed input. Intended for constants and tests.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}

	return id
}

// IDFromUUID wraps an already parsed UUID.
func IDFromUUID(u uuid.UUID) ID {
	return ID{value: u.String()}
}

func (id ID) String() string {
	return id.value
}

// Equal compares the underlying strings.
func (id ID) Equal(other ID) bool {
	return id.value == other.value
}

// IsZero reports whether id is the absent identifier.
func (id ID) IsZero() bool {
	return id.value == ""
}

// Entity is implemented by every domain object with a stable identity.
type Entity interface {
	EntityID() ID
}

// SameEntity reports whether a and b carry the same identity. Nil entities are never the same.
func SameEntity(a, b Entity) bool {
	if a == nil || b == nil {
		return false
	}

	return a.EntityID().Equal(b.EntityID())
}
