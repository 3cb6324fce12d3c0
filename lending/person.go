package lending

import "strings"

// EmailAddress is a contact address for a person.
type EmailAddress string

// PersonName is a structured personal name.
type PersonName struct {
	Salutation string
	First      string
	Middle     string
	Last       string
	Suffix     string
}

// Display joins the non-empty parts of the name.
func (n PersonName) Display() string {
	parts := make([]string, 0, 5)
	for _, part := range []string{n.Salutation, n.First, n.Middle, n.Last, n.Suffix} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, " ")
}

// Person is an individual member of a community.
type Person struct {
	ID     ID
	Name   PersonName
	Emails []EmailAddress
}

// EntityID implements Entity.
func (p Person) EntityID() ID {
	return p.ID
}

// PreferredEmail is the first email address, or "" when none is known.
func (p Person) PreferredEmail() EmailAddress {
	if len(p.Emails) == 0 {
		return ""
	}

	return p.Emails[0]
}
