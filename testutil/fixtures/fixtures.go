// Package fixtures builds domain objects for tests.
package fixtures

import (
	"time"

	"github.com/AntonStoeckl/lending-domain-go/lending"
)

// FixedNow is the reference instant used by tests: a Wednesday noon, UTC.
var FixedNow = time.Date(2025, time.March, 12, 12, 0, 0, 0, time.UTC)

// Clock is an adjustable clock for libraries and loans.
type Clock struct {
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// AdvanceDays moves the clock forward by whole days.
func (c *Clock) AdvanceDays(days int) {
	c.now = c.now.AddDate(0, 0, days)
}

// Home returns a physical location with coordinates.
func Home(street string, latitude, longitude float64) lending.PhysicalLocation {
	return lending.NewPhysicalLocation(latitude, longitude, lending.PostalAddress{
		Street:  street,
		City:    "Springfield",
		State:   "IL",
		ZipCode: "62701",
		Country: "US",
	})
}

// Person returns a person with one email address.
func Person(first, last string) lending.Person {
	return lending.Person{
		ID:     lending.NewID(),
		Name:   lending.PersonName{First: first, Last: last},
		Emails: []lending.EmailAddress{lending.EmailAddress(first + "@example.org")},
	}
}

// Thing returns a READY thing owned by ownerID.
func Thing(ownerID lending.ID, name string) *lending.Thing {
	return lending.NewThing(lending.ThingParams{
		ID:              lending.NewID(),
		Title:           lending.ThingTitle{Name: name},
		OwnerID:         ownerID,
		StorageLocation: Home("1 Shed Lane", 39.78, -89.65),
	})
}

// Borrower returns a member of libraryID without fees.
func Borrower(libraryID lending.ID, first string) *lending.PersonBorrower {
	return lending.NewPersonBorrower(Person(first, "Borrower"), libraryID, lending.VerifiedEmail)
}

// Lender returns a person lending the given things from home.
func Lender(first string, home lending.Location, items ...*lending.Thing) *lending.PersonLender {
	return lending.NewPersonLender(Person(first, "Lender"), home, items...)
}

// Dollars is a USD amount.
func Dollars(amount string) lending.Money {
	return lending.MustMoney(amount, lending.USD)
}

// LibraryConfig returns a valid first-come-first-serve configuration charging
// one dollar per late day and 25 dollars for damage. Options adjust it.
func LibraryConfig(opts ...func(*lending.LibraryConfig)) lending.LibraryConfig {
	damage := Dollars("25")

	config := lending.LibraryConfig{
		ID:                       lending.NewID(),
		Name:                     "Springfield Tool Library",
		WaitingListType:          lending.WaitingListFirstComeFirstServe,
		MaxFinesBeforeSuspension: Dollars("100"),
		FeeSchedule:              lending.PerDayFeeSchedule{DailyCharge: Dollars("1"), DamageCharge: &damage},
		DefaultLoanDays:          14,
		MOPServer:                lending.LocalMOPServer(),
	}

	for _, opt := range opts {
		opt(&config)
	}

	return config
}
