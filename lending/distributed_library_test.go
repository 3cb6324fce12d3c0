package lending_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-domain-go/lending"
	"github.com/AntonStoeckl/lending-domain-go/testutil/fixtures"
)

type distributedSetup struct {
	library *lending.DistributedLibrary
	clock   *fixtures.Clock
	anna    *lending.PersonLender
	ben     *lending.PersonLender
	drill   *lending.Thing
	tent    *lending.Thing
}

func Test_DistributedLibrary_FinishBorrow_UsesOwnersReturnLocation(t *testing.T) {
	// arrange
	s := givenDistributedLibrary(t)
	borrower := fixtures.Borrower(s.library.EntityID(), "Cleo")

	// act
	drillLoan, err := s.library.FinishBorrow(s.drill, borrower, nil)
	require.NoError(t, err)
	tentLoan, err := s.library.FinishBorrow(s.tent, borrower, nil)
	require.NoError(t, err)

	// assert
	assert.Equal(t, s.anna.Home, drillLoan.ReturnLocation)
	assert.Equal(t, s.ben.Home, tentLoan.ReturnLocation)
	assert.True(t, drillLoan.LenderID().Equal(s.anna.EntityID()))
}

func Test_DistributedLibrary_Fails_WhenNoLenderOwnsTheItem(t *testing.T) {
	// arrange
	s := givenDistributedLibrary(t)
	stray := fixtures.Thing(lending.NewID(), "Canoe")

	// act
	_, startErr := s.library.StartBorrow(stray, fixtures.Borrower(s.library.EntityID(), "Cleo"))
	_, finishErr := s.library.FinishBorrow(stray, fixtures.Borrower(s.library.EntityID(), "Cleo"), nil)

	// assert
	assert.ErrorIs(t, startErr, lending.ErrNoOwnerForThing)
	assert.ErrorContains(t, startErr, "Cannot find an owner for Canoe")
	assert.ErrorIs(t, finishErr, lending.ErrNoOwnerForThing)
	assert.Equal(t, lending.ThingReady, stray.Status())
}

func Test_DistributedLibrary_FindsItemsAddedAfterRegistration(t *testing.T) {
	// arrange
	s := givenDistributedLibrary(t)
	canoe := fixtures.Thing(s.ben.EntityID(), "Canoe")
	s.ben.AddItem(canoe)

	// act
	owner, err := s.library.OwnerOf(canoe)

	// assert
	require.NoError(t, err)
	assert.True(t, lending.SameEntity(s.ben, owner))
	assert.Len(t, s.library.AllThings(), 3)
}

func Test_DistributedLibrary_ReturnCycle(t *testing.T) {
	// arrange
	s := givenDistributedLibrary(t)
	borrower := fixtures.Borrower(s.library.EntityID(), "Cleo")
	_, err := s.library.StartBorrow(s.tent, borrower)
	require.NoError(t, err)
	loan, err := s.library.FinishBorrow(s.tent, borrower, nil)
	require.NoError(t, err)
	s.clock.AdvanceDays(15)

	// act
	_, err = s.library.StartReturn(loan)
	require.NoError(t, err)
	waiting := loan.StoredStatus()
	_, err = s.library.FinishLibraryReturn(loan, borrower)
	require.NoError(t, err)

	// assert
	assert.Equal(t, lending.LoanWaitingOnLenderAcceptance, waiting)
	assert.Equal(t, lending.LoanOverdue, loan.StoredStatus())
	require.Len(t, borrower.Fees(), 1)
	assert.True(t, borrower.Fees()[0].Amount.Equal(fixtures.Dollars("1")))
	assert.Equal(t, lending.ThingReady, s.tent.Status())
	assert.Len(t, s.library.AvailableThings(), 2)
}

func Test_DistributedLibrary_AddLender_IgnoresDuplicates(t *testing.T) {
	s := givenDistributedLibrary(t)

	s.library.AddLender(s.anna)

	assert.Len(t, s.library.Lenders(), 2)
	assert.Equal(t, []lending.ThingTitle{{Name: "Drill"}, {Name: "Tent"}}, s.library.AllTitles())
}

func givenDistributedLibrary(t *testing.T) distributedSetup {
	t.Helper()

	clock := fixtures.NewClock(fixtures.FixedNow)
	library, err := lending.NewDistributedLibrary(fixtures.LibraryConfig(), lending.WithClock(clock.Now))
	require.NoError(t, err)

	annaHome := fixtures.Home("7 Elm St", 39.78, -89.65)
	benHome := fixtures.Home("9 Oak Ave", 39.79, -89.66)

	anna := fixtures.Lender("Anna", annaHome)
	drill := fixtures.Thing(anna.EntityID(), "Drill")
	anna.AddItem(drill)

	ben := fixtures.Lender("Ben", benHome)
	tent := fixtures.Thing(ben.EntityID(), "Tent")
	ben.AddItem(tent)

	library.AddLender(anna)
	library.AddLender(ben)

	return distributedSetup{library: library, clock: clock, anna: anna, ben: ben, drill: drill, tent: tent}
}
