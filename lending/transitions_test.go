package lending_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/AntonStoeckl/lending-domain-go/lending"
	"github.com/AntonStoeckl/lending-domain-go/testutil/fixtures"
)

func Test_ThingTransitions_MatchPublishedTable(t *testing.T) {
	expected := map[lending.ThingStatus][]lending.ThingStatus{
		lending.ThingReady:                    {lending.ThingBorrowed, lending.ThingReserved, lending.ThingWaitingForLenderApproval},
		lending.ThingBorrowed:                 {lending.ThingReady, lending.ThingReserved, lending.ThingDamaged},
		lending.ThingReserved:                 {lending.ThingReady, lending.ThingBorrowed},
		lending.ThingWaitingForLenderApproval: {lending.ThingReady, lending.ThingBorrowed},
		lending.ThingDamaged:                  {},
	}

	require.Len(t, lending.ThingTransitions, len(expected))
	for from, next := range expected {
		assert.ElementsMatch(t, next, lending.ThingTransitions.Next(from), "transitions from %s", from)
	}
}

func Test_LoanTransitions_MatchPublishedTable(t *testing.T) {
	expected := map[lending.LoanStatus][]lending.LoanStatus{
		lending.LoanReturned:                  {lending.LoanBorrowed},
		lending.LoanBorrowed:                  {lending.LoanReturnStarted, lending.LoanOverdue},
		lending.LoanOverdue:                   {lending.LoanReturnStarted},
		lending.LoanReturnStarted:             {lending.LoanWaitingOnLenderAcceptance, lending.LoanReturned, lending.LoanReturnedDamaged},
		lending.LoanWaitingOnLenderAcceptance: {lending.LoanReturned, lending.LoanReturnedDamaged, lending.LoanOverdue},
		lending.LoanReturnedDamaged:           {},
	}

	require.Len(t, lending.LoanTransitions, len(expected))
	for from, next := range expected {
		assert.ElementsMatch(t, next, lending.LoanTransitions.Next(from), "transitions from %s", from)
	}
}

func Test_ReservationTransitions_MatchPublishedTable(t *testing.T) {
	expected := map[lending.ReservationStatus][]lending.ReservationStatus{
		lending.ReservationAssigned:         {lending.ReservationBorrowerNotified},
		lending.ReservationBorrowerNotified: {lending.ReservationExpired, lending.ReservationBorrowed},
		lending.ReservationExpired:          {},
		lending.ReservationBorrowed:         {},
		lending.ReservationCancelled:        {},
	}

	require.Len(t, lending.ReservationTransitions, len(expected))
	for from, next := range expected {
		assert.ElementsMatch(t, next, lending.ReservationTransitions.Next(from), "transitions from %s", from)
	}
}

func Test_Transition_ReturnsTypedError_WhenPairIsNotInTable(t *testing.T) {
	// act
	status, err := lending.Transition(lending.LoanMachine, lending.LoanTransitions, lending.LoanReturnedDamaged, lending.LoanBorrowed)

	// assert
	require.Error(t, err)
	assert.Equal(t, lending.LoanReturnedDamaged, status)

	var transitionErr *lending.InvalidTransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, "RETURNED_DAMAGED", transitionErr.From)
	assert.Equal(t, "BORROWED", transitionErr.To)
	assert.ErrorIs(t, err, lending.ErrInvalidTransition)
}

func Test_Thing_SetStatus_FollowsTable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		states := lending.ThingTransitions.States()
		from := rapid.SampledFrom(states).Draw(rt, "from")
		to := rapid.SampledFrom(states).Draw(rt, "to")

		thing, err := lending.RestoreThing(lending.ThingParams{ID: lending.NewID(), OwnerID: lending.NewID()}, from, lending.ID{})
		require.NoError(rt, err)

		err = thing.SetStatus(to)

		switch {
		case from == to:
			assert.NoError(rt, err)
			assert.Equal(rt, from, thing.Status())
		case lending.ThingTransitions.Allows(from, to):
			assert.NoError(rt, err)
			assert.Equal(rt, to, thing.Status())
		default:
			assert.ErrorIs(rt, err, lending.ErrInvalidTransition)
			assert.Equal(rt, from, thing.Status())
		}
	})
}

func Test_Loan_SetStatus_FollowsTable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		states := lending.LoanTransitions.States()
		from := rapid.SampledFrom(states).Draw(rt, "from")
		to := rapid.SampledFrom(states).Draw(rt, "to")

		loan, err := lending.RestoreLoan(lending.LoanParams{
			ID:      lending.NewID(),
			DueDate: lending.DueInDays(fixtures.FixedNow, 7),
		}, from)
		require.NoError(rt, err)
		loan.WithClock(func() time.Time { return fixtures.FixedNow })

		err = loan.SetStatus(to)

		if lending.LoanTransitions.Allows(from, to) {
			assert.NoError(rt, err)
			assert.Equal(rt, to, loan.Status())
		} else {
			assert.ErrorIs(rt, err, lending.ErrInvalidTransition)
			assert.EqualError(rt, err, "Cannot change loan status from '"+string(from)+"' to '"+string(to)+"'.")
			assert.Equal(rt, from, loan.StoredStatus())
		}
	})
}

func Test_Reservation_SetStatus_FollowsTable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		states := lending.ReservationTransitions.States()
		from := rapid.SampledFrom(states).Draw(rt, "from")
		to := rapid.SampledFrom(states).Draw(rt, "to")

		reservation, err := lending.RestoreReservation(lending.NewID(), nil, nil, fixtures.FixedNow, from)
		require.NoError(rt, err)

		err = reservation.SetStatus(to)

		if lending.ReservationTransitions.Allows(from, to) {
			assert.NoError(rt, err)
			assert.Equal(rt, to, reservation.Status())
		} else {
			assert.ErrorIs(rt, err, lending.ErrInvalidTransition)
			assert.Equal(rt, from, reservation.Status())
		}
	})
}

func Test_RestoreThing_Fails_WhenStatusIsUnknown(t *testing.T) {
	// act
	_, err := lending.RestoreThing(lending.ThingParams{}, "LOST", lending.ID{})

	// assert
	assert.ErrorIs(t, err, lending.ErrUnknownStatus)
}
