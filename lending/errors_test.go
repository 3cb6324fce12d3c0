package lending_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/lending-domain-go/lending"
)

func Test_KindOf(t *testing.T) {
	testCases := []struct {
		err      error
		expected lending.ErrorKind
	}{
		{nil, lending.KindUnknown},
		{errors.New("disk full"), lending.KindUnknown},
		{fmt.Errorf("wrapped: %w", lending.ErrThingNotReadyToBorrow), lending.KindPrecondition},
		{lending.ErrBorrowerNotInGoodStanding, lending.KindEligibility},
		{lending.ErrCurrencyMismatch, lending.KindCurrencyMismatch},
		{fmt.Errorf("%w: x", lending.ErrMalformedID), lending.KindMalformedIdentity},
		{&lending.InvalidTransitionError{Machine: lending.LoanMachine, From: "A", To: "B"}, lending.KindInvalidTransition},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, lending.KindOf(tc.err), "%v", tc.err)
	}
}

func Test_InvalidTransitionError_Messages(t *testing.T) {
	thing := &lending.InvalidTransitionError{Machine: lending.ThingMachine, From: "DAMAGED", To: "READY"}
	loan := &lending.InvalidTransitionError{Machine: lending.LoanMachine, From: "RETURNED", To: "OVERDUE"}

	assert.Equal(t, "Invalid thing state transition. Current status: DAMAGED, New status: READY", thing.Error())
	assert.Equal(t, "Cannot change loan status from 'RETURNED' to 'OVERDUE'.", loan.Error())
	assert.True(t, lending.IsKind(loan, lending.KindInvalidTransition))
}

func Test_ParseID(t *testing.T) {
	id := lending.NewID()

	parsed, err := lending.ParseID(id.String())
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(id))

	_, err = lending.ParseID("not-a-uuid")
	assert.ErrorIs(t, err, lending.ErrMalformedID)
	assert.True(t, lending.ID{}.IsZero())
}

func Test_IDFromUUID(t *testing.T) {
	u := uuid.New()

	id := lending.IDFromUUID(u)

	assert.Equal(t, u.String(), id.String())
	assert.True(t, id.Equal(lending.MustParseID(u.String())))
	assert.False(t, id.IsZero())
}
