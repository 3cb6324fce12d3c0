package requestborrow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/AntonStoeckl/lending-domain-go/features/command/requestborrow"
	"github.com/AntonStoeckl/lending-domain-go/lending"
	"github.com/AntonStoeckl/lending-domain-go/shell"
	"github.com/AntonStoeckl/lending-domain-go/shell/memstore"
	"github.com/AntonStoeckl/lending-domain-go/testutil/fixtures"
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memstore.NewStore()
	thing := givenStoredThing(store)
	requesterID := lending.NewID()
	handler := requestborrow.NewCommandHandler(store)

	// act
	result, err := handler.Handle(ctx, requestborrow.BuildCommand(thing.ID, requesterID, fixtures.FixedNow))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, 1, result.RetryAttempts)
	assertStoredThing(t, store, thing.ID, lending.ThingWaitingForLenderApproval, requesterID)
	assert.Equal(t, []string{lending.BorrowRequestedEventType}, store.EventTypes())

	requestedAt, ok, err := store.LastBorrowRequest(ctx, thing.ID.String(), requesterID.String())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, requestedAt.Equal(fixtures.FixedNow))
}

func Test_CommandHandler_Handle_Idempotent_WhenRequestedTwice(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memstore.NewStore()
	thing := givenStoredThing(store)
	requesterID := lending.NewID()
	handler := requestborrow.NewCommandHandler(store)
	_, err := handler.Handle(ctx, requestborrow.BuildCommand(thing.ID, requesterID, fixtures.FixedNow))
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, requestborrow.BuildCommand(thing.ID, requesterID, fixtures.FixedNow.Add(time.Minute)))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Len(t, store.EventTypes(), 1)
}

func Test_CommandHandler_Handle_Idempotent_RecordsRequestMissingAfterFailedWrite(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := &recordFailingStore{Store: memstore.NewStore(), failures: 1}
	thing := givenStoredThing(store.Store)
	requesterID := lending.NewID()
	handler := requestborrow.NewCommandHandler(store)
	_, firstErr := handler.Handle(ctx, requestborrow.BuildCommand(thing.ID, requesterID, fixtures.FixedNow))
	_, recordedAfterFailure, err := store.LastBorrowRequest(ctx, thing.ID.String(), requesterID.String())
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, requestborrow.BuildCommand(thing.ID, requesterID, fixtures.FixedNow.Add(time.Minute)))

	// assert
	require.ErrorIs(t, firstErr, errRecordWriteFailed)
	assert.False(t, recordedAfterFailure)
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	requestedAt, ok, err := store.LastBorrowRequest(ctx, thing.ID.String(), requesterID.String())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, requestedAt.Equal(fixtures.FixedNow.Add(time.Minute)))
}

func Test_CommandHandler_Handle_Error_WhenCooldownNotOver(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memstore.NewStore()
	thing := givenStoredThing(store)
	requesterID := lending.NewID()
	require.NoError(t, store.RecordBorrowRequest(ctx, shell.BorrowRequestRecord{
		ItemID:      thing.ID.String(),
		RequestedBy: requesterID.String(),
		RequestedAt: fixtures.FixedNow.Add(-10 * time.Minute),
	}))
	handler := requestborrow.NewCommandHandler(store, requestborrow.WithCooldown(30*time.Minute))

	// act
	result, err := handler.Handle(ctx, requestborrow.BuildCommand(thing.ID, requesterID, fixtures.FixedNow))

	// assert
	assert.ErrorIs(t, err, lending.ErrBorrowRequestCooldown)
	assert.Equal(t, lending.KindEligibility, lending.KindOf(err))
	assert.False(t, result.Idempotent)
	assertStoredThing(t, store, thing.ID, lending.ThingReady, lending.ID{})
	assert.Equal(t, []string{lending.RequestingBorrowFailedEventType}, store.EventTypes())
}

func Test_CommandHandler_Handle_Error_WhenThingIsUnknown(t *testing.T) {
	// arrange
	store := memstore.NewStore()
	handler := requestborrow.NewCommandHandler(store)

	// act
	_, err := handler.Handle(context.Background(), requestborrow.BuildCommand(lending.NewID(), lending.NewID(), fixtures.FixedNow))

	// assert
	assert.ErrorIs(t, err, shell.ErrNotFound)
	assert.Empty(t, store.EventTypes())
}

func Test_CommandHandler_Handle_Error_WhenRateLimiterRejects(t *testing.T) {
	// arrange
	store := memstore.NewStore()
	thing := givenStoredThing(store)
	handler := requestborrow.NewCommandHandler(store, requestborrow.WithRateLimiter(rate.NewLimiter(rate.Limit(1), 0)))

	// act
	_, err := handler.Handle(context.Background(), requestborrow.BuildCommand(thing.ID, lending.NewID(), fixtures.FixedNow))

	// assert
	assert.Error(t, err)
	assert.Empty(t, store.EventTypes())
}

func Test_CommandHandler_Handle_OnlyOneOfConcurrentRequestsWins(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memstore.NewStore()
	thing := givenStoredThing(store)
	handler := requestborrow.NewCommandHandler(store, requestborrow.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)))
	errs := make(chan error, 2)

	// act
	for range 2 {
		go func() {
			_, err := handler.Handle(ctx, requestborrow.BuildCommand(thing.ID, lending.NewID(), fixtures.FixedNow))
			errs <- err
		}()
	}

	// assert
	var failures int
	for range 2 {
		if err := <-errs; err != nil {
			assert.ErrorIs(t, err, lending.ErrThingNotReadyToBorrow)
			failures++
		}
	}
	assert.Equal(t, 1, failures)
	assert.ElementsMatch(t,
		[]string{lending.BorrowRequestedEventType, lending.RequestingBorrowFailedEventType},
		store.EventTypes(),
	)
}

func givenStoredThing(store *memstore.Store) *lending.Thing {
	thing := fixtures.Thing(lending.NewID(), "Kayak")
	store.PutThing(thing.ID.String(), fixtures.ThingDocument(thing))

	return thing
}

func assertStoredThing(t *testing.T, store *memstore.Store, thingID lending.ID, status lending.ThingStatus, requesterID lending.ID) {
	t.Helper()

	doc, err := store.LoadThing(context.Background(), thingID.String())
	require.NoError(t, err)
	stored, err := shell.ThingFromDocument(doc.Body)
	require.NoError(t, err)
	assert.Equal(t, status, stored.Status())
	requestedBy, _ := stored.RequestedToBorrowBy()
	assert.True(t, requestedBy.Equal(requesterID))
}

var errRecordWriteFailed = errors.New("record write failed")

type recordFailingStore struct {
	*memstore.Store
	failures int
}

func (s *recordFailingStore) RecordBorrowRequest(ctx context.Context, record shell.BorrowRequestRecord) error {
	if s.failures > 0 {
		s.failures--
		return errRecordWriteFailed
	}

	return s.Store.RecordBorrowRequest(ctx, record)
}
