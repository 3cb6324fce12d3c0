package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/AntonStoeckl/lending-domain-go/shell"
)

// Store is safe for concurrent use.
type Store struct {
	mu             sync.RWMutex
	things         map[string]shell.Document
	loans          map[string]shell.Document
	borrowRequests map[string]shell.BorrowRequestRecord
	events         []shell.StorableEvent
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		things:         make(map[string]shell.Document),
		loans:          make(map[string]shell.Document),
		borrowRequests: make(map[string]shell.BorrowRequestRecord),
	}
}

// PutThing stores a new thing document at version 1, replacing any existing one.
func (s *Store) PutThing(id string, body []byte) shell.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := shell.Document{ID: id, Body: slices.Clone(body), Version: 1}
	s.things[id] = doc

	return doc
}

// LoadThing returns the thing document with the given id.
func (s *Store) LoadThing(ctx context.Context, id string) (shell.Document, error) {
	return s.load(ctx, s.things, "thing", id)
}

// SaveThing replaces the thing document if it is still at expectedVersion.
func (s *Store) SaveThing(ctx context.Context, id string, body []byte, expectedVersion uint64) (shell.Document, error) {
	return s.save(ctx, s.things, "thing", id, body, expectedVersion)
}

// LoadLoan returns the loan document with the given id.
func (s *Store) LoadLoan(ctx context.Context, id string) (shell.Document, error) {
	return s.load(ctx, s.loans, "loan", id)
}

// SaveLoan writes a loan document. An expectedVersion of 0 creates the loan.
func (s *Store) SaveLoan(ctx context.Context, id string, body []byte, expectedVersion uint64) (shell.Document, error) {
	return s.save(ctx, s.loans, "loan", id, body, expectedVersion)
}

// LastBorrowRequest returns when userID last asked for itemID.
func (s *Store) LastBorrowRequest(ctx context.Context, itemID, userID string) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.borrowRequests[borrowRequestKey(itemID, userID)]

	return record.RequestedAt, ok, nil
}

// RecordBorrowRequest remembers a borrow request, replacing an older one from the same user for the same item.
func (s *Store) RecordBorrowRequest(ctx context.Context, record shell.BorrowRequestRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.borrowRequests[borrowRequestKey(record.ItemID, record.RequestedBy)] = record

	return nil
}

// Append adds storable events to the event log.
func (s *Store) Append(ctx context.Context, events ...shell.StorableEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, events...)

	return nil
}

// Events returns a copy of the event log in append order.
func (s *Store) Events() []shell.StorableEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.events)
}

// EventTypes returns the type of every appended event in append order.
func (s *Store) EventTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.events))
	for _, event := range s.events {
		types = append(types, event.EventType)
	}

	return types
}

func (s *Store) load(ctx context.Context, collection map[string]shell.Document, kind, id string) (shell.Document, error) {
	if err := ctx.Err(); err != nil {
		return shell.Document{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := collection[id]
	if !ok {
		return shell.Document{}, fmt.Errorf("%s %s: %w", kind, id, shell.ErrNotFound)
	}

	doc.Body = slices.Clone(doc.Body)

	return doc, nil
}

func (s *Store) save(
	ctx context.Context,
	collection map[string]shell.Document,
	kind, id string,
	body []byte,
	expectedVersion uint64,
) (shell.Document, error) {
	if err := ctx.Err(); err != nil {
		return shell.Document{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := collection[id]
	if current.Version != expectedVersion {
		return shell.Document{}, fmt.Errorf(
			"%s %s at version %d, expected %d: %w",
			kind, id, current.Version, expectedVersion, shell.ErrConcurrencyConflict,
		)
	}

	doc := shell.Document{ID: id, Body: slices.Clone(body), Version: current.Version + 1}
	collection[id] = doc

	return doc, nil
}

func borrowRequestKey(itemID, userID string) string {
	return itemID + "|" + userID
}
