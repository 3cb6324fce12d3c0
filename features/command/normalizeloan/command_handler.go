package normalizeloan

import (
	"bytes"
	"context"
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-domain-go/lending"
	"github.com/AntonStoeckl/lending-domain-go/shell"
)

var recordJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Store defines the document store operations needed by the CommandHandler.
type Store interface {
	LoadThing(ctx context.Context, id string) (shell.Document, error)
	LoadLoan(ctx context.Context, id string) (shell.Document, error)
	SaveLoan(ctx context.Context, id string, body []byte, expectedVersion uint64) (shell.Document, error)
	Append(ctx context.Context, events ...shell.StorableEvent) error
}

// CommandHandler orchestrates the loan write workflow: Load -> Map -> Decide -> Save -> Append.
type CommandHandler struct {
	store        Store
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions replaces the default retry policy used on version conflicts.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler returns a handler working against store.
func NewCommandHandler(store Store, opts ...Option) CommandHandler {
	handler := CommandHandler{store: store}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the loan write workflow. It implements shell.CoreCommandHandler.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	_, result, err := h.Normalize(ctx, command)

	return result, err
}

// Normalize executes the loan write workflow and returns the record as stored.
// An idempotent write returns the stored record unchanged.
func (h CommandHandler) Normalize(ctx context.Context, command Command) (shell.LoanRecord, shell.HandlerResult, error) {
	var isIdempotent bool
	var normalized shell.LoanRecord

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		record, idempotent, execErr := h.executeCommand(retryCtx, command)
		normalized, isIdempotent = record, idempotent

		return execErr
	}, h.retryOptions...)

	if isIdempotent {
		return normalized, shell.NewIdempotentResult(retryMetrics), err
	}

	if err != nil {
		return shell.LoanRecord{}, shell.NewErrorResult(retryMetrics), err
	}

	return normalized, shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (shell.LoanRecord, bool, error) {
	desired := command.Desired

	item, err := h.loadItem(ctx, desired.Item)
	if err != nil {
		return shell.LoanRecord{}, false, err
	}

	previous, version, err := h.loadPrevious(ctx, command)
	if err != nil {
		return shell.LoanRecord{}, false, err
	}

	atPrevious := desired
	atPrevious.Status = string(lending.LoanReturned)
	if previous != nil {
		atPrevious.Status = previous.LoanStatusOrDefault()
	}

	loan, err := shell.LoanFromRecord(atPrevious, item)
	if err != nil {
		return shell.LoanRecord{}, false, err
	}

	unchanged, err := sameRecord(previous, desired)
	if err != nil {
		return shell.LoanRecord{}, false, err
	}

	result := Decide(State{Loan: loan, Created: previous == nil, Unchanged: unchanged}, desired.Status, command)

	if !result.HasEventToAppend() {
		return *previous, true, nil
	}

	storableEvent, err := shell.StorableEventFrom(result.Event, shell.NewCommandMetadata())
	if err != nil {
		return shell.LoanRecord{}, false, err
	}

	var normalized shell.LoanRecord

	if result.HasError() == nil {
		normalized = shell.LoanRecordFrom(loan, command.OccurredAt)

		body, marshalErr := recordJSON.Marshal(normalized)
		if marshalErr != nil {
			return shell.LoanRecord{}, false, errors.Join(shell.ErrMappingRecordFailed, marshalErr)
		}

		if _, err = h.store.SaveLoan(ctx, normalized.LoanID, body, version); err != nil {
			return shell.LoanRecord{}, false, err
		}
	}

	if err = h.store.Append(ctx, storableEvent); err != nil {
		return shell.LoanRecord{}, false, err
	}

	return normalized, false, result.HasError()
}

func (h CommandHandler) loadItem(ctx context.Context, itemID string) (*lending.Thing, error) {
	if itemID == "" {
		return nil, nil
	}

	doc, err := h.store.LoadThing(ctx, itemID)
	if err != nil {
		return nil, err
	}

	return shell.ThingFromDocument(doc.Body)
}

// loadPrevious returns the record the write starts from and the stored version to save against.
func (h CommandHandler) loadPrevious(ctx context.Context, command Command) (*shell.LoanRecord, uint64, error) {
	doc, err := h.store.LoadLoan(ctx, command.Desired.LoanID)
	if errors.Is(err, shell.ErrNotFound) {
		return command.Previous, 0, nil
	}

	if err != nil {
		return nil, 0, err
	}

	if command.Previous != nil {
		return command.Previous, doc.Version, nil
	}

	var stored shell.LoanRecord
	if err = recordJSON.Unmarshal(doc.Body, &stored); err != nil {
		return nil, 0, errors.Join(shell.ErrMappingRecordFailed, err)
	}

	return &stored, doc.Version, nil
}

func sameRecord(previous *shell.LoanRecord, desired shell.LoanRecord) (bool, error) {
	if previous == nil {
		return false, nil
	}

	a, err := recordJSON.Marshal(previous)
	if err != nil {
		return false, errors.Join(shell.ErrMappingRecordFailed, err)
	}

	b, err := recordJSON.Marshal(desired)
	if err != nil {
		return false, errors.Join(shell.ErrMappingRecordFailed, err)
	}

	return bytes.Equal(a, b), nil
}
