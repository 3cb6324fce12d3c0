package requestborrow

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/AntonStoeckl/lending-domain-go/shell"
)

// Store defines the document store operations needed by the CommandHandler.
type Store interface {
	LoadThing(ctx context.Context, id string) (shell.Document, error)
	SaveThing(ctx context.Context, id string, body []byte, expectedVersion uint64) (shell.Document, error)
	LastBorrowRequest(ctx context.Context, itemID, userID string) (time.Time, bool, error)
	RecordBorrowRequest(ctx context.Context, record shell.BorrowRequestRecord) error
	Append(ctx context.Context, events ...shell.StorableEvent) error
}

// CommandHandler orchestrates the borrow request workflow: Load -> Map -> Decide -> Save -> Append.
type CommandHandler struct {
	store        Store
	cooldown     time.Duration
	limiter      *rate.Limiter
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

// WithCooldown sets how long a member has to wait before asking for the same thing again.
func WithCooldown(cooldown time.Duration) Option {
	return func(h *CommandHandler) {
		h.cooldown = cooldown
	}
}

// WithRateLimiter throttles borrow requests across all members.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(h *CommandHandler) {
		h.limiter = limiter
	}
}

// NewCommandHandler returns a handler working against store.
func NewCommandHandler(store Store, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:    store,
		cooldown: DefaultCooldown,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the borrow request workflow with retry on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return shell.NewErrorResult(shell.RetryMetrics{}), err
		}
	}

	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		idempotent, execErr := h.executeCommand(retryCtx, command)
		isIdempotent = idempotent

		return execErr
	}, h.retryOptions...)

	if isIdempotent {
		return shell.NewIdempotentResult(retryMetrics), err
	}

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	thingID, requesterID := command.ThingID.String(), command.RequesterID.String()

	doc, err := h.store.LoadThing(ctx, thingID)
	if err != nil {
		return false, err
	}

	thing, err := shell.ThingFromDocument(doc.Body)
	if err != nil {
		return false, err
	}

	lastRequestedAt, requestedBefore, err := h.store.LastBorrowRequest(ctx, thingID, requesterID)
	if err != nil {
		return false, err
	}

	result := Decide(State{
		Thing:           thing,
		LastRequestedAt: lastRequestedAt,
		RequestedBefore: requestedBefore,
		Cooldown:        h.cooldown,
	}, command)

	if !result.HasEventToAppend() {
		// The pending request was saved, but its record write may have failed.
		if !requestedBefore {
			if err = h.store.RecordBorrowRequest(ctx, borrowRequestRecord(command)); err != nil {
				return false, err
			}
		}

		return true, nil
	}

	storableEvent, err := shell.StorableEventFrom(result.Event, shell.NewCommandMetadata())
	if err != nil {
		return false, err
	}

	if result.HasError() == nil {
		body, applyErr := shell.ApplyThingToDocument(doc.Body, thing)
		if applyErr != nil {
			return false, applyErr
		}

		if _, err = h.store.SaveThing(ctx, thingID, body, doc.Version); err != nil {
			return false, err
		}

		if err = h.store.RecordBorrowRequest(ctx, borrowRequestRecord(command)); err != nil {
			return false, err
		}
	}

	if err = h.store.Append(ctx, storableEvent); err != nil {
		return false, err
	}

	return false, result.HasError()
}

func borrowRequestRecord(command Command) shell.BorrowRequestRecord {
	return shell.BorrowRequestRecord{
		ItemID:      command.ThingID.String(),
		RequestedBy: command.RequesterID.String(),
		RequestedAt: command.OccurredAt,
	}
}
