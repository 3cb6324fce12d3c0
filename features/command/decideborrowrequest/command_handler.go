package decideborrowrequest

import (
	"context"

	"github.com/AntonStoeckl/lending-domain-go/shell"
)

// Store defines the document store operations needed by the CommandHandler.
type Store interface {
	LoadThing(ctx context.Context, id string) (shell.Document, error)
	SaveThing(ctx context.Context, id string, body []byte, expectedVersion uint64) (shell.Document, error)
	Append(ctx context.Context, events ...shell.StorableEvent) error
}

// CommandHandler orchestrates the decision workflow: Load -> Map -> Decide -> Save -> Append.
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

// Handle executes the decision workflow with retry on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
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
	thingID := command.ThingID.String()

	doc, err := h.store.LoadThing(ctx, thingID)
	if err != nil {
		return false, err
	}

	thing, err := shell.ThingFromDocument(doc.Body)
	if err != nil {
		return false, err
	}

	result := Decide(thing, command)

	if !result.HasEventToAppend() {
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
	}

	if err = h.store.Append(ctx, storableEvent); err != nil {
		return false, err
	}

	return false, result.HasError()
}
