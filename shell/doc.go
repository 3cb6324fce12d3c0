// Package shell is the imperative shell around the lending core.
//
// It holds the contracts shared by all command handlers (Command, CoreCommandHandler, HandlerResult),
// optimistic concurrency retry with exponential backoff, observability interfaces and helpers,
// mapping between stored documents (records) and domain objects, and the storable envelopes
// that domain events are appended as.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
