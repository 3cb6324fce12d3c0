// Package memstore is an in-memory document store with optimistic versioning.
//
// It keeps thing and loan documents, the borrow request log and the appended storable events.
// Every save names the version it expects; a mismatch fails with shell.ErrConcurrencyConflict.
package memstore
