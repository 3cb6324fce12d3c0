package shell

import (
	"errors"
	"net/http"

	"github.com/AntonStoeckl/lending-domain-go/lending"
)

var (
	// ErrConcurrencyConflict is returned by stores when a document changed since it was loaded.
	// It is the only error the command handlers retry.
	ErrConcurrencyConflict = errors.New("concurrency conflict: document was modified concurrently")

	// ErrNotFound is returned by stores when a document does not exist.
	ErrNotFound = errors.New("document not found")
)

// Outcome is the caller-facing classification of a failed operation.
type Outcome struct {
	Kind    string
	Status  int
	Message string
}

const (
	OutcomeKindConcurrencyConflict = "concurrency_conflict"
	OutcomeKindNotFound            = "not_found"
)

// ClassifyError maps an error chain to an Outcome with an HTTP-style status code.
// A nil error classifies as 200.
func ClassifyError(err error) Outcome {
	if err == nil {
		return Outcome{Kind: StatusSuccess, Status: http.StatusOK}
	}

	switch {
	case errors.Is(err, ErrConcurrencyConflict):
		return Outcome{Kind: OutcomeKindConcurrencyConflict, Status: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, ErrNotFound):
		return Outcome{Kind: OutcomeKindNotFound, Status: http.StatusNotFound, Message: err.Error()}
	}

	kind := lending.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case lending.KindInvalidTransition, lending.KindPrecondition:
		status = http.StatusConflict
	case lending.KindEligibility:
		status = http.StatusForbidden
	case lending.KindMalformedIdentity:
		status = http.StatusBadRequest
	}

	return Outcome{Kind: string(kind), Status: status, Message: err.Error()}
}
