package analyzer

import (
	"errors"

	"github.com/rotisserie/eris"
)

var (
	// ErrMalformedInput marks empty or non-text input. Not retried.
	ErrMalformedInput = eris.New("malformed input")

	// ErrBackendUnavailable marks a backend that could not run for this
	// call. Recoverable: the chain falls through to the next lower tier.
	ErrBackendUnavailable = eris.New("backend unavailable")

	// ErrExtractionTimeout marks a backend call that exceeded its bound.
	// Treated like ErrBackendUnavailable for fallback purposes.
	ErrExtractionTimeout = eris.New("extraction timed out")

	// ErrNoBackendAvailable means the whole chain for a capability is
	// empty. Impossible for extraction (the lexical tier has no external
	// dependency), possible for similarity matching.
	ErrNoBackendAvailable = eris.New("no backend available")
)

// isRecoverable reports whether a backend failure should trigger fallback
// instead of surfacing to the caller.
func isRecoverable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable) || errors.Is(err, ErrExtractionTimeout)
}
