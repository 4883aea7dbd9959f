/*
errors.go - Centralized error types for the wage engine

PURPOSE:
  All engine error values in one place. Note that most "bad data"
  conditions in this domain are deliberately NOT errors: incomplete
  reports are skipped, missing templates synthesize a work span, and
  missing rate rows degrade to defaults. Errors here are reserved for
  failures the caller must see (person not found, store failures).

SEE ALSO:
  - engine.go: wraps store failures with these sentinels
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPersonNotFound is returned when the requested person does not
	// exist in the roster.
	ErrPersonNotFound = errors.New("person not found")

	// ErrSourceFailure wraps unrecoverable persistence failures while
	// loading primary inputs (reports, templates). Auxiliary lookups
	// (rates, Shabbat windows, minimum wage) never produce it; they
	// degrade to defaults instead.
	ErrSourceFailure = errors.New("source failure")
)

// sourceErr wraps a store error with the input it was loading.
func sourceErr(what string, err error) error {
	return fmt.Errorf("%w: loading %s: %v", ErrSourceFailure, what, err)
}

// IsNotFound reports whether the error indicates a missing person.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPersonNotFound)
}
