package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidReplacement indicates the substitution replacement uses $-digit group syntax.
	// It is fatal: the whole clone run is aborted.
	ErrInvalidReplacement = errors.New("replacement uses $N group references, use \\N or \\g<N>")

	// ErrInvalidPattern indicates the substitution pattern does not compile.
	ErrInvalidPattern = errors.New("invalid substitution pattern")

	// ErrTreeNotLoaded indicates a clone was requested before any page tree was loaded.
	ErrTreeNotLoaded = errors.New("page tree not loaded")

	// ErrEmptySelection indicates a clone was requested with no selected pages.
	ErrEmptySelection = errors.New("no pages selected")

	// ErrNoPageID indicates the gateway returned a page without an id.
	ErrNoPageID = errors.New("page has no id")

	// Authentication Errors.

	// ErrAuthRequired indicates no credentials are configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the credentials were rejected.
	ErrAuthInvalid = errors.New("authentication invalid")
)

// IsFatal reports whether err aborts a whole clone run rather than a single page.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvalidReplacement) || errors.Is(err, ErrInvalidPattern)
}
