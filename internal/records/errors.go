package records

import (
	"errors"

	"academia/internal/docstore"
)

// Failure taxonomy of the record services. The HTTP layer maps these to
// status codes; nothing here is retried or swallowed.
var (
	// ErrInvalidPage reports non-positive page or limit values. Raised
	// before any datastore call.
	ErrInvalidPage = errors.New("invalid page parameters")

	// ErrInvalidFilter reports a filter value that cannot be parsed.
	ErrInvalidFilter = errors.New("invalid filter value")

	// ErrInvalidDate reports a date that matches none of the accepted
	// layouts, on either a filter bound or a create payload.
	ErrInvalidDate = errors.New("invalid date value")

	// ErrNotFound reports that the target record does not exist.
	ErrNotFound = errors.New("record not found")
)

// MissingFieldError reports a create payload lacking a mandatory field.
// Raised before any datastore mutation.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}

// StoreError wraps a datastore failure so callers can tell persistence
// trouble apart from their own validation errors. The original message
// stays attached.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return "datastore unavailable: " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// wrapStore converts datastore errors into service-level ones.
func wrapStore(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return &StoreError{Err: err}
}
