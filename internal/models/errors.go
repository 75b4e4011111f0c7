package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName is returned when adding or renaming a person to a name
	// that already exists in the owner's ledger.
	ErrDuplicateName = errors.New("a person with this name already exists")

	// ErrEmptyName is returned when a submitted person name is blank.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrNotFound is returned when a person or transaction is no longer present.
	ErrNotFound = errors.New("not found")

	// ErrEmptyTransaction is returned for a transaction with neither money nor items.
	ErrEmptyTransaction = errors.New("transaction must have an amount or a quantity")
)

// AccessError wraps a failure of the persistence collaborator
// (I/O, cancellation, transport). It is transient from the user's view.
type AccessError struct {
	Op  string
	Err error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s: data access failed: %v", e.Op, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// WrapAccess wraps err in an AccessError unless it is nil or already one of
// the domain sentinels, which callers handle on their own.
func WrapAccess(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	var accessErr *AccessError
	if errors.As(err, &accessErr) {
		return err
	}
	return &AccessError{Op: op, Err: err}
}

// IsDomainError reports whether err is one of the validation or lookup
// sentinels rather than an infrastructure failure.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrDuplicateName) ||
		errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEmptyTransaction)
}
