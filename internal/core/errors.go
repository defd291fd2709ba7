package core

import (
	"errors"
	"fmt"
)

// Error categories. Every error below wraps exactly one of them.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
)

var (
	ErrSameAccount       = fmt.Errorf("%w: debit and credit accounts must differ", ErrValidation)
	ErrNonPositiveAmount = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrEmptyDescription  = fmt.Errorf("%w: empty description", ErrValidation)
	ErrUnknownAccount    = fmt.Errorf("%w: unknown account", ErrValidation)
	ErrInvalidDate       = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidPeriod     = fmt.Errorf("%w: invalid period", ErrValidation)
	ErrInvalidAmount     = fmt.Errorf("%w: invalid amount", ErrValidation)

	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrAccountNotFound     = fmt.Errorf("account %w", ErrNotFound)

	ErrTransient = fmt.Errorf("%w: transient", ErrPersistence)
	ErrIntegrity = fmt.Errorf("%w: integrity", ErrPersistence)
)

// PersistenceError reports a store failure during an atomic commit.
// Kind is ErrTransient or ErrIntegrity.
type PersistenceError struct {
	Kind error
	Op   string
	Err  error
}

// Transient wraps err as a retryable persistence failure.
func Transient(op string, err error) *PersistenceError {
	return &PersistenceError{Kind: ErrTransient, Op: op, Err: err}
}

// Integrity wraps err as a non-retryable persistence failure.
func Integrity(op string, err error) *PersistenceError {
	return &PersistenceError{Kind: ErrIntegrity, Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	kind := "persistence error"
	if e.Kind != nil {
		kind = e.Kind.Error()
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, kind, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// IsTransient reports whether err is safe to retry as a whole unit.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
