package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrConflict           = errors.New("record conflicts with an existing one")
	ErrInvalidRecord      = errors.New("invalid record")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileExists      = errors.New("profile already exists")
)

// RemoteError is the single failure kind surfaced by controllers: any error
// returned by the store, tagged with the collection and operation.
type RemoteError struct {
	Collection string
	Op         string
	Err        error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Collection, e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// InvalidField builds a validation error for a missing or malformed field.
func InvalidField(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidRecord, field, reason)
}
