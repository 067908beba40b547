package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotMember is returned when the user has no membership in the group.
	// It is also returned for groups that do not exist.
	ErrNotMember = errors.New("you are not a member of this group")
	// ErrForbidden is returned when a member lacks the role an operation needs.
	ErrForbidden = errors.New("only group admins can do this")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyMember is returned when adding a user twice to a group.
	ErrAlreadyMember = errors.New("user is already a member of this group")
	// ErrStore wraps failures of the underlying store.
	ErrStore = errors.New("store failure")
)

// ValidationError describes a malformed or missing input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
