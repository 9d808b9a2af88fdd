package compat

import (
	"errors"
	"fmt"
)

// ValidationError marks malformed input, rejected before any store
// access. Field names the offending input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PermissionError marks a caller that is not an active member (reads)
// or not an admin (writes) of the organization. It is never degraded
// to an empty result.
type PermissionError struct {
	UserID         string
	OrganizationID string
	Op             string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s may not %s in organization %s", e.UserID, e.Op, e.OrganizationID)
}

// NotFoundError marks a referenced entity missing from the given
// organization. Read paths over ID lists degrade to empty results
// instead; this error is reserved for sole-scope lookups and writes.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ConflictError marks a duplicate-key insert outside the bulk-replace
// path, e.g. a second identifier of the same type and normalized value.
type ConflictError struct {
	Kind string
	Key  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Kind, e.Key)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPermission reports whether err is a PermissionError
func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
