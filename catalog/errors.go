package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// InvalidInputError reports a malformed or missing required field.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }

// NotFoundError reports an absent target entity or a dangling parent reference.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// ConflictError reports a unique-constraint violation (duplicate code, name,
// short code or barcode value) or a delete refused because dependants exist.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
}

// ExhaustedRetriesError reports that random code generation gave up after the
// configured number of attempts without finding a free value.
type ExhaustedRetriesError struct {
	Kind     string
	Attempts int
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("could not generate a unique %s after %d attempts", e.Kind, e.Attempts)
}

func invalidf(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// translateStorageErr maps raw storage faults onto the typed taxonomy so no
// gorm error leaks out of the coordinator.
func translateStorageErr(err error, entity, key string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &ConflictError{Entity: entity, Reason: "duplicate value for a unique field"}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &NotFoundError{Entity: entity, Key: key}
	default:
		return err
	}
}
