package tracker

import (
	"errors"
	"fmt"

	"github.com/jonathan/application-tracker/internal/db"
	"github.com/jonathan/application-tracker/internal/validation"
)

// Kind classifies a failed mutation.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindInvalidID     Kind = "invalid_id"
	KindInvalidStatus Kind = "invalid_status"
	KindPersistence   Kind = "persistence"
)

// Operation names used in errors, events and metrics.
const (
	OpCreate    = "create"
	OpUpdate    = "update_status"
	OpArchive   = "archive"
	OpUnarchive = "unarchive"
	OpDelete    = "delete"
	OpList      = "list"
)

// FieldDatabase tags the single field error reported for a failed insert.
const FieldDatabase = "database"

// Error is the only error type returned by Service methods.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	// Fields is set for KindValidation.
	Fields  validation.ValidationErrors
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// translate maps any failure from validation or a store into an *Error.
func translate(op string, err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		return te
	}

	var verrs validation.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return &Error{Kind: KindValidation, Op: op, Message: "Validation failed.", Fields: verrs, Err: err}
	case errors.Is(err, validation.ErrInvalidID):
		return &Error{Kind: KindInvalidID, Op: op, Message: "Invalid application ID.", Err: err}
	case errors.Is(err, validation.ErrInvalidStatus):
		return &Error{Kind: KindInvalidStatus, Op: op, Message: "Invalid status provided.", Err: err}
	case errors.Is(err, db.ErrNotFound):
		return &Error{Kind: KindNotFound, Op: op, Message: "Application not found.", Err: err}
	}

	return &Error{Kind: KindPersistence, Op: op, Message: persistenceMessage(op, err), Err: err}
}

func persistenceMessage(op string, err error) string {
	switch op {
	case OpCreate:
		return "Database error: " + err.Error()
	case OpUpdate, OpArchive, OpUnarchive:
		return "Database error updating status."
	case OpDelete:
		return "Database error deleting application."
	default:
		return "Database error loading applications."
	}
}
