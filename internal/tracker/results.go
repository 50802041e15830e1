package tracker

import (
	"github.com/jonathan/application-tracker/internal/types"
	"github.com/jonathan/application-tracker/internal/validation"
)

// CreateResult is the caller-facing outcome of Create.
type CreateResult struct {
	Success     bool                    `json:"success"`
	Application *types.Application      `json:"application,omitempty"`
	Errors      []validation.FieldError `json:"errors,omitempty"`
}

// NewCreateResult converts the return values of Create. Persistence failures
// are reported as a single error on the "database" field.
func NewCreateResult(app *types.Application, err error) CreateResult {
	if err == nil {
		return CreateResult{Success: true, Application: app}
	}

	te := translate(OpCreate, err)
	if te.Kind == KindValidation {
		return CreateResult{Errors: te.Fields}
	}
	return CreateResult{Errors: []validation.FieldError{{
		Field:   FieldDatabase,
		Code:    string(te.Kind),
		Message: te.Message,
	}}}
}

// MutationResult is the caller-facing outcome of a status change or delete.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// NewMutationResult converts the error returned by op. On success the message
// is the confirmation shown to the user.
func NewMutationResult(op string, err error) MutationResult {
	if err != nil {
		return MutationResult{Message: translate(op, err).Message}
	}
	return MutationResult{Success: true, Message: confirmation(op)}
}

func confirmation(op string) string {
	switch op {
	case OpArchive:
		return "Application archived."
	case OpUnarchive:
		return "Application unarchived."
	case OpDelete:
		return "Application deleted."
	case OpCreate:
		return "Application added."
	default:
		return "Status updated."
	}
}
