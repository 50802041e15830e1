// Package validation checks application input before it reaches a store.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Field error codes.
const (
	CodeRequired    = "Required"
	CodeInvalidDate = "InvalidDate"
	CodeInvalidURL  = "InvalidUrl"
)

var (
	// ErrInvalidID is returned for ids that are not positive integers.
	ErrInvalidID = errors.New("invalid application id")
	// ErrInvalidStatus is returned for status values outside the closed enumeration.
	ErrInvalidStatus = errors.New("invalid status")
)

// FieldError is one problem tied to one input field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field problem found in a single pass.
//
//nolint:revive // validation.ValidationErrors reads naturally at call sites
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for i, e := range ve {
		if i > 0 {
			sb.WriteString(";")
		}
		sb.WriteString(" ")
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Has reports whether a problem was recorded for field.
func (ve ValidationErrors) Has(field string) bool {
	for _, e := range ve {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Codes returns the error codes keyed by field.
func (ve ValidationErrors) Codes() map[string]string {
	out := make(map[string]string, len(ve))
	for _, e := range ve {
		out[e.Field] = e.Code
	}
	return out
}
