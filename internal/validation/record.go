package validation

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/application-tracker/internal/types"
)

// Input field names, shared with HTTP payloads and CLI flags.
const (
	FieldCompanyName = "companyName"
	FieldPosition    = "position"
	FieldDateApplied = "dateApplied"
	FieldNotes       = "notes"
	FieldURL         = "url"
	FieldStatus      = "status"
)

var fieldOrder = []string{FieldCompanyName, FieldPosition, FieldDateApplied, FieldNotes, FieldURL}

// dateLayouts are tried in order when coercing dateApplied.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// RawInput is the untyped, string-keyed form submitted by a caller.
type RawInput map[string]string

// Get returns the trimmed value of key and whether it was present at all.
func (r RawInput) Get(key string) (string, bool) {
	v, ok := r[key]
	return strings.TrimSpace(v), ok
}

// recordForm carries the tag-checked subset of a new record.
type recordForm struct {
	CompanyName string `form:"companyName" validate:"required"`
	Position    string `form:"position" validate:"required"`
	URL         string `form:"url" validate:"omitempty,url"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return v
}

// ValidateNewRecord validates raw input using the current time as the creation moment.
func ValidateNewRecord(raw RawInput) (*types.NewApplication, error) {
	return ValidateNewRecordAt(raw, time.Now())
}

// ValidateNewRecordAt validates and normalizes raw input. Every problem is reported
// together as ValidationErrors. An absent or empty dateApplied defaults to the
// calendar day of now. Any status present in raw is ignored.
func ValidateNewRecordAt(raw RawInput, now time.Time) (*types.NewApplication, error) {
	company, _ := raw.Get(FieldCompanyName)
	position, _ := raw.Get(FieldPosition)
	rawURL, _ := raw.Get(FieldURL)
	notes, _ := raw.Get(FieldNotes)
	rawDate, _ := raw.Get(FieldDateApplied)

	var errs ValidationErrors

	form := recordForm{CompanyName: company, Position: position, URL: rawURL}
	if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		for _, fe := range verrs {
			errs = append(errs, fieldErrorFor(fe))
		}
	}

	dateApplied := Midnight(now)
	if rawDate != "" {
		d, ok := ParseDate(rawDate)
		if !ok {
			errs = append(errs, FieldError{
				Field:   FieldDateApplied,
				Code:    CodeInvalidDate,
				Message: "Invalid date format",
			})
		}
		dateApplied = d
	}

	if len(errs) > 0 {
		slices.SortStableFunc(errs, func(a, b FieldError) int {
			return slices.Index(fieldOrder, a.Field) - slices.Index(fieldOrder, b.Field)
		})
		return nil, errs
	}

	return &types.NewApplication{
		CompanyName: company,
		Position:    position,
		DateApplied: dateApplied,
		Notes:       optional(notes),
		URL:         optional(rawURL),
		Status:      types.StatusPending,
	}, nil
}

// ValidateStatus accepts exactly "pending" or "archived".
func ValidateStatus(candidate string) (types.Status, error) {
	st, err := types.ParseStatus(candidate)
	if err != nil {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// ValidateID accepts positive ids only.
func ValidateID(id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return nil
}

// ParseDate coerces s into a calendar date at midnight UTC. The calendar day is the
// one written in s, regardless of any offset it carries.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Midnight(t), true
		}
	}
	return time.Time{}, false
}

// Midnight returns the calendar day of t, as seen in t's location, at 00:00 UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fieldErrorFor(fe validator.FieldError) FieldError {
	field := fe.Field()
	switch field {
	case FieldURL:
		return FieldError{Field: field, Code: CodeInvalidURL, Message: "Invalid URL format"}
	case FieldCompanyName:
		return FieldError{Field: field, Code: CodeRequired, Message: "Company name is required"}
	case FieldPosition:
		return FieldError{Field: field, Code: CodeRequired, Message: "Position is required"}
	default:
		return FieldError{Field: field, Code: fe.Tag(), Message: fe.Error()}
	}
}
