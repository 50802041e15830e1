// Package types provides type definitions for structured data used throughout the application tracker.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle partition an application belongs to.
type Status string

const (
	StatusPending  Status = "pending"
	StatusArchived Status = "archived"
)

// Statuses lists every persisted status value.
var Statuses = []Status{StatusPending, StatusArchived}

// Valid reports whether s is one of the two persisted statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusArchived
}

// Toggled returns the other partition: pending becomes archived and vice versa.
func (s Status) Toggled() Status {
	if s == StatusArchived {
		return StatusPending
	}
	return StatusArchived
}

// ParseStatus converts an exact status string. No trimming or case folding is applied.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Application is one job-application record as stored.
type Application struct {
	ID          int64     `json:"id"`
	CompanyName string    `json:"companyName"`
	Position    string    `json:"position"`
	DateApplied time.Time `json:"dateApplied"`
	Notes       *string   `json:"notes"`
	URL         *string   `json:"url"`
	Status      Status    `json:"status"`
}

// NewApplication is the normalized payload handed to a store on insert.
// Status is always pending once it has passed validation.
type NewApplication struct {
	CompanyName string    `json:"companyName"`
	Position    string    `json:"position"`
	DateApplied time.Time `json:"dateApplied"`
	Notes       *string   `json:"notes"`
	URL         *string   `json:"url"`
	Status      Status    `json:"status"`
}

// Record builds the stored form of n under the given id.
func (n *NewApplication) Record(id int64) Application {
	return Application{
		ID:          id,
		CompanyName: n.CompanyName,
		Position:    n.Position,
		DateApplied: n.DateApplied,
		Notes:       n.Notes,
		URL:         n.URL,
		Status:      n.Status,
	}
}

// DateFilter names a relative date bucket used to narrow a view.
type DateFilter string

const (
	DateFilterAll        DateFilter = "all"
	DateFilterToday      DateFilter = "today"
	DateFilterLast7Days  DateFilter = "last7days"
	DateFilterLast30Days DateFilter = "last30days"
	DateFilterThisMonth  DateFilter = "thisMonth"
	DateFilterLastMonth  DateFilter = "lastMonth"
)

// DateFilters lists the buckets in display order.
var DateFilters = []DateFilter{
	DateFilterAll,
	DateFilterToday,
	DateFilterLast7Days,
	DateFilterLast30Days,
	DateFilterThisMonth,
	DateFilterLastMonth,
}

// Label returns the human-readable name of the bucket.
func (f DateFilter) Label() string {
	switch f {
	case DateFilterToday:
		return "Today"
	case DateFilterLast7Days:
		return "Last 7 days"
	case DateFilterLast30Days:
		return "Last 30 days"
	case DateFilterThisMonth:
		return "This month"
	case DateFilterLastMonth:
		return "Last month"
	default:
		return "All dates"
	}
}

// ParseDateFilter accepts the bucket names as listed in DateFilters.
func ParseDateFilter(s string) (DateFilter, error) {
	for _, f := range DateFilters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown date filter %q", s)
}

// SortDirection is the order applied to the sort comparator.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection accepts "asc" or "desc" in any case.
func ParseSortDirection(s string) (SortDirection, error) {
	switch SortDirection(strings.ToLower(s)) {
	case SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// SortField names an Application attribute that views can be ordered by.
type SortField string

const (
	SortByID          SortField = "id"
	SortByCompanyName SortField = "companyName"
	SortByPosition    SortField = "position"
	SortByDateApplied SortField = "dateApplied"
	SortByNotes       SortField = "notes"
	SortByURL         SortField = "url"
	SortByStatus      SortField = "status"
)

// SortFields lists every sortable attribute.
var SortFields = []SortField{
	SortByID,
	SortByCompanyName,
	SortByPosition,
	SortByDateApplied,
	SortByNotes,
	SortByURL,
	SortByStatus,
}

// ParseSortField accepts the JSON attribute name or its column name
// (e.g. "dateApplied" or "date_applied").
func ParseSortField(s string) (SortField, error) {
	switch s {
	case "company_name":
		return SortByCompanyName, nil
	case "date_applied":
		return SortByDateApplied, nil
	}
	for _, f := range SortFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}
