// Package query turns a full set of application records into the ordered,
// filtered sequence shown for one tab.
package query

import (
	"fmt"

	"github.com/jonathan/application-tracker/internal/types"
)

// Parameter names accepted by ParseOptions.
const (
	ParamTab    = "tab"
	ParamSearch = "search"
	ParamDate   = "date"
	ParamSort   = "sort"
	ParamDir    = "dir"
)

// Options is the complete filter and sort state of a view.
type Options struct {
	ActiveTab     types.Status        `json:"activeTab"`
	SearchTerm    string              `json:"searchTerm"`
	DateFilter    types.DateFilter    `json:"dateFilter"`
	SortField     types.SortField     `json:"sortField"`
	SortDirection types.SortDirection `json:"sortDirection"`
}

// DefaultOptions is the view shown on first load: pending records, newest first.
func DefaultOptions() Options {
	return Options{
		ActiveTab:     types.StatusPending,
		DateFilter:    types.DateFilterAll,
		SortField:     types.SortByDateApplied,
		SortDirection: types.SortDesc,
	}
}

// Sort returns the sort part of o.
func (o Options) Sort() SortState {
	return SortState{Field: o.SortField, Direction: o.SortDirection}
}

// WithSort returns a copy of o using s.
func (o Options) WithSort(s SortState) Options {
	o.SortField = s.Field
	o.SortDirection = s.Direction
	return o
}

// ParseOptions builds Options from string parameters such as an HTTP query or
// CLI flags. Missing parameters keep their defaults; unknown values are rejected.
func ParseOptions(get func(key string) string) (Options, error) {
	opts := DefaultOptions()

	if v := get(ParamTab); v != "" {
		st, err := types.ParseStatus(v)
		if err != nil {
			return Options{}, fmt.Errorf("invalid %s: %w", ParamTab, err)
		}
		opts.ActiveTab = st
	}

	opts.SearchTerm = get(ParamSearch)

	if v := get(ParamDate); v != "" {
		f, err := types.ParseDateFilter(v)
		if err != nil {
			return Options{}, fmt.Errorf("invalid %s: %w", ParamDate, err)
		}
		opts.DateFilter = f
	}

	if v := get(ParamSort); v != "" {
		f, err := types.ParseSortField(v)
		if err != nil {
			return Options{}, fmt.Errorf("invalid %s: %w", ParamSort, err)
		}
		opts.SortField = f
	}

	if v := get(ParamDir); v != "" {
		d, err := types.ParseSortDirection(v)
		if err != nil {
			return Options{}, fmt.Errorf("invalid %s: %w", ParamDir, err)
		}
		opts.SortDirection = d
	}

	return opts, nil
}

// SortState is the interactive sort selection.
type SortState struct {
	Field     types.SortField
	Direction types.SortDirection
}

// Toggle returns the state after the user picks field: the active field flips
// direction, any other field becomes active in descending order.
func (s SortState) Toggle(field types.SortField) SortState {
	if s.Field == field {
		if s.Direction == types.SortDesc {
			return SortState{Field: field, Direction: types.SortAsc}
		}
		return SortState{Field: field, Direction: types.SortDesc}
	}
	return SortState{Field: field, Direction: types.SortDesc}
}
