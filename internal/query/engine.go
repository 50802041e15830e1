package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jonathan/application-tracker/internal/types"
)

// Apply filters records by tab, search term and date bucket, then stable sorts the
// survivors. The input slice is not modified. Equal keys keep their input order
// in both directions.
func Apply(records []types.Application, opts Options, now time.Time) []types.Application {
	term := strings.ToLower(opts.SearchTerm)

	out := make([]types.Application, 0, len(records))
	for _, r := range records {
		if r.Status != opts.ActiveTab {
			continue
		}
		if !matches(r, term) {
			continue
		}
		if !inBucket(r.DateApplied, opts.DateFilter, now) {
			continue
		}
		out = append(out, r)
	}

	compare := comparator(opts.SortField)
	sign := 1
	if opts.SortDirection == types.SortDesc {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b types.Application) int {
		return sign * compare(a, b)
	})
	return out
}

func matches(r types.Application, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.CompanyName), term) ||
		strings.Contains(strings.ToLower(r.Position), term)
}

// comparator returns the ascending comparison for field. Collators are not safe
// for concurrent use, so each call gets its own.
func comparator(field types.SortField) func(a, b types.Application) int {
	col := collate.New(language.English)
	text := func(a, b string) int { return col.CompareString(a, b) }

	switch field {
	case types.SortByID:
		return func(a, b types.Application) int { return cmp.Compare(a.ID, b.ID) }
	case types.SortByCompanyName:
		return func(a, b types.Application) int { return text(a.CompanyName, b.CompanyName) }
	case types.SortByPosition:
		return func(a, b types.Application) int { return text(a.Position, b.Position) }
	case types.SortByNotes:
		return func(a, b types.Application) int { return optionalText(text, a.Notes, b.Notes) }
	case types.SortByURL:
		return func(a, b types.Application) int { return optionalText(text, a.URL, b.URL) }
	case types.SortByStatus:
		return func(a, b types.Application) int { return text(string(a.Status), string(b.Status)) }
	default:
		return func(a, b types.Application) int { return compareDates(a.DateApplied, b.DateApplied) }
	}
}

// optionalText orders absent values before present ones.
func optionalText(text func(a, b string) int, a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return text(*a, *b)
}

// compareDates orders zero dates first.
func compareDates(a, b time.Time) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return -1
	case b.IsZero():
		return 1
	}
	return a.Compare(b)
}
