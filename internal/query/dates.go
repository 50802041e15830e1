package query

import (
	"time"

	"github.com/jonathan/application-tracker/internal/types"
)

// Interval returns the closed [start, end] range for filter anchored at now, in
// now's location. ok is false for DateFilterAll and unknown filters.
func Interval(filter types.DateFilter, now time.Time) (start, end time.Time, ok bool) {
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	endOfToday := today.AddDate(0, 0, 1).Add(-time.Nanosecond)
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, loc)

	switch filter {
	case types.DateFilterToday:
		return today, endOfToday, true
	case types.DateFilterLast7Days:
		return today.AddDate(0, 0, -6), endOfToday, true
	case types.DateFilterLast30Days:
		return today.AddDate(0, 0, -29), endOfToday, true
	case types.DateFilterThisMonth:
		return monthStart, monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond), true
	case types.DateFilterLastMonth:
		return monthStart.AddDate(0, -1, 0), monthStart.Add(-time.Nanosecond), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// inBucket reports whether applied falls inside filter. dateApplied holds a
// calendar date at midnight UTC, so it is moved to the same calendar day in
// now's location before comparing.
func inBucket(applied time.Time, filter types.DateFilter, now time.Time) bool {
	start, end, ok := Interval(filter, now)
	if !ok {
		return filter == types.DateFilterAll || filter == ""
	}
	if applied.IsZero() {
		return false
	}
	y, m, d := applied.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return !day.Before(start) && !day.After(end)
}
