package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/application-tracker/internal/types"
)

func TestInBucket(t *testing.T) {
	tests := []struct {
		filter  types.DateFilter
		applied time.Time
		want    bool
	}{
		{types.DateFilterAll, day(1999, 1, 1), true},
		{types.DateFilterAll, time.Time{}, true},
		{types.DateFilterToday, day(2024, 3, 15), true},
		{types.DateFilterToday, day(2024, 3, 14), false},
		{types.DateFilterToday, day(2024, 3, 16), false},
		{types.DateFilterLast7Days, day(2024, 3, 9), true},
		{types.DateFilterLast7Days, day(2024, 3, 8), false},
		{types.DateFilterLast7Days, day(2024, 3, 15), true},
		{types.DateFilterLast30Days, day(2024, 2, 15), true},
		{types.DateFilterLast30Days, day(2024, 2, 14), false},
		{types.DateFilterThisMonth, day(2024, 3, 1), true},
		{types.DateFilterThisMonth, day(2024, 3, 31), true},
		{types.DateFilterThisMonth, day(2024, 2, 29), false},
		{types.DateFilterLastMonth, day(2024, 2, 1), true},
		{types.DateFilterLastMonth, day(2024, 2, 29), true},
		{types.DateFilterLastMonth, day(2024, 3, 1), false},
		{types.DateFilterLastMonth, day(2024, 1, 31), false},
		{types.DateFilterToday, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter)+"/"+tt.applied.Format("2006-01-02"), func(t *testing.T) {
			assert.Equal(t, tt.want, inBucket(tt.applied, tt.filter, fixedNow))
		})
	}
}

func TestInBucket_CalendarDayInLocalZone(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	// 01:00 on the 15th in EST is still the 15th locally.
	now := time.Date(2024, 3, 15, 1, 0, 0, 0, est)

	assert.True(t, inBucket(day(2024, 3, 15), types.DateFilterToday, now))
	assert.False(t, inBucket(day(2024, 3, 14), types.DateFilterToday, now))
}

func TestInterval(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	start, end, ok := Interval(types.DateFilterLastMonth, now)
	assert.True(t, ok)
	assert.Equal(t, day(2023, 12, 1), start)
	assert.Equal(t, day(2024, 1, 1).Add(-time.Nanosecond), end)

	start, end, ok = Interval(types.DateFilterThisMonth, now)
	assert.True(t, ok)
	assert.Equal(t, day(2024, 1, 1), start)
	assert.Equal(t, day(2024, 2, 1).Add(-time.Nanosecond), end)

	_, _, ok = Interval(types.DateFilterAll, now)
	assert.False(t, ok)
}
