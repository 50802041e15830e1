package query

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/application-tracker/internal/types"
)

var fixedNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func rec(id int64, status types.Status, company string, applied time.Time) types.Application {
	return types.Application{
		ID:          id,
		CompanyName: company,
		Position:    "Engineer",
		DateApplied: applied,
		Status:      status,
	}
}

func ids(apps []types.Application) []int64 {
	out := make([]int64, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.ID)
	}
	return out
}

func assertIDs(t *testing.T, want []int64, got []types.Application) {
	t.Helper()
	if diff := cmp.Diff(want, ids(got)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func exampleRecords() []types.Application {
	return []types.Application{
		rec(1, types.StatusPending, "Acme", day(2024, 1, 10)),
		rec(2, types.StatusPending, "Zeta", day(2024, 1, 5)),
	}
}

func TestApply_SortByDateDesc(t *testing.T) {
	opts := DefaultOptions()

	got := Apply(exampleRecords(), opts, fixedNow)
	assertIDs(t, []int64{1, 2}, got)

	opts.SortDirection = types.SortAsc
	got = Apply(exampleRecords(), opts, fixedNow)
	assertIDs(t, []int64{2, 1}, got)
}

func TestApply_Search(t *testing.T) {
	opts := DefaultOptions()
	opts.SearchTerm = "acme"
	assertIDs(t, []int64{1}, Apply(exampleRecords(), opts, fixedNow))

	opts.SearchTerm = "ACM"
	assertIDs(t, []int64{1}, Apply(exampleRecords(), opts, fixedNow))

	// Position matches as well as company.
	opts.SearchTerm = "engin"
	assertIDs(t, []int64{1, 2}, Apply(exampleRecords(), opts, fixedNow))

	opts.SearchTerm = "globex"
	assert.Empty(t, Apply(exampleRecords(), opts, fixedNow))
}

func TestApply_TodayWithNoMatches(t *testing.T) {
	opts := DefaultOptions()
	opts.DateFilter = types.DateFilterToday

	got := Apply(exampleRecords(), opts, fixedNow)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApply_TabExclusivity(t *testing.T) {
	records := []types.Application{
		rec(1, types.StatusPending, "Acme", day(2024, 3, 1)),
		rec(2, types.StatusArchived, "Beta", day(2024, 3, 2)),
		rec(3, types.StatusPending, "Gamma", day(2024, 3, 3)),
		rec(4, types.StatusArchived, "Delta", day(2024, 3, 4)),
	}

	for _, tab := range types.Statuses {
		for _, field := range types.SortFields {
			for _, filter := range types.DateFilters {
				opts := Options{ActiveTab: tab, DateFilter: filter, SortField: field, SortDirection: types.SortAsc}
				for _, r := range Apply(records, opts, fixedNow) {
					assert.Equal(t, tab, r.Status, "tab=%s field=%s filter=%s", tab, field, filter)
				}
			}
		}
	}

	opts := DefaultOptions()
	opts.ActiveTab = types.StatusArchived
	assertIDs(t, []int64{4, 2}, Apply(records, opts, fixedNow))
}

func TestApply_Stable(t *testing.T) {
	same := day(2024, 2, 1)
	records := []types.Application{
		rec(3, types.StatusPending, "Same", same),
		rec(1, types.StatusPending, "Same", same),
		rec(5, types.StatusPending, "Earlier", day(2024, 1, 1)),
		rec(2, types.StatusPending, "Same", same),
	}

	tests := []struct {
		name  string
		field types.SortField
		dir   types.SortDirection
		want  []int64
	}{
		{"date asc", types.SortByDateApplied, types.SortAsc, []int64{5, 3, 1, 2}},
		{"date desc", types.SortByDateApplied, types.SortDesc, []int64{3, 1, 2, 5}},
		{"company asc", types.SortByCompanyName, types.SortAsc, []int64{5, 3, 1, 2}},
		{"company desc", types.SortByCompanyName, types.SortDesc, []int64{3, 1, 2, 5}},
		{"position asc keeps input order", types.SortByPosition, types.SortAsc, []int64{3, 1, 5, 2}},
		{"position desc keeps input order", types.SortByPosition, types.SortDesc, []int64{3, 1, 5, 2}},
		{"id asc", types.SortByID, types.SortAsc, []int64{1, 2, 3, 5}},
		{"id desc", types.SortByID, types.SortDesc, []int64{5, 3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{ActiveTab: types.StatusPending, DateFilter: types.DateFilterAll, SortField: tt.field, SortDirection: tt.dir}
			assertIDs(t, tt.want, Apply(records, opts, fixedNow))
		})
	}
}

func TestApply_Deterministic(t *testing.T) {
	records := []types.Application{
		rec(4, types.StatusPending, "beta", day(2024, 3, 10)),
		rec(2, types.StatusPending, "Alpha", day(2024, 3, 10)),
		rec(9, types.StatusPending, "alpha", day(2024, 3, 12)),
		rec(7, types.StatusArchived, "Alpha", day(2024, 3, 12)),
	}
	snapshot := append([]types.Application(nil), records...)

	opts := DefaultOptions()
	opts.SortField = types.SortByCompanyName
	opts.DateFilter = types.DateFilterThisMonth

	first, err := json.Marshal(Apply(records, opts, fixedNow))
	require.NoError(t, err)
	for range 10 {
		again, err := json.Marshal(Apply(records, opts, fixedNow))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	assert.Equal(t, snapshot, records, "input must not be reordered")
}

func TestApply_LocaleAwareText(t *testing.T) {
	records := []types.Application{
		rec(1, types.StatusPending, "Zeta", day(2024, 1, 1)),
		rec(2, types.StatusPending, "apple", day(2024, 1, 1)),
		rec(3, types.StatusPending, "Émile", day(2024, 1, 1)),
	}
	opts := Options{ActiveTab: types.StatusPending, SortField: types.SortByCompanyName, SortDirection: types.SortAsc}

	assertIDs(t, []int64{2, 3, 1}, Apply(records, opts, fixedNow))
}

func TestApply_NullsFirstAscending(t *testing.T) {
	records := []types.Application{
		rec(1, types.StatusPending, "A", day(2024, 1, 1)),
		rec(2, types.StatusPending, "B", day(2024, 1, 1)),
		rec(3, types.StatusPending, "C", day(2024, 1, 1)),
	}
	records[0].Notes = strPtr("zebra")
	records[2].Notes = strPtr("alpha")
	records[1].URL = strPtr("https://b.example")

	opts := Options{ActiveTab: types.StatusPending, SortField: types.SortByNotes, SortDirection: types.SortAsc}
	assertIDs(t, []int64{2, 3, 1}, Apply(records, opts, fixedNow))

	opts.SortDirection = types.SortDesc
	assertIDs(t, []int64{1, 3, 2}, Apply(records, opts, fixedNow))

	opts.SortField = types.SortByURL
	opts.SortDirection = types.SortAsc
	assertIDs(t, []int64{1, 3, 2}, Apply(records, opts, fixedNow))
}

func TestApply_ZeroDate(t *testing.T) {
	records := []types.Application{
		rec(1, types.StatusPending, "A", day(2024, 3, 15)),
		rec(2, types.StatusPending, "B", time.Time{}),
	}

	opts := Options{ActiveTab: types.StatusPending, DateFilter: types.DateFilterAll, SortField: types.SortByDateApplied, SortDirection: types.SortAsc}
	assertIDs(t, []int64{2, 1}, Apply(records, opts, fixedNow))

	for _, f := range types.DateFilters[1:] {
		opts.DateFilter = f
		for _, r := range Apply(records, opts, fixedNow) {
			assert.NotEqual(t, int64(2), r.ID, "zero date passed %s", f)
		}
	}
}

func TestSummarize(t *testing.T) {
	records := []types.Application{
		rec(1, types.StatusPending, "A", day(2024, 3, 15)),
		rec(2, types.StatusArchived, "B", day(2024, 3, 15)),
		rec(3, types.StatusPending, "C", day(2023, 3, 15)),
	}

	opts := DefaultOptions()
	opts.DateFilter = types.DateFilterToday
	v := NewView(records, opts, fixedNow)

	assert.Equal(t, Counts{Total: 3, Pending: 2, Archived: 1, Visible: 1}, v.Counts)
	assertIDs(t, []int64{1}, v.Applications)
	assert.Equal(t, opts, v.Options)
}
