package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/application-tracker/internal/query"
	"github.com/jonathan/application-tracker/internal/types"
)

func TestPrintView(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	v := &query.View{
		Applications: []types.Application{
			{ID: 1, CompanyName: "Acme Corp", Position: "Senior Engineer", DateApplied: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Status: types.StatusPending},
			{ID: 12, CompanyName: "A company with a very long legal name", Position: "Staff Engineer", Status: types.StatusPending},
		},
		Counts:  query.Counts{Total: 3, Pending: 2, Archived: 1, Visible: 2},
		Options: query.DefaultOptions(),
	}

	p.PrintView(v)
	output := buf.String()

	assert.Contains(t, output, "PENDING APPLICATIONS")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "2024-01-10")
	assert.Contains(t, output, "A company with ...")
	assert.Contains(t, output, "Archived: 1")
	assert.Contains(t, output, "All dates")
	assert.Contains(t, output, "dateApplied desc")
}

func TestPrintView_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	opts := query.DefaultOptions()
	opts.SearchTerm = "globex"
	p.PrintView(&query.View{Options: opts})

	output := buf.String()
	assert.Contains(t, output, "NO APPLICATIONS")
	assert.Contains(t, output, `"globex"`)
}

func TestPrintView_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintView(nil)
	assert.Empty(t, buf.String())
}

func TestPrintApplication(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	notes := "referral"
	url := "https://acme.example/jobs/1"
	p.PrintApplication(&types.Application{
		ID:          7,
		CompanyName: "Acme",
		Position:    "Engineer",
		DateApplied: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Notes:       &notes,
		URL:         &url,
		Status:      types.StatusArchived,
	})

	output := buf.String()
	assert.Contains(t, output, "ID:       7")
	assert.Contains(t, output, "archived")
	assert.Contains(t, output, "referral")
	assert.Contains(t, output, url)
}

func TestPrintBox_Alignment(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "short\nÉmile’s line\n"+strings.Repeat("x", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), "line %q", line)
	}
}

func TestPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMessage(true, "Application archived.")
	p.PrintMessage(false, "Application not found.")

	assert.Equal(t, "✅ Application archived.\n⚠ Application not found.\n", buf.String())
}
