// Package observability provides logging setup and formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/application-tracker/internal/query"
	"github.com/jonathan/application-tracker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// companyWidth and positionWidth size the table columns
	companyWidth  = 18
	positionWidth = 20
)

// Printer handles formatted output for human-readable CLI mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintView outputs the counts header followed by the visible applications.
func (p *Printer) PrintView(v *query.View) {
	if v == nil {
		return
	}

	p.PrintCounts(v.Counts, v.Options)

	if len(v.Applications) == 0 {
		p.printBox("NO APPLICATIONS", "Nothing matches the current filters.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-5s %s %s %s\n", "ID",
		pad("Company", companyWidth), pad("Position", positionWidth), "Applied"))
	for _, app := range v.Applications {
		sb.WriteString(fmt.Sprintf("%-5d %s %s %s\n", app.ID,
			pad(truncate(app.CompanyName, companyWidth), companyWidth),
			pad(truncate(app.Position, positionWidth), positionWidth),
			formatDate(app)))
	}

	p.printBox(strings.ToUpper(string(v.Options.ActiveTab))+" APPLICATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCounts outputs the dashboard totals and the active filters.
func (p *Printer) PrintCounts(c query.Counts, opts query.Options) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total:    %d\n", c.Total))
	sb.WriteString(fmt.Sprintf("Pending:  %d\n", c.Pending))
	sb.WriteString(fmt.Sprintf("Archived: %d\n", c.Archived))
	sb.WriteString(fmt.Sprintf("Showing:  %d\n", c.Visible))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Dates:    %s\n", opts.DateFilter.Label()))
	if opts.SearchTerm != "" {
		sb.WriteString(fmt.Sprintf("Search:   %q\n", opts.SearchTerm))
	}
	sb.WriteString(fmt.Sprintf("Sort:     %s %s", opts.SortField, opts.SortDirection))

	p.printBox("APPLICATIONS", sb.String())
}

// PrintApplication outputs every field of one record.
func (p *Printer) PrintApplication(app *types.Application) {
	if app == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %d\n", app.ID))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", app.CompanyName))
	sb.WriteString(fmt.Sprintf("Position: %s\n", app.Position))
	sb.WriteString(fmt.Sprintf("Applied:  %s\n", formatDate(*app)))
	sb.WriteString(fmt.Sprintf("Status:   %s", app.Status))
	if app.URL != nil {
		sb.WriteString(fmt.Sprintf("\nURL:      %s", *app.URL))
	}
	if app.Notes != nil {
		sb.WriteString(fmt.Sprintf("\nNotes:    %s", *app.Notes))
	}

	p.printBox("APPLICATION", sb.String())
}

// PrintMessage outputs a one-line confirmation or failure notice.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMessage(ok bool, message string) {
	mark := "✅"
	if !ok {
		mark = "⚠"
	}
	fmt.Fprintf(p.out, "%s %s\n", mark, message)
}

func formatDate(app types.Application) string {
	if app.DateApplied.IsZero() {
		return "-"
	}
	return app.DateApplied.Format("2006-01-02")
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
