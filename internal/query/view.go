package query

import (
	"time"

	"github.com/jonathan/application-tracker/internal/types"
)

// Counts summarizes a record set for the dashboard header.
type Counts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Archived int `json:"archived"`
	Visible  int `json:"visible"`
}

// Summarize counts all records per partition and the visible subset.
func Summarize(all, visible []types.Application) Counts {
	c := Counts{Total: len(all), Visible: len(visible)}
	for _, r := range all {
		switch r.Status {
		case types.StatusPending:
			c.Pending++
		case types.StatusArchived:
			c.Archived++
		}
	}
	return c
}

// View is one computed display state.
type View struct {
	Applications []types.Application `json:"applications"`
	Counts       Counts              `json:"counts"`
	Options      Options             `json:"options"`
}

// NewView applies opts to records and attaches the counts.
func NewView(records []types.Application, opts Options, now time.Time) *View {
	visible := Apply(records, opts, now)
	return &View{
		Applications: visible,
		Counts:       Summarize(records, visible),
		Options:      opts,
	}
}
