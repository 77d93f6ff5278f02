// Package table converts catalog data into rows for table output.
package table

import (
	"fmt"
	"strconv"
	"time"

	"github.com/agentstation/shelf/internal/cmd/emoji"
	"github.com/agentstation/shelf/internal/sync"
	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/differ"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// RecordsToTableData converts records to table format. Wide output adds
// the link path.
func RecordsToTableData(records []catalog.Record, wide bool) Data {
	headers := []string{"ID", "Name", "Category", "Price", "Status"}
	if wide {
		headers = append(headers, "Href")
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.Name,
			orDash(rec.Category),
			orDash(rec.Price),
			Status(rec),
		}
		if wide {
			row = append(row, orDash(rec.Href))
		}
		rows = append(rows, row)
	}

	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignCenter}
	if wide {
		align = append(align, AlignLeft)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// Status renders a record's state for display.
func Status(rec catalog.Record) string {
	switch {
	case rec.Missing:
		return emoji.Missing + " missing"
	case rec.IsLegacy():
		return emoji.Warning + " legacy"
	default:
		return emoji.Success
	}
}

// ChangesetToTableData lists every change, one row per field change or
// record-level event.
func ChangesetToTableData(cs *differ.Changeset) Data {
	headers := []string{"Change", "ID", "Field", "Old", "New", "Delta"}
	var rows [][]string

	for _, rec := range cs.Added {
		rows = append(rows, []string{"added", rec.ID, "", "", rec.Name, ""})
	}
	for _, u := range cs.Updated {
		for _, c := range u.Changes {
			rows = append(rows, []string{"updated", u.ID, c.Path, orDash(c.OldValue), orDash(c.NewValue), c.Delta})
		}
	}
	for _, rec := range cs.Restored {
		rows = append(rows, []string{"restored", rec.ID, "missing", "true", "false", ""})
	}
	for _, rec := range cs.MarkedMissing {
		rows = append(rows, []string{"missing", rec.ID, "missing", "false", "true", ""})
	}
	for _, rec := range cs.Removed {
		rows = append(rows, []string{"removed", rec.ID, "", rec.Name, "", ""})
	}

	return Data{Headers: headers, Rows: rows}
}

// ReportToTableData summarizes a sync run as key-value rows.
func ReportToTableData(r *sync.Report) Data {
	snapshot := fmt.Sprintf("%d unique", r.Unique)
	if r.MinExpected > 0 {
		snapshot += fmt.Sprintf(" (min %d)", r.MinExpected)
	}
	if r.Exhausted {
		snapshot += " " + emoji.Warning + " incomplete"
	}

	rows := [][]string{
		{"Run", r.RunID},
		{"Duration", r.Duration().Round(time.Millisecond).String()},
		{"Attempts", strconv.Itoa(r.Attempts)},
		{"Snapshot", snapshot},
		{"Previous", strconv.Itoa(r.Previous)},
		{"Records", strconv.Itoa(r.Total)},
		{"Added", strconv.Itoa(r.Stats.Added)},
		{"Matched", strconv.Itoa(r.Stats.Matched)},
		{"Restored", strconv.Itoa(r.Stats.Restored)},
		{"Newly missing", strconv.Itoa(r.Stats.MarkedMissing)},
		{"Dropped", strconv.Itoa(r.Stats.Dropped)},
		{"Skipped listings", strconv.Itoa(r.Stats.Skipped + r.Stats.Duplicates)},
	}
	if r.KeepLegacy {
		rows = append(rows, []string{"Preserved", fmt.Sprintf("%s %d unmatched records kept", emoji.Warning, r.Stats.Carried)})
	}
	rows = append(rows, []string{"Saved", saved(r)})

	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}

func saved(r *sync.Report) string {
	switch {
	case r.DryRun:
		return "no (dry run)"
	case r.Saved:
		return emoji.Success
	default:
		return "no (unchanged)"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
