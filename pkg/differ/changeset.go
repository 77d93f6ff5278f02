// Package differ compares two catalog states and reports what changed.
package differ

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agentstation/shelf/pkg/catalog"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates a record was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates a record was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeMissing indicates a record was flagged missing.
	ChangeTypeMissing ChangeType = "missing"
	// ChangeTypeRestore indicates a missing record was observed again.
	ChangeTypeRestore ChangeType = "restore"
	// ChangeTypeRemove indicates a record left the catalog.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific field.
type FieldChange struct {
	Path     string     `json:"path" yaml:"path"` // Field name (e.g., "price")
	OldValue string     `json:"old" yaml:"old"`
	NewValue string     `json:"new" yaml:"new"`
	Type     ChangeType `json:"type" yaml:"type"`

	// Delta is the signed numeric price difference, set when both prices parse.
	Delta string `json:"delta,omitempty" yaml:"delta,omitempty"`
}

// RecordUpdate represents an update to an existing record.
type RecordUpdate struct {
	ID       string         `json:"id" yaml:"id"`
	Existing catalog.Record `json:"existing" yaml:"existing"`
	New      catalog.Record `json:"new" yaml:"new"`
	Changes  []FieldChange  `json:"changes" yaml:"changes"`
}

// Changeset represents all changes between two catalog states.
type Changeset struct {
	Added         []catalog.Record `json:"added" yaml:"added"`
	Updated       []RecordUpdate   `json:"updated" yaml:"updated"`
	MarkedMissing []catalog.Record `json:"marked_missing" yaml:"marked_missing"`
	Restored      []catalog.Record `json:"restored" yaml:"restored"`
	Removed       []catalog.Record `json:"removed" yaml:"removed"`
	Summary       Summary          `json:"summary" yaml:"summary"`
}

// Summary provides summary statistics for a changeset.
type Summary struct {
	Added         int `json:"added" yaml:"added"`
	Updated       int `json:"updated" yaml:"updated"`
	MarkedMissing int `json:"marked_missing" yaml:"marked_missing"`
	Restored      int `json:"restored" yaml:"restored"`
	Removed       int `json:"removed" yaml:"removed"`
	TotalChanges  int `json:"total" yaml:"total"`
}

func calculateSummary(c *Changeset) Summary {
	s := Summary{
		Added:         len(c.Added),
		Updated:       len(c.Updated),
		MarkedMissing: len(c.MarkedMissing),
		Restored:      len(c.Restored),
		Removed:       len(c.Removed),
	}
	s.TotalChanges = s.Added + s.Updated + s.MarkedMissing + s.Restored + s.Removed
	return s
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return c.Summary.TotalChanges == 0
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}

	var parts []string
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	add(c.Summary.Added, "added")
	add(c.Summary.Updated, "updated")
	add(c.Summary.Restored, "restored")
	add(c.Summary.MarkedMissing, "missing")
	add(c.Summary.Removed, "removed")

	return fmt.Sprintf("Changeset: %s (Total: %d changes)", strings.Join(parts, ", "), c.Summary.TotalChanges)
}

// Print writes a detailed, human-readable view of the changeset to w.
func (c *Changeset) Print(w io.Writer) {
	fmt.Fprintln(w, c.String())
	if c.IsEmpty() {
		return
	}
	fmt.Fprintln(w, strings.Repeat("─", 80))

	printRecords(w, "➕ Added", c.Added)

	if len(c.Updated) > 0 {
		fmt.Fprintf(w, "\n🔄 Updated (%d):\n", len(c.Updated))
		for _, update := range c.Updated {
			fmt.Fprintf(w, "  • %s:\n", update.ID)
			for _, change := range update.Changes {
				fmt.Fprintf(w, "    - %s: %s → %s", change.Path, quoteEmpty(change.OldValue), quoteEmpty(change.NewValue))
				if change.Delta != "" {
					fmt.Fprintf(w, " (%s)", change.Delta)
				}
				fmt.Fprintln(w)
			}
		}
	}

	printRecords(w, "♻️  Restored", c.Restored)
	printRecords(w, "⚠️  Missing", c.MarkedMissing)
	printRecords(w, "🗑  Removed", c.Removed)
}

func printRecords(w io.Writer, title string, records []catalog.Record) {
	if len(records) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", title, len(records))
	for _, rec := range records {
		fmt.Fprintf(w, "  • %s", rec.ID)
		if rec.Name != "" && rec.Name != rec.ID {
			fmt.Fprintf(w, " (%s)", truncateString(rec.Name, 60))
		}
		if rec.Price != "" {
			fmt.Fprintf(w, " - %s", rec.Price)
		}
		fmt.Fprintln(w)
	}
}

// PriceDelta returns the signed numeric difference between two price
// strings. Currency symbols and thousands separators are ignored. ok is
// false when either side has no parseable amount.
func PriceDelta(oldPrice, newPrice string) (delta decimal.Decimal, ok bool) {
	o, err := ParsePrice(oldPrice)
	if err != nil {
		return decimal.Zero, false
	}
	n, err := ParsePrice(newPrice)
	if err != nil {
		return decimal.Zero, false
	}
	return n.Sub(o), true
}

// ParsePrice extracts the first numeric amount from a display price such
// as "$1,299.00" or "EUR 12.50".
func ParsePrice(s string) (decimal.Decimal, error) {
	var b strings.Builder
	started := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
			started = true
		case r == ',' && started:
		case r == '-' && !started:
			b.Reset()
			b.WriteRune(r)
		case started:
			return decimal.NewFromString(b.String())
		}
	}
	return decimal.NewFromString(b.String())
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func quoteEmpty(s string) string {
	if s == "" {
		return `""`
	}
	return s
}
