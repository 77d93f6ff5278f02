package differ

import (
	"sort"

	"github.com/agentstation/shelf/pkg/catalog"
)

// Differ handles change detection between catalog states.
type Differ interface {
	// Records compares two catalog documents and returns changes.
	Records(existing, updated []catalog.Record) *Changeset
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreFields map[string]bool
	priceDeltas  bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreFields: make(map[string]bool),
		priceDeltas:  true,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Records compares two catalog documents and returns changes.
//
// A record present in both with its missing flag newly set is reported as
// missing, and one with the flag newly cleared as restored; field changes
// on a restored record are not reported separately.
func (diff *differ) Records(existing, updated []catalog.Record) *Changeset {
	changeset := &Changeset{
		Added:         []catalog.Record{},
		Updated:       []RecordUpdate{},
		MarkedMissing: []catalog.Record{},
		Restored:      []catalog.Record{},
		Removed:       []catalog.Record{},
	}

	existingMap := make(map[string]catalog.Record, len(existing))
	for _, rec := range existing {
		existingMap[rec.ID] = rec
	}
	updatedMap := make(map[string]catalog.Record, len(updated))
	for _, rec := range updated {
		updatedMap[rec.ID] = rec
	}

	for _, next := range updated {
		prev, exists := existingMap[next.ID]
		switch {
		case !exists:
			changeset.Added = append(changeset.Added, next)
		case !prev.Missing && next.Missing:
			changeset.MarkedMissing = append(changeset.MarkedMissing, next)
		case prev.Missing && !next.Missing:
			changeset.Restored = append(changeset.Restored, next)
		default:
			if update := diff.record(prev, next); update != nil {
				changeset.Updated = append(changeset.Updated, *update)
			}
		}
	}

	for _, prev := range existing {
		if _, exists := updatedMap[prev.ID]; !exists {
			changeset.Removed = append(changeset.Removed, prev)
		}
	}

	sortChangeset(changeset)
	changeset.Summary = calculateSummary(changeset)
	return changeset
}

// record compares two versions of one record.
func (diff *differ) record(existing, updated catalog.Record) *RecordUpdate {
	var changes []FieldChange

	compare := func(path, oldValue, newValue string) {
		if diff.ignoreFields[path] || oldValue == newValue {
			return
		}
		changes = append(changes, FieldChange{
			Path:     path,
			OldValue: oldValue,
			NewValue: newValue,
			Type:     ChangeTypeUpdate,
		})
	}

	compare("name", existing.Name, updated.Name)
	compare("href", existing.Href, updated.Href)
	compare("category", existing.Category, updated.Category)
	compare("price", existing.Price, updated.Price)

	if len(changes) == 0 {
		return nil
	}

	if diff.priceDeltas {
		for i := range changes {
			if changes[i].Path != "price" {
				continue
			}
			if delta, ok := PriceDelta(changes[i].OldValue, changes[i].NewValue); ok {
				if delta.IsPositive() {
					changes[i].Delta = "+" + delta.String()
				} else {
					changes[i].Delta = delta.String()
				}
			}
		}
	}

	return &RecordUpdate{
		ID:       updated.ID,
		Existing: existing,
		New:      updated,
		Changes:  changes,
	}
}

func sortChangeset(c *Changeset) {
	byID := func(rs []catalog.Record) {
		sort.Slice(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })
	}
	byID(c.Added)
	byID(c.MarkedMissing)
	byID(c.Restored)
	byID(c.Removed)
	sort.Slice(c.Updated, func(i, j int) bool { return c.Updated[i].ID < c.Updated[j].ID })
}
