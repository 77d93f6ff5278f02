package catalog

import (
	"fmt"

	"github.com/agentstation/shelf/pkg/errors"
)

// Records is an ordered catalog document.
type Records []Record

// Len returns the number of records.
func (rs Records) Len() int {
	return len(rs)
}

// IDs returns record identities in document order.
func (rs Records) IDs() []string {
	ids := make([]string, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.ID)
	}
	return ids
}

// MissingCount returns how many records are flagged missing.
func (rs Records) MissingCount() int {
	n := 0
	for _, r := range rs {
		if r.Missing {
			n++
		}
	}
	return n
}

// Find returns the record with the given ID.
func (rs Records) Find(id string) (Record, error) {
	for _, r := range rs {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, errors.NewNotFoundError("record", id)
}

// Clone returns a copy that shares no backing array with rs.
func (rs Records) Clone() Records {
	if rs == nil {
		return nil
	}
	out := make(Records, len(rs))
	copy(out, rs)
	return out
}

// Validate checks that every record has a non-empty, unique ID.
func (rs Records) Validate() error {
	seen := make(map[string]int, len(rs))
	for i, r := range rs {
		if r.ID == "" {
			return &errors.ValidationError{
				Field:   "id",
				Value:   i,
				Message: fmt.Sprintf("record %d (%q) has an empty id", i, r.Name),
			}
		}
		if j, dup := seen[r.ID]; dup {
			return &errors.ValidationError{
				Field:   "id",
				Value:   r.ID,
				Message: fmt.Sprintf("id %q used by records %d and %d", r.ID, j, i),
			}
		}
		seen[r.ID] = i
	}
	return nil
}
