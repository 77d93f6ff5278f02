// Package filter narrows catalog records for the list command.
package filter

import (
	"strings"

	"github.com/agentstation/shelf/internal/matcher"
	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/errors"
)

// RecordFilter applies filters to record lists.
type RecordFilter struct {
	Category    string // Case-insensitive glob or regex
	MissingOnly bool
	PresentOnly bool
	LegacyOnly  bool
	Search      string // Case-insensitive match on id, name or href
}

// Validate checks that the category pattern compiles.
func (f *RecordFilter) Validate() error {
	if f == nil || f.Category == "" {
		return nil
	}
	if _, err := f.categoryMatcher(); err != nil {
		return errors.WrapValidation("category", err)
	}
	return nil
}

// Apply filters a slice of records, keeping their order. An invalid
// category pattern matches nothing.
func (f *RecordFilter) Apply(records []catalog.Record) []catalog.Record {
	if f == nil || f.isEmpty() {
		return records
	}

	var category *matcher.Matcher
	if f.Category != "" {
		m, err := f.categoryMatcher()
		if err != nil {
			return nil
		}
		category = m
	}

	var filtered []catalog.Record
	for _, rec := range records {
		if f.matches(rec, category) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func (f *RecordFilter) categoryMatcher() (*matcher.Matcher, error) {
	return matcher.New(matcher.Auto, f.Category, matcher.WithCaseInsensitive())
}

func (f *RecordFilter) isEmpty() bool {
	return f.Category == "" &&
		!f.MissingOnly &&
		!f.PresentOnly &&
		!f.LegacyOnly &&
		f.Search == ""
}

func (f *RecordFilter) matches(rec catalog.Record, category *matcher.Matcher) bool {
	if category != nil && !category.Match(rec.Category) {
		return false
	}
	if f.MissingOnly && !rec.Missing {
		return false
	}
	if f.PresentOnly && rec.Missing {
		return false
	}
	if f.LegacyOnly && !rec.IsLegacy() {
		return false
	}
	if f.Search != "" && !f.matchesSearch(rec) {
		return false
	}
	return true
}

func (f *RecordFilter) matchesSearch(rec catalog.Record) bool {
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(rec.ID), term) ||
		strings.Contains(strings.ToLower(rec.Name), term) ||
		strings.Contains(strings.ToLower(rec.Href), term)
}
