package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/errors"
)

var records = []catalog.Record{
	{ID: "1", Name: "Widget", Href: "/tools/1", Category: "tools"},
	{ID: "2", Name: "Gadget", Href: "/toys/2", Category: "toys", Missing: true},
	{ID: "name-gizmo", Name: "Gizmo"},
}

func ids(rs []catalog.Record) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestRecordFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter *RecordFilter
		want   []string
	}{
		{name: "nil filter", filter: nil, want: []string{"1", "2", "name-gizmo"}},
		{name: "empty filter", filter: &RecordFilter{}, want: []string{"1", "2", "name-gizmo"}},
		{name: "category", filter: &RecordFilter{Category: "TOOLS"}, want: []string{"1"}},
		{name: "category glob", filter: &RecordFilter{Category: "to*"}, want: []string{"1", "2"}},
		{name: "category regex", filter: &RecordFilter{Category: "^toy"}, want: []string{"2"}},
		{name: "invalid category", filter: &RecordFilter{Category: "["}, want: []string{}},
		{name: "missing", filter: &RecordFilter{MissingOnly: true}, want: []string{"2"}},
		{name: "present", filter: &RecordFilter{PresentOnly: true}, want: []string{"1", "name-gizmo"}},
		{name: "legacy", filter: &RecordFilter{LegacyOnly: true}, want: []string{"name-gizmo"}},
		{name: "search name", filter: &RecordFilter{Search: "dget"}, want: []string{"1", "2"}},
		{name: "search href", filter: &RecordFilter{Search: "/toys"}, want: []string{"2"}},
		{name: "no match", filter: &RecordFilter{Search: "zzz"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(records)))
		})
	}
}

func TestRecordFilterValidate(t *testing.T) {
	assert.NoError(t, (*RecordFilter)(nil).Validate())
	assert.NoError(t, (&RecordFilter{Category: "to*"}).Validate())

	err := (&RecordFilter{Category: "["}).Validate()
	assert.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
