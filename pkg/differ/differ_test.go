package differ

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/shelf/pkg/catalog"
)

func TestRecords(t *testing.T) {
	existing := []catalog.Record{
		{ID: "1", Name: "Widget", Href: "/items/1", Category: "items", Price: "$5"},
		{ID: "2", Name: "Gadget", Href: "/items/2", Category: "items", Price: "$10"},
		{ID: "3", Name: "Gizmo", Href: "/items/3", Category: "items", Missing: true},
		{ID: "name-old", Name: "Old"},
		{ID: "4", Name: "Same", Href: "/items/4", Category: "items"},
	}
	updated := []catalog.Record{
		{ID: "1", Name: "Widget Pro", Href: "/items/1", Category: "items", Price: "$7.50"},
		{ID: "5", Name: "New", Href: "/items/5", Category: "items"},
		{ID: "3", Name: "Gizmo", Href: "/items/3", Category: "items"},
		{ID: "4", Name: "Same", Href: "/items/4", Category: "items"},
		{ID: "2", Name: "Gadget", Href: "/items/2", Category: "items", Price: "$10", Missing: true},
	}

	cs := New().Records(existing, updated)

	require.Len(t, cs.Added, 1)
	assert.Equal(t, "5", cs.Added[0].ID)

	require.Len(t, cs.Updated, 1)
	update := cs.Updated[0]
	assert.Equal(t, "1", update.ID)
	require.Len(t, update.Changes, 2)
	assert.Equal(t, "name", update.Changes[0].Path)
	assert.Equal(t, "price", update.Changes[1].Path)
	assert.Equal(t, "+2.5", update.Changes[1].Delta)

	require.Len(t, cs.MarkedMissing, 1)
	assert.Equal(t, "2", cs.MarkedMissing[0].ID)
	require.Len(t, cs.Restored, 1)
	assert.Equal(t, "3", cs.Restored[0].ID)
	require.Len(t, cs.Removed, 1)
	assert.Equal(t, "name-old", cs.Removed[0].ID)

	assert.Equal(t, Summary{Added: 1, Updated: 1, MarkedMissing: 1, Restored: 1, Removed: 1, TotalChanges: 5}, cs.Summary)
	assert.True(t, cs.HasChanges())
	assert.Equal(t, "Changeset: 1 added, 1 updated, 1 restored, 1 missing, 1 removed (Total: 5 changes)", cs.String())
}

func TestRecords_NoChanges(t *testing.T) {
	records := []catalog.Record{{ID: "1", Name: "Widget", Href: "/items/1", Category: "items"}}

	cs := New().Records(records, records)

	assert.True(t, cs.IsEmpty())
	assert.Equal(t, "No changes detected", cs.String())

	var buf bytes.Buffer
	cs.Print(&buf)
	assert.Equal(t, "No changes detected\n", buf.String())
}

func TestRecords_Options(t *testing.T) {
	existing := []catalog.Record{{ID: "1", Name: "A", Price: "$1"}}
	updated := []catalog.Record{{ID: "1", Name: "B", Price: "$2"}}

	cs := New(WithIgnoredFields("name")).Records(existing, updated)
	require.Len(t, cs.Updated, 1)
	require.Len(t, cs.Updated[0].Changes, 1)
	assert.Equal(t, "price", cs.Updated[0].Changes[0].Path)

	cs = New(WithPriceDeltas(false)).Records(existing, updated)
	require.Len(t, cs.Updated, 1)
	for _, c := range cs.Updated[0].Changes {
		assert.Empty(t, c.Delta)
	}

	cs = New(WithIgnoredFields("name", "price")).Records(existing, updated)
	assert.True(t, cs.IsEmpty())
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "$5", want: "5"},
		{in: "$1,299.00", want: "1299"},
		{in: "EUR 12.50", want: "12.5"},
		{in: "12.50 USD", want: "12.5"},
		{in: "-$3", want: "-3"},
		{in: "Free", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestPriceDelta(t *testing.T) {
	d, ok := PriceDelta("$10.00", "$7.25")
	require.True(t, ok)
	assert.Equal(t, "-2.75", d.String())

	_, ok = PriceDelta("", "$1")
	assert.False(t, ok)
}

func TestPrint(t *testing.T) {
	existing := []catalog.Record{{ID: "1", Name: "Widget", Price: "$5"}}
	updated := []catalog.Record{
		{ID: "1", Name: "Widget", Price: "$6"},
		{ID: "2", Name: "Gadget", Price: "$3"},
	}

	var buf bytes.Buffer
	New().Records(existing, updated).Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "Added (1)")
	assert.Contains(t, out, "• 2 (Gadget) - $3")
	assert.Contains(t, out, "price: $5 → $6 (+1)")
}
