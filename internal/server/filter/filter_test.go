package filter

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/errors"
)

func TestParseRecordQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    RecordQuery
		wantErr bool
	}{
		{
			name:  "defaults",
			query: "",
			want:  RecordQuery{Limit: DefaultLimit},
		},
		{
			name:  "filters",
			query: "category=tools&missing=true&search=ham",
			want: RecordQuery{
				Limit: DefaultLimit,
			},
		},
		{
			name:  "limit capped",
			query: "limit=5000&offset=10",
			want:  RecordQuery{Limit: MaxLimit, Offset: 10},
		},
		{name: "bad limit", query: "limit=0", wantErr: true},
		{name: "bad offset", query: "offset=-1", wantErr: true},
		{name: "bad bool", query: "legacy=maybe", wantErr: true},
		{name: "conflicting flags", query: "missing=1&present=1", wantErr: true},
		{name: "bad category pattern", query: "category=%5B", wantErr: true},
	}
	tests[1].want.Filter.Category = "tools"
	tests[1].want.Filter.MissingOnly = true
	tests[1].want.Filter.Search = "ham"

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/records?"+tt.query, nil)
			got, err := ParseRecordQuery(r)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyPaginates(t *testing.T) {
	records := make([]catalog.Record, 0, 25)
	for i := 1; i <= 25; i++ {
		records = append(records, catalog.Record{ID: fmt.Sprint(i), Name: fmt.Sprintf("Item %d", i)})
	}

	page := RecordQuery{Limit: 10, Offset: 20}.Apply(records)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 5, page.Count)
	assert.Equal(t, "21", page.Records[0].ID)

	page = RecordQuery{Limit: 10, Offset: 40}.Apply(records)
	assert.Equal(t, 0, page.Count)
	assert.NotNil(t, page.Records)
}
