package output

import (
	"io"

	"github.com/agentstation/shelf/internal/cmd/table"
	"github.com/agentstation/shelf/internal/sync"
	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/differ"
)

// Records writes records in the given format.
func Records(w io.Writer, records []catalog.Record, format Format) error {
	if records == nil {
		records = []catalog.Record{}
	}
	var data any = records
	if format.IsTable() || format == FormatMarkdown {
		data = table.RecordsToTableData(records, format == FormatWide)
	}
	return NewFormatter(format).Format(w, data)
}

// Changeset writes a changeset in the given format. Tables use the
// detailed human-readable listing.
func Changeset(w io.Writer, cs *differ.Changeset, format Format) error {
	if format == FormatMarkdown {
		return changesetMarkdown(w, cs)
	}
	if format.IsTable() {
		if format == FormatWide {
			return NewFormatter(format).Format(w, table.ChangesetToTableData(cs))
		}
		cs.Print(w)
		return nil
	}
	return NewFormatter(format).Format(w, cs)
}

// Report writes a sync report in the given format.
func Report(w io.Writer, r *sync.Report, format Format) error {
	if format == FormatMarkdown {
		return reportMarkdown(w, r)
	}
	if format.IsTable() {
		return NewFormatter(format).Format(w, table.ReportToTableData(r))
	}
	return NewFormatter(format).Format(w, r)
}
