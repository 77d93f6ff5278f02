package output

import (
	"io"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/shelf/internal/cmd/table"
	"github.com/agentstation/shelf/internal/sync"
	"github.com/agentstation/shelf/pkg/differ"
)

// MarkdownFormatter renders table data as a GitHub-flavored markdown table.
// Data that is not a table.Data is written as JSON.
type MarkdownFormatter struct{}

// Format implements the Formatter interface for markdown output.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case table.Data:
		return markdownTable(md.NewMarkdown(w), v).Build()
	case *table.Data:
		return markdownTable(md.NewMarkdown(w), *v).Build()
	default:
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}
}

func markdownTable(doc *md.Markdown, data table.Data) *md.Markdown {
	if len(data.Rows) == 0 {
		return doc.PlainText(md.Italic("No records")).LF()
	}
	return doc.Table(md.TableSet{
		Header: data.Headers,
		Rows:   data.Rows,
	})
}

// changesetMarkdown writes a changeset as a summary line plus a change table.
func changesetMarkdown(w io.Writer, cs *differ.Changeset) error {
	doc := md.NewMarkdown(w).H2("Changes")
	if !cs.HasChanges() {
		return doc.PlainText(md.Italic("No changes detected")).Build()
	}
	doc.PlainText(cs.String()).LF()
	return markdownTable(doc, table.ChangesetToTableData(cs)).Build()
}

// reportMarkdown writes a sync report, its warnings and its changes.
func reportMarkdown(w io.Writer, r *sync.Report) error {
	doc := md.NewMarkdown(w).H1("Sync " + r.RunID)
	markdownTable(doc, table.ReportToTableData(r))
	if len(r.Warnings) > 0 {
		doc.H2("Warnings").BulletList(r.Warnings...)
	}
	if err := doc.Build(); err != nil {
		return err
	}
	if r.Changeset == nil {
		return nil
	}
	return changesetMarkdown(w, r.Changeset)
}
