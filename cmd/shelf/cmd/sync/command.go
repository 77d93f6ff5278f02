// Package sync provides the sync command implementation.
package sync

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/shelf/internal/appcontext"
)

// Flags holds the sync command flags.
type Flags struct {
	DryRun     bool
	Source     string
	Kind       string
	Pages      int
	Store      string
	MaxRetries int
	Timeout    time.Duration
}

// NewCommand creates the sync command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Fetch the source and reconcile it into the catalog",
		Long: `Sync fetches every page of the listing source and reconciles the
snapshot with the stored catalog.

The command will:
• Load the stored catalog (a missing or unreadable file is an empty catalog)
• Fetch all pages, retrying while fewer distinct listings arrive than expected
• Match listings to records by id, then href, then name for legacy records
• Mark records absent from the snapshot as missing instead of dropping them
• Save the catalog unless nothing changed or --dry-run is set`,
		Example: `  shelf sync                                 # Sync using ~/.shelf.yaml
  shelf sync --dry-run -o table              # Preview the changes
  shelf sync --source ./pages --kind dir     # Replay saved page files
  shelf sync --pages 5 --max-retries 2       # Override gate settings`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd, app, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "reconcile and report without saving")
	cmd.Flags().StringVar(&flags.Source, "source", "", "listing source URL or directory")
	cmd.Flags().StringVar(&flags.Kind, "kind", "", "source kind: html, json, dir")
	cmd.Flags().IntVar(&flags.Pages, "pages", 0, "number of source pages per snapshot")
	cmd.Flags().StringVar(&flags.Store, "store", "", "catalog file or URL")
	cmd.Flags().IntVar(&flags.MaxRetries, "max-retries", 0, "extra fetch attempts while the snapshot is too small")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "timeout for the whole sync (0 for none)")

	return cmd
}
