// Package diff provides the diff command implementation.
package diff

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/shelf/internal/appcontext"
	"github.com/agentstation/shelf/internal/cmd/output"
	"github.com/agentstation/shelf/internal/sync"
	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/differ"
	"github.com/agentstation/shelf/pkg/store"
)

// NewCommand creates the diff command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var ignore []string

	cmd := &cobra.Command{
		Use:     "diff [<old> <new>]",
		GroupID: "core",
		Short:   "Preview a sync or compare two catalog files",
		Long: `Without arguments, diff fetches the source, reconciles it with the
stored catalog and prints what a sync would change. Nothing is saved.

With two arguments, diff loads both catalog documents and reports the
records that were added, updated, restored, marked missing or removed
between them. Documents are read the same way sync reads the catalog: an
absent or unreadable document is an empty catalog.`,
		Example: `  shelf diff                                  # Preview the next sync
  shelf diff catalog.json.bak catalog.json
  shelf diff old.yaml new.json --ignore price -o json`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts 0 or 2 arg(s), received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			format := output.DetectFormat(app.OutputFormat())
			if len(args) == 0 {
				cs, err := preview(cmd, app)
				if err != nil {
					return err
				}
				return output.Changeset(cmd.OutOrStdout(), cs, format)
			}

			old, err := load(cmd, app, args[0])
			if err != nil {
				return err
			}
			updated, err := load(cmd, app, args[1])
			if err != nil {
				return err
			}

			cs := differ.New(
				differ.WithIgnoredFields(ignore...),
				differ.WithPriceDeltas(true),
			).Records(old, updated)
			app.Logger().Debug().Int("changes", cs.Summary.TotalChanges).Msg("Compared catalogs")

			return output.Changeset(cmd.OutOrStdout(), cs, format)
		},
	}

	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "fields to ignore when comparing files: name, href, category, price")

	return cmd
}

// preview runs a dry-run sync and returns its changeset.
func preview(cmd *cobra.Command, app appcontext.Interface) (*differ.Changeset, error) {
	cfg, err := app.SyncConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	st, err := app.Store()
	if err != nil {
		return nil, err
	}
	pf, err := app.Fetcher()
	if err != nil {
		return nil, err
	}
	syncer, err := sync.New(st, pf, cfg.Source.Pages, cfg.Gate)
	if err != nil {
		return nil, err
	}
	report, err := syncer.Run(cmd.Context(), sync.WithDryRun(true), sync.WithLogger(app.Logger()))
	if err != nil {
		return nil, err
	}
	for _, warning := range report.Warnings {
		app.Logger().Warn().Msg(warning)
	}
	return report.Changeset, nil
}

func load(cmd *cobra.Command, app appcontext.Interface, URL string) (catalog.Records, error) {
	st, err := store.NewFileStore(URL, store.WithLogger(app.Logger()))
	if err != nil {
		return nil, err
	}
	return st.Load(cmd.Context())
}
