// Package list provides the list command implementation.
package list

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/shelf/internal/appcontext"
	"github.com/agentstation/shelf/internal/cmd/filter"
	"github.com/agentstation/shelf/internal/cmd/output"
)

// NewCommand creates the list command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		f     filter.RecordFilter
		store string
	)

	cmd := &cobra.Command{
		Use:     "list",
		GroupID: "core",
		Short:   "List records from the stored catalog",
		Example: `  shelf list                         # All records
  shelf list --missing               # Records absent from the last sync
  shelf list --category tools -o wide
  shelf list --category 'home*' -o markdown
  shelf list --search widget -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := f.Validate(); err != nil {
				return err
			}
			cfg, err := app.SyncConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.URL = store
			}

			st, err := app.Store()
			if err != nil {
				return err
			}
			records, err := st.Load(cmd.Context())
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			return output.Records(cmd.OutOrStdout(), f.Apply(records), format)
		},
	}

	cmd.Flags().StringVar(&f.Category, "category", "", "only records whose category matches this glob or regex")
	cmd.Flags().BoolVar(&f.MissingOnly, "missing", false, "only records marked missing")
	cmd.Flags().BoolVar(&f.PresentOnly, "present", false, "only records present in the last snapshot")
	cmd.Flags().BoolVar(&f.LegacyOnly, "legacy", false, "only records without an href")
	cmd.Flags().StringVar(&f.Search, "search", "", "case-insensitive match on id, name or href")
	cmd.Flags().StringVar(&store, "store", "", "catalog file or URL")
	cmd.MarkFlagsMutuallyExclusive("missing", "present")

	return cmd
}
