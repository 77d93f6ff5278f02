package sync

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/shelf/internal/appcontext"
	"github.com/agentstation/shelf/internal/cmd/output"
	"github.com/agentstation/shelf/internal/config"
	"github.com/agentstation/shelf/internal/fetcher"
	"github.com/agentstation/shelf/internal/sync"
)

// Execute applies flag overrides, runs one sync and writes the report.
func Execute(cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	cfg, err := app.SyncConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	st, err := app.Store()
	if err != nil {
		return err
	}
	pf, err := app.Fetcher()
	if err != nil {
		return err
	}

	syncer, err := sync.New(st, pf, cfg.Source.Pages, cfg.Gate)
	if err != nil {
		return err
	}

	report, err := syncer.Run(cmd.Context(),
		sync.WithDryRun(flags.DryRun),
		sync.WithTimeout(flags.Timeout),
		sync.WithLogger(app.Logger()),
		sync.WithSource(cfg.Source.URL),
	)
	if err != nil {
		return err
	}

	format := output.DetectFormat(app.OutputFormat())
	w := cmd.OutOrStdout()
	if err := output.Report(w, report, format); err != nil {
		return err
	}
	if format.IsTable() && report.Changeset != nil && report.Changeset.HasChanges() {
		return output.Changeset(w, report.Changeset, format)
	}
	return nil
}

// applyFlags overrides configuration values for flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags *Flags) {
	changed := cmd.Flags().Changed
	if changed("source") {
		cfg.Source.URL = flags.Source
	}
	if changed("kind") {
		cfg.Source.Kind = fetcher.Kind(strings.ToLower(flags.Kind))
	}
	if changed("pages") {
		cfg.Source.Pages = flags.Pages
	}
	if changed("store") {
		cfg.Store.URL = flags.Store
	}
	if changed("max-retries") {
		cfg.Gate.MaxRetries = flags.MaxRetries
	}
}
