package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/shelf/cmd/shelf/cmd/diff"
	"github.com/agentstation/shelf/cmd/shelf/cmd/list"
	"github.com/agentstation/shelf/cmd/shelf/cmd/serve"
	synccmd "github.com/agentstation/shelf/cmd/shelf/cmd/sync"
	"github.com/agentstation/shelf/cmd/shelf/cmd/version"
	"github.com/agentstation/shelf/internal/cmd/output"
)

// Execute runs the shelf CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "shelf",
		Short:   "Catalog reconciliation CLI",
		Version: a.version,
		Long: `Shelf keeps a persistent product catalog in step with a paginated
listing source.

Each sync fetches a snapshot of every page, retries while the snapshot is
suspiciously small compared to the stored catalog, and then reconciles it
with the stored records. Identities stay stable across renames, prices
never regress to empty, and records that disappear are marked missing
instead of being deleted.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", a.config.ConfigFile, "config file (default is $HOME/.shelf.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "output format: table, json, yaml, wide, markdown")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("shelf {{.Version}}\n")

	rootCmd.AddCommand(synccmd.NewCommand(a))
	rootCmd.AddCommand(list.NewCommand(a))
	rootCmd.AddCommand(diff.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// These flags are defined as persistent flags in createRootCommand, so errors indicate programming errors
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")

	if _, err := output.ParseFormat(format); err != nil {
		return err
	}

	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
