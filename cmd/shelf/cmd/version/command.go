// Package version provides the version command implementation.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/shelf/internal/appcontext"
)

// NewCommand creates the version command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "shelf version %s\n", app.Version())
			fmt.Fprintf(w, "commit: %s\n", app.Commit())
			fmt.Fprintf(w, "built: %s\n", app.Date())
			fmt.Fprintf(w, "built by: %s\n", app.BuiltBy())
			fmt.Fprintf(w, "go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
