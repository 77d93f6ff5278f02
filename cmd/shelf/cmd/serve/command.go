// Package serve provides the serve command implementation.
package serve

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/shelf/internal/appcontext"
	"github.com/agentstation/shelf/internal/server"
)

// NewCommand creates the serve command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cfg := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "core",
		Short:   "Serve the catalog over HTTP",
		Long: `Serve exposes the stored catalog as a JSON API.

Endpoints (under --prefix, default /api/v1):
  GET  /records        list records (category, missing, present, legacy, search, limit, offset)
  GET  /records/{id}   one record
  POST /sync           run a sync now (?dry_run=true to preview)
  GET  /stats          catalog and server statistics
  GET  /ready          readiness probe
  GET  /health         liveness probe (also at the root)`,
		Example: `  shelf serve
  shelf serve --port 9000 --cors
  shelf serve --host 0.0.0.0 --cache-ttl 30s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.SyncConfig()
			if err != nil {
				return err
			}
			if err := settings.Validate(); err != nil {
				return err
			}

			srv, err := server.New(app, cfg)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.Host, "host", cfg.Host, "host address to bind to")
	cmd.Flags().IntVar(&cfg.Port, "port", cfg.Port, "port to listen on")
	cmd.Flags().StringVar(&cfg.PathPrefix, "prefix", cfg.PathPrefix, "API path prefix")
	cmd.Flags().BoolVar(&cfg.CORSEnabled, "cors", cfg.CORSEnabled, "enable CORS")
	cmd.Flags().StringSliceVar(&cfg.CORSOrigins, "cors-origins", cfg.CORSOrigins, "allowed CORS origins (default all when --cors is set)")
	cmd.Flags().DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "how long read responses are cached")

	return cmd
}
