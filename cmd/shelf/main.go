// Package main provides the entry point for the shelf CLI tool.
package main

import (
	"context"
	"os"

	"github.com/agentstation/shelf/cmd/shelf/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	// Cancel in-flight fetches on SIGINT/SIGTERM; an interrupted sync never saves.
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
