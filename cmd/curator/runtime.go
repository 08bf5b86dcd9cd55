package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/five82/curator/internal/app"
	"github.com/five82/curator/internal/logging"
	"github.com/five82/curator/internal/upload"
)

// buildRuntime wires the object graph for a one-shot subcommand. Logs go to
// stderr at warn level unless --verbose is set.
func buildRuntime(cmd *cobra.Command, uploadOpts ...upload.Option) (*app.Runtime, error) {
	cfg, err := app.LoadConfig(options())
	if err != nil {
		return nil, err
	}
	logger := logging.Console(cmd.ErrOrStderr(), logging.Level(verbose, zerolog.WarnLevel))
	return app.Build(cmd.Context(), cfg, logger, uploadOpts...)
}
