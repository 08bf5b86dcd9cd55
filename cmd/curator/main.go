// Package main is the entry point for the curator CLI.
//
// Usage:
//
//	curator                      # Open the gallery console (TUI)
//	curator health               # Probe the backend
//	curator list -o yaml         # Print the gallery
//	curator delete <public_id>   # Delete one image after confirmation
//	curator upload a.png b.jpg   # Upload files to the image host
//	curator version              # Show version info
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/curator/internal/app"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath  string
	pollSeconds int
	apiURL      string
	verbose     bool
)

// rootCmd opens the TUI when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Terminal admin console for an image gallery backend",
	Long: `curator manages the images served by a gallery backend.

Run without arguments to open the interactive console. It checks the
backend's /health endpoint, loads the gallery, and refreshes it every
poll interval while the terminal has focus.

Configuration lives in ~/.config/curator/config.toml:
  api_url = "http://localhost:3000"
  poll_interval = 60

  [upload]
  cloud_name = "demo"
  preset = "unsigned_gallery"`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), options())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "curator %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file path (default ~/.config/curator/config.toml)")
	flags.IntVar(&pollSeconds, "poll", 0, "auto-refresh interval in seconds (overrides poll_interval)")
	flags.StringVar(&apiURL, "api-url", "", "backend base URL (overrides api_url)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(versionCmd)
}

func options() app.Options {
	return app.Options{
		ConfigPath: configPath,
		PollEvery:  pollSeconds,
		APIURL:     apiURL,
		Verbose:    verbose,
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		cancel()
		os.Exit(1)
	}
}
