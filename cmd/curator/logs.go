package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/five82/curator/internal/app"
	"github.com/five82/curator/internal/logtail"
)

var (
	logsLines int
	logsLevel string
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the tail of the TUI log file",
	Long: `Print the last lines of the log file the TUI writes (log_file).

Example:
  curator logs -n 100
  curator logs --level warn`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "number of lines to print (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "minimum level to print: debug, info, warn, error")
}

func runLogs(cmd *cobra.Command, args []string) error {
	minLevel := zerolog.TraceLevel
	if s := strings.TrimSpace(logsLevel); s != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(s))
		if err != nil {
			return fmt.Errorf("invalid --level %q: %w", logsLevel, err)
		}
		minLevel = lvl
	}

	cfg, err := app.LoadConfig(options())
	if err != nil {
		return err
	}
	lines, err := logtail.Read(cfg.LogFile, logsLines)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "no log output in %s\n", cfg.LogFile)
		return nil
	}
	for _, line := range logtail.Filter(lines, minLevel) {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
