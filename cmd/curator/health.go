package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the backend is reachable",
	Long: `Probe the backend's /health endpoint with the configured probe timeout.

Exit codes:
  0 - backend answered with a 2xx status
  1 - backend unreachable, timed out, or returned an error status`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	if !rt.Controller.Probe(cmd.Context()) {
		return fmt.Errorf("backend %s is not available", rt.Client.BaseURL())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "backend %s is online\n", rt.Client.BaseURL())
	return nil
}
