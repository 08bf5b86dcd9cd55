package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/curator/internal/controller"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:     "delete <public_id>",
	Aliases: []string{"rm"},
	Short:   "Delete one image from the gallery",
	Long: `Delete an image by its public ID after confirming on stdin.

Example:
  curator delete gallery/cat
  curator delete gallery/cat --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}

// stdinConfirmer asks on the command's streams and accepts y or yes.
type stdinConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (s stdinConfirmer) Confirm(ctx context.Context, prompt string) bool {
	fmt.Fprintf(s.out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(s.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	var confirm controller.Confirmer = stdinConfirmer{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
	if deleteYes {
		confirm = controller.ConfirmFunc(func(context.Context, string) bool { return true })
	}

	outcome := rt.Controller.Delete(cmd.Context(), controller.DeleteRequest{
		PublicID: args[0],
		Confirm:  confirm,
	})
	notice := rt.Store.Snapshot().Notice

	switch outcome {
	case controller.DeleteDeclined:
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	case controller.DeleteFailed:
		return errors.New(notice.Message)
	}

	fmt.Fprintln(cmd.OutOrStdout(), notice.Message)
	if snap := rt.Store.Snapshot(); !snap.Failed() {
		fmt.Fprintf(cmd.OutOrStdout(), "Total Images: %d\n", snap.Count())
	}
	return nil
}
