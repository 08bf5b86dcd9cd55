package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/five82/curator/internal/upload"
)

var uploadQuiet bool

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload images to the gallery's image host",
	Long: `Upload one or more local images using the [upload] settings.

Every file is checked against max_bytes and formats before anything is
sent. A progress bar is drawn on stderr unless --quiet is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().BoolVarP(&uploadQuiet, "quiet", "q", false, "disable the progress bar")
}

func runUpload(cmd *cobra.Command, args []string) error {
	var opts []upload.Option
	if !uploadQuiet {
		opts = append(opts, upload.WithReaderWrapper(progressWrapper(cmd.ErrOrStderr())))
	}
	rt, err := buildRuntime(cmd, opts...)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.Uploader == nil {
		return errors.New("upload is not configured: set [upload] cloud_name and preset")
	}

	for _, path := range args {
		if _, err := rt.Uploader.Validate(path); err != nil {
			return err
		}
	}

	failed := 0
	for _, path := range args {
		res, err := rt.Uploader.Upload(cmd.Context(), path)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "Upload failed: %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Upload successful: %s -> %s\n", res.OriginalFilename, res.PublicID)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(args))
	}
	return nil
}

// progressWrapper draws one byte-progress bar per upload attempt.
func progressWrapper(w io.Writer) upload.ReaderWrapper {
	return func(r io.Reader, size int64, name string) io.Reader {
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetDescription(name),
			progressbar.OptionSetWriter(w),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(w, "\n")
			}),
			progressbar.OptionSetRenderBlankState(true),
		)
		reader := progressbar.NewReader(r, bar)
		return &reader
	}
}
