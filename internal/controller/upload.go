package controller

import (
	"context"
	"path/filepath"
	"time"

	"github.com/five82/curator/internal/state"
	"github.com/five82/curator/internal/upload"
)

// DefaultUploadRefreshDelay gives the vendor time to index a new asset
// before the gallery is fetched again.
const DefaultUploadRefreshDelay = 1500 * time.Millisecond

// Uploader sends one local file to the image host.
type Uploader interface {
	Upload(ctx context.Context, path string) (upload.Result, error)
}

// Upload sends path through up and, on success, schedules a single refresh
// after delay.
func (c *Controller) Upload(ctx context.Context, up Uploader, path string, delay time.Duration) error {
	res, err := up.Upload(ctx, path)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("upload failed")
		c.Notify(state.NoticeError, "Upload failed: "+err.Error())
		return err
	}

	name := res.OriginalFilename
	if name == "" {
		name = filepath.Base(path)
	}
	c.logger.Info().Str("path", path).Str("public_id", res.PublicID).Msg("upload complete")
	c.Notify(state.NoticeSuccess, "Upload successful: "+name)

	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, func() {
		c.Refresh(ctx)
	})
	return nil
}
