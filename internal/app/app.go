package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/five82/curator/internal/controller"
	"github.com/five82/curator/internal/logging"
	"github.com/five82/curator/internal/prefs"
	"github.com/five82/curator/internal/ui"
)

// Options configure the curator application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/curator/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
	APIURL     string // overrides api_url when set
	Verbose    bool
}

// Run boots the curator TUI until the context is cancelled or the operator quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	logger, closer, err := logging.File(cfg.LogFile, logging.Level(opts.Verbose, zerolog.InfoLevel))
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	rt, err := Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	userPrefs := prefs.Load(opts.PrefsPath, logger)
	logger.Info().
		Str("api_url", rt.Client.BaseURL()).
		Dur("poll", cfg.PollInterval).
		Bool("upload", rt.Uploader != nil).
		Msg("curator starting")

	var uploader controller.Uploader
	hint := ""
	if rt.Uploader != nil {
		uploader = rt.Uploader
		set := rt.Uploader.Settings()
		hint = fmt.Sprintf("%s, up to %d MB, into %q", strings.Join(set.Formats, "/"), set.MaxBytes/1_000_000, set.Folder)
	}

	uiOpts := ui.Options{
		Context:      ctx,
		Session:      rt.Session,
		Store:        rt.Store,
		Uploader:     uploader,
		UploadHint:   hint,
		UploadDelay:  cfg.Upload.RefreshDelay,
		Logger:       logger.With().Str("component", "ui").Logger(),
		ThemeName:    userPrefs.Theme,
		AutoRefresh:  !userPrefs.AutoRefreshOff,
		PrefsPath:    opts.PrefsPath,
		BackendLabel: rt.Client.BaseURL(),
		LogFile:      cfg.LogFile,
	}
	return ui.Run(uiOpts)
}
