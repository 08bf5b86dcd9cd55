package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/curator/internal/config"
	"github.com/five82/curator/internal/controller"
	"github.com/five82/curator/internal/gallery"
	"github.com/five82/curator/internal/state"
	"github.com/five82/curator/internal/upload"
)

// transportSlack keeps the gallery client's backstop just above the longest
// per-call timeout so the call's own deadline fires first.
const transportSlack = 5 * time.Second

// Runtime is the wired object graph shared by the TUI and the CLI.
type Runtime struct {
	Config     config.Config
	Logger     zerolog.Logger
	Client     *gallery.Client
	Store      *state.Store
	Controller *controller.Controller
	Scheduler  *controller.Scheduler
	Visibility *controller.Visibility
	Session    *controller.Session
	// Uploader is nil when no upload host is configured.
	Uploader *upload.Client
}

// LoadConfig reads the config file and applies command-line overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	return cfg, nil
}

// Build wires the gallery client, store, controller, and scheduler. Nothing
// touches the network until the session is activated.
func Build(ctx context.Context, cfg config.Config, logger zerolog.Logger, uploadOpts ...upload.Option) (*Runtime, error) {
	client, err := gallery.NewClient(cfg.APIURL,
		gallery.WithLogger(logger.With().Str("component", "gallery").Logger()),
		gallery.WithTransportTimeout(cfg.RequestTimeout()+transportSlack),
	)
	if err != nil {
		return nil, fmt.Errorf("init gallery client: %w", err)
	}

	store := &state.Store{}
	ctl := controller.New(client, store,
		controller.WithLogger(logger.With().Str("component", "controller").Logger()),
		controller.WithTimeouts(cfg.ProbeTimeout, cfg.ListTimeout, cfg.DeleteTimeout),
		controller.WithBackendLabel(client.BaseURL()),
	)
	sched := controller.NewScheduler(ctl,
		controller.WithPeriod(cfg.PollInterval),
		controller.WithContext(ctx),
		controller.WithSchedulerLogger(logger.With().Str("component", "scheduler").Logger()),
	)
	vis := controller.NewVisibility(true)

	rt := &Runtime{
		Config:     cfg,
		Logger:     logger,
		Client:     client,
		Store:      store,
		Controller: ctl,
		Scheduler:  sched,
		Visibility: vis,
		Session:    controller.NewSession(ctl, sched, vis),
	}

	if cfg.Upload.Enabled() {
		opts := append([]upload.Option{upload.WithLogger(logger.With().Str("component", "upload").Logger())}, uploadOpts...)
		up, err := upload.NewClient(upload.Settings{
			Endpoint:  cfg.Upload.Endpoint,
			CloudName: cfg.Upload.CloudName,
			Preset:    cfg.Upload.Preset,
			Folder:    cfg.Upload.Folder,
			MaxBytes:  cfg.Upload.MaxBytes,
			Formats:   cfg.Upload.Formats,
		}, opts...)
		if err != nil {
			return nil, fmt.Errorf("init upload client: %w", err)
		}
		rt.Uploader = up
	}
	return rt, nil
}

// Close stops background work owned by the runtime.
func (r *Runtime) Close() {
	r.Session.Close()
}
