package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/curator/internal/gallery"
	"github.com/five82/curator/internal/state"
)

const (
	DefaultProbeTimeout  = 5 * time.Second
	DefaultListTimeout   = 10 * time.Second
	DefaultDeleteTimeout = 10 * time.Second
)

// Controller owns the gallery fetch/delete lifecycle. The RefreshFlag that
// enforces single-flight fetching lives here rather than in package state.
type Controller struct {
	backend gallery.Backend
	store   *state.Store
	logger  zerolog.Logger

	probeTimeout  time.Duration
	listTimeout   time.Duration
	deleteTimeout time.Duration
	backendLabel  string

	refreshing atomic.Bool

	mu       sync.Mutex
	onChange func()
}

// Option customizes a Controller.
type Option func(*Controller)

// WithTimeouts overrides the per-request deadlines. Zero keeps the default.
func WithTimeouts(probe, list, del time.Duration) Option {
	return func(c *Controller) {
		if probe > 0 {
			c.probeTimeout = probe
		}
		if list > 0 {
			c.listTimeout = list
		}
		if del > 0 {
			c.deleteTimeout = del
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithBackendLabel sets the address shown in connection error panels.
func WithBackendLabel(label string) Option {
	return func(c *Controller) {
		c.backendLabel = label
	}
}

// New builds a Controller writing into store.
func New(backend gallery.Backend, store *state.Store, opts ...Option) *Controller {
	c := &Controller{
		backend:       backend,
		store:         store,
		logger:        zerolog.Nop(),
		probeTimeout:  DefaultProbeTimeout,
		listTimeout:   DefaultListTimeout,
		deleteTimeout: DefaultDeleteTimeout,
		backendLabel:  "the backend",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the snapshot store the controller writes to.
func (c *Controller) Store() *state.Store {
	return c.store
}

// SetOnChange registers fn to be called after every store mutation.
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Controller) changed() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Refreshing reports whether a gallery fetch is in flight.
func (c *Controller) Refreshing() bool {
	return c.refreshing.Load()
}

// Probe checks backend liveness and updates the connectivity indicator.
func (c *Controller) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	err := c.backend.Health(ctx)
	c.store.SetOnline(err == nil)
	c.changed()
	if err != nil {
		c.logger.Warn().Err(err).Bool("timeout", gallery.IsTimeout(err)).Msg("health probe failed")
		return false
	}
	c.logger.Debug().Msg("health probe ok")
	return true
}

// Refresh fetches the gallery and publishes the result to the store. It
// returns false without issuing a request when a fetch is already in flight.
func (c *Controller) Refresh(ctx context.Context) bool {
	if !c.refreshing.CompareAndSwap(false, true) {
		c.logger.Debug().Msg("refresh already in flight, skipping")
		return false
	}
	defer func() {
		c.store.SetLoading(false)
		c.refreshing.Store(false)
		c.changed()
	}()

	c.store.SetLoading(true)
	c.changed()

	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	started := time.Now()
	images, err := c.backend.ListImages(ctx)
	if err != nil {
		var appErr *gallery.AppError
		c.store.SetOnline(errors.As(err, &appErr))
		c.store.SetFailure(c.panelFor(err), err)
		c.logger.Error().Err(err).Dur("elapsed", time.Since(started)).Msg("gallery fetch failed")
		return true
	}

	c.store.SetOnline(true)
	c.store.SetImages(images)
	c.logger.Info().Int("count", len(images)).Dur("elapsed", time.Since(started)).Msg("gallery loaded")
	return true
}

// MarkUnavailable records the startup failure panel after a failed probe.
func (c *Controller) MarkUnavailable() {
	c.store.SetFailure(state.ErrorPanel{
		Kind:   state.PanelUnavailable,
		Title:  "Server Not Available",
		Detail: []string{fmt.Sprintf("Please start your server on %s", c.backendLabel)},
		Retry:  "Retry",
	}, errors.New("backend unavailable"))
	c.changed()
}

// Notify publishes a transient notification.
func (c *Controller) Notify(kind state.NoticeKind, message string) {
	c.store.Notify(kind, message)
	c.changed()
}

func (c *Controller) panelFor(err error) state.ErrorPanel {
	var appErr *gallery.AppError
	var statusErr *gallery.StatusError
	switch {
	case gallery.IsTimeout(err):
		return state.ErrorPanel{
			Kind:   state.PanelTimeout,
			Title:  "Request Timed Out",
			Detail: []string{"Server is taking too long to respond"},
			Retry:  "Try Again",
		}
	case errors.As(err, &appErr):
		msg := appErr.Message
		if msg == "" {
			msg = "The server could not list images"
		}
		return state.ErrorPanel{
			Kind:   state.PanelServer,
			Title:  "Failed to Load Images",
			Detail: []string{msg},
			Retry:  "Try Again",
		}
	case errors.As(err, &statusErr):
		return state.ErrorPanel{
			Kind:   state.PanelHTTP,
			Title:  "Server Error",
			Detail: []string{fmt.Sprintf("HTTP error! status: %d", statusErr.Code)},
			Retry:  "Try Again",
		}
	case errors.Is(err, gallery.ErrMalformed):
		return state.ErrorPanel{
			Kind:   state.PanelMalformed,
			Title:  "Unexpected Response",
			Detail: []string{"The server returned a payload that could not be read"},
			Retry:  "Try Again",
		}
	default:
		return state.ErrorPanel{
			Kind:  state.PanelConnection,
			Title: "Connection Error",
			Detail: []string{
				fmt.Sprintf("Make sure your server is running on %s", c.backendLabel),
				"Error: " + err.Error(),
			},
			Retry: "Retry Connection",
		}
	}
}
