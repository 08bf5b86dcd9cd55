package controller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultRefreshPeriod is the auto-refresh cadence.
const DefaultRefreshPeriod = 60 * time.Second

// Refresher is the subset of *Controller the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) bool
	Refreshing() bool
}

// Ticker abstracts time.Ticker so tests can fire ticks by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds a Ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func newRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Scheduler triggers periodic refreshes while the gallery is visible.
//
// At most one timer is armed at a time. Start and Stop are idempotent and
// safe for concurrent use.
type Scheduler struct {
	refresher  Refresher
	period     time.Duration
	newTicker  TickerFactory
	logger     zerolog.Logger
	baseCtx    context.Context
	visibility *Visibility

	mu     sync.Mutex
	cancel context.CancelFunc // nil when no timer is armed
}

// SchedulerOption customizes a Scheduler.
type SchedulerOption func(*Scheduler)

// WithPeriod overrides the refresh cadence.
func WithPeriod(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.period = d
		}
	}
}

// WithTickerFactory replaces the ticker constructor.
func WithTickerFactory(f TickerFactory) SchedulerOption {
	return func(s *Scheduler) {
		if f != nil {
			s.newTicker = f
		}
	}
}

// WithSchedulerLogger sets the scheduler logger.
func WithSchedulerLogger(logger zerolog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithContext sets the parent context for refreshes started by ticks.
func WithContext(ctx context.Context) SchedulerOption {
	return func(s *Scheduler) {
		if ctx != nil {
			s.baseCtx = ctx
		}
	}
}

// NewScheduler builds an unarmed Scheduler.
func NewScheduler(r Refresher, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		refresher: r,
		period:    DefaultRefreshPeriod,
		newTicker: newRealTicker,
		logger:    zerolog.Nop(),
		baseCtx:   context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Period returns the refresh cadence.
func (s *Scheduler) Period() time.Duration {
	return s.period
}

// Start cancels any armed timer and arms a fresh one.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.cancel = cancel
	ticker := s.newTicker(s.period)

	go s.loop(ctx, ticker)
	s.logger.Debug().Dur("period", s.period).Msg("auto-refresh armed")
}

// Stop disarms the timer if one is armed.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	s.logger.Debug().Msg("auto-refresh stopped")
}

// Armed reports whether a timer is currently armed.
func (s *Scheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Toggle stops an armed scheduler or starts an idle one. It returns the new
// armed state.
func (s *Scheduler) Toggle() bool {
	if s.Armed() {
		s.Stop()
		return false
	}
	s.Start()
	return true
}

// Bind ties the scheduler to v: hidden stops it, visible starts it. Ticks
// also consult v before refreshing. The returned func unsubscribes.
func (s *Scheduler) Bind(v *Visibility) (unbind func()) {
	s.mu.Lock()
	s.visibility = v
	s.mu.Unlock()

	unsubscribe := v.Subscribe(func(visible bool) {
		if visible {
			s.logger.Debug().Msg("gallery visible, resuming auto-refresh")
			s.Start()
			return
		}
		s.logger.Debug().Msg("gallery hidden, pausing auto-refresh")
		s.Stop()
	})
	return func() {
		unsubscribe()
		s.mu.Lock()
		if s.visibility == v {
			s.visibility = nil
		}
		s.mu.Unlock()
	}
}

func (s *Scheduler) loop(ctx context.Context, ticker Ticker) {
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			s.tick()
		}
	}
}

func (s *Scheduler) tick() {
	s.mu.Lock()
	vis := s.visibility
	s.mu.Unlock()

	if !vis.Visible() || s.refresher.Refreshing() {
		s.logger.Debug().
			Bool("visible", vis.Visible()).
			Bool("refreshing", s.refresher.Refreshing()).
			Msg("skipping auto-refresh")
		return
	}
	s.logger.Debug().Msg("auto-refreshing gallery")
	s.refresher.Refresh(s.baseCtx)
}
