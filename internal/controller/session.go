package controller

import (
	"context"
	"sync"
)

// Session gates the refresh lifecycle behind a successful health probe and
// owns the scheduler's visibility subscription.
type Session struct {
	Controller *Controller
	Scheduler  *Scheduler
	Visibility *Visibility

	mu     sync.Mutex
	active bool
	closed bool
	unbind func()
}

// NewSession wires c, s, and v together. Nothing runs until Activate.
func NewSession(c *Controller, s *Scheduler, v *Visibility) *Session {
	return &Session{Controller: c, Scheduler: s, Visibility: v}
}

// Activate probes the backend. When healthy it refreshes once, arms the
// scheduler (if visible), and subscribes to visibility changes. When not, it
// records the unavailable panel so the operator can retry. Activating an
// active session is a no-op that returns true.
func (s *Session) Activate(ctx context.Context) bool {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()

	if !s.Controller.Probe(ctx) {
		s.Controller.MarkUnavailable()
		return false
	}

	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return true
	}
	s.active = true
	s.mu.Unlock()

	s.Controller.Refresh(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	// Subscribe before reading the state so a transition in between is not lost.
	if s.Visibility != nil {
		s.unbind = s.Scheduler.Bind(s.Visibility)
	}
	if s.Visibility.Visible() {
		s.Scheduler.Start()
	}
	return true
}

// Active reports whether Activate has succeeded.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Close stops the scheduler and drops the visibility subscription.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	unbind := s.unbind
	s.unbind = nil
	s.mu.Unlock()

	if unbind != nil {
		unbind()
	}
	s.Scheduler.Stop()
}
