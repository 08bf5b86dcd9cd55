package state

import (
	"sync"
	"time"

	"github.com/five82/curator/internal/gallery"
)

// PanelKind distinguishes the error states the gallery pane can show.
type PanelKind int

const (
	PanelNone PanelKind = iota
	PanelTimeout
	PanelConnection
	PanelHTTP
	PanelServer
	PanelMalformed
	PanelUnavailable
)

// ErrorPanel replaces the gallery cards when a fetch fails.
type ErrorPanel struct {
	Kind   PanelKind
	Title  string
	Detail []string
	Retry  string
}

// NoticeKind selects notification styling.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// NoticeTTL is how long a notification stays on screen.
const NoticeTTL = 4 * time.Second

// Notice is a transient notification.
type Notice struct {
	Kind    NoticeKind
	Message string
	At      time.Time
}

// Visible reports whether the notice should still be displayed at now.
func (n Notice) Visible(now time.Time) bool {
	if n.Message == "" || n.At.IsZero() {
		return false
	}
	return now.Sub(n.At) < NoticeTTL
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Images              []gallery.ImageRecord
	Loaded              bool // at least one successful fetch
	Loading             bool
	Panel               ErrorPanel
	Online              bool
	HasStatus           bool // connectivity has been determined at least once
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
	Notice              Notice
}

// Count returns the number of images currently displayed.
func (s Snapshot) Count() int {
	return len(s.Images)
}

// Failed reports whether the gallery pane should show an error panel.
func (s Snapshot) Failed() bool {
	return s.Panel.Kind != PanelNone
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetImages replaces the gallery wholesale after a successful fetch.
func (s *Store) SetImages(images []gallery.ImageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Images = cloneImages(images)
	if s.snapshot.Images == nil {
		s.snapshot.Images = []gallery.ImageRecord{}
	}
	s.snapshot.Loaded = true
	s.snapshot.Panel = ErrorPanel{}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// SetFailure clears the gallery and records the panel to show instead.
func (s *Store) SetFailure(panel ErrorPanel, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Images = nil
	s.snapshot.Panel = panel
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

// SetLoading toggles the in-flight indicator.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Loading = loading
}

// SetOnline updates the connectivity indicator.
func (s *Store) SetOnline(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Online = online
	s.snapshot.HasStatus = true
}

// Notify records a notification, replacing any previous one.
func (s *Store) Notify(kind NoticeKind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Notice = Notice{Kind: kind, Message: message, At: time.Now()}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Images = cloneImages(s.snapshot.Images)
	if s.snapshot.Images != nil && snap.Images == nil {
		snap.Images = []gallery.ImageRecord{}
	}
	snap.Panel.Detail = append([]string(nil), s.snapshot.Panel.Detail...)
	return snap
}

func cloneImages(items []gallery.ImageRecord) []gallery.ImageRecord {
	if len(items) == 0 {
		return nil
	}
	dup := make([]gallery.ImageRecord, len(items))
	copy(dup, items)
	return dup
}
