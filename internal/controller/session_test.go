package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/five82/curator/internal/state"
	"github.com/five82/curator/internal/upload"
)

func TestSession_ActivateHealthy(t *testing.T) {
	backend := &fakeBackend{}
	store := &state.Store{}
	c := New(backend, store)
	rec := &tickerRecorder{}
	s := NewScheduler(c, WithTickerFactory(rec.factory))
	vis := NewVisibility(true)
	sess := NewSession(c, s, vis)
	defer sess.Close()

	if !sess.Activate(context.Background()) {
		t.Fatalf("Activate = false, want true")
	}
	if backend.listCalls.Load() != 1 {
		t.Fatalf("list calls = %d, want 1 immediate refresh", backend.listCalls.Load())
	}
	if !s.Armed() || !sess.Active() {
		t.Fatalf("Armed=%v Active=%v, want both true", s.Armed(), sess.Active())
	}
	if vis.Subscribers() != 1 {
		t.Fatalf("Subscribers = %d, want 1", vis.Subscribers())
	}

	if !sess.Activate(context.Background()) {
		t.Fatalf("second Activate = false")
	}
	if backend.healthCalls.Load() != 1 || backend.listCalls.Load() != 1 {
		t.Fatalf("second Activate probed or refreshed again")
	}

	sess.Close()
	if s.Armed() || vis.Subscribers() != 0 {
		t.Fatalf("Close left Armed=%v Subscribers=%d", s.Armed(), vis.Subscribers())
	}
}

func TestSession_ActivateUnhealthy(t *testing.T) {
	backend := &fakeBackend{healthErr: errors.New("refused")}
	store := &state.Store{}
	c := New(backend, store)
	s := NewScheduler(c, WithTickerFactory((&tickerRecorder{}).factory))
	sess := NewSession(c, s, NewVisibility(true))

	if sess.Activate(context.Background()) {
		t.Fatalf("Activate = true against unhealthy backend")
	}
	if s.Armed() || sess.Active() {
		t.Fatalf("scheduler armed after failed probe")
	}
	if backend.listCalls.Load() != 0 {
		t.Fatalf("refreshed after failed probe")
	}
	snap := store.Snapshot()
	if snap.Panel.Kind != state.PanelUnavailable || snap.Online {
		t.Fatalf("snapshot = %#v, want unavailable offline", snap)
	}

	backend.healthErr = nil
	if !sess.Activate(context.Background()) {
		t.Fatalf("retry Activate = false after backend recovered")
	}
	sess.Close()
}

func TestSession_HiddenAtStartupStaysUnarmed(t *testing.T) {
	c := New(&fakeBackend{}, &state.Store{})
	s := NewScheduler(c, WithTickerFactory((&tickerRecorder{}).factory))
	vis := NewVisibility(false)
	sess := NewSession(c, s, vis)
	defer sess.Close()

	sess.Activate(context.Background())
	if s.Armed() {
		t.Fatalf("Armed while hidden")
	}
	vis.Set(true)
	if !s.Armed() {
		t.Fatalf("not Armed after becoming visible")
	}
}

func TestSession_VisibleDuringActivateArms(t *testing.T) {
	for i := 0; i < 200; i++ {
		c := New(&fakeBackend{}, &state.Store{})
		s := NewScheduler(c, WithTickerFactory((&tickerRecorder{}).factory))
		vis := NewVisibility(false)
		sess := NewSession(c, s, vis)

		done := make(chan struct{})
		go func() {
			defer close(done)
			vis.Set(true)
		}()
		sess.Activate(context.Background())
		<-done

		if !s.Armed() {
			sess.Close()
			t.Fatalf("iteration %d: visible after Activate but scheduler not armed", i)
		}
		sess.Close()
	}
}

func TestUpload_SuccessNotifiesAndRefreshesLater(t *testing.T) {
	backend := &fakeBackend{}
	store := &state.Store{}
	c := New(backend, store)

	err := c.Upload(context.Background(), fakeUploader{res: upload.Result{OriginalFilename: "cat"}}, "/tmp/cat.png", 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	notice := store.Snapshot().Notice
	if notice.Kind != state.NoticeSuccess || notice.Message != "Upload successful: cat" {
		t.Fatalf("notice = %#v", notice)
	}
	if backend.listCalls.Load() != 0 {
		t.Fatalf("refreshed before delay elapsed")
	}
	waitFor(t, func() bool { return backend.listCalls.Load() == 1 })
}

func TestUpload_FailureNotifies(t *testing.T) {
	backend := &fakeBackend{}
	store := &state.Store{}
	c := New(backend, store)

	err := c.Upload(context.Background(), fakeUploader{err: errors.New("too big")}, "/tmp/cat.png", 0)
	if err == nil {
		t.Fatalf("Upload returned nil error")
	}
	notice := store.Snapshot().Notice
	if notice.Kind != state.NoticeError || notice.Message != "Upload failed: too big" {
		t.Fatalf("notice = %#v", notice)
	}
	time.Sleep(20 * time.Millisecond)
	if backend.listCalls.Load() != 0 {
		t.Fatalf("failed upload triggered a refresh")
	}
}
