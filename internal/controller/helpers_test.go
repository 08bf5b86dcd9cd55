package controller

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/curator/internal/gallery"
	"github.com/five82/curator/internal/upload"
)

type fakeBackend struct {
	healthErr error
	listFn    func(ctx context.Context) ([]gallery.ImageRecord, error)
	deleteFn  func(ctx context.Context, id string) error

	healthCalls atomic.Int32
	listCalls   atomic.Int32
	deleteCalls atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeBackend) Health(ctx context.Context) error {
	f.healthCalls.Add(1)
	return f.healthErr
}

func (f *fakeBackend) ListImages(ctx context.Context) ([]gallery.ImageRecord, error) {
	f.listCalls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.maxInFlight.Load()
		if n <= peak || f.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}
	if f.listFn == nil {
		return []gallery.ImageRecord{}, nil
	}
	return f.listFn(ctx)
}

func (f *fakeBackend) DeleteImage(ctx context.Context, id string) error {
	f.deleteCalls.Add(1)
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

type tickerRecorder struct {
	mu      sync.Mutex
	tickers []*fakeTicker
	periods []time.Duration
}

func (r *tickerRecorder) factory(d time.Duration) Ticker {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	r.tickers = append(r.tickers, t)
	r.periods = append(r.periods, d)
	return t
}

func (r *tickerRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickers)
}

func (r *tickerRecorder) last(t *testing.T) *fakeTicker {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.tickers) == 0 {
		t.Fatalf("no ticker was created")
	}
	return r.tickers[len(r.tickers)-1]
}

type fakeRefresher struct {
	calls atomic.Int32
	busy  atomic.Bool
}

func (f *fakeRefresher) Refresh(ctx context.Context) bool {
	f.calls.Add(1)
	return true
}

func (f *fakeRefresher) Refreshing() bool { return f.busy.Load() }

type fakeUploader struct {
	res upload.Result
	err error
}

func (f fakeUploader) Upload(ctx context.Context, path string) (upload.Result, error) {
	return f.res, f.err
}

// fire delivers one tick. The loop has taken it once the send returns.
func fire(t *testing.T, ticker *fakeTicker) {
	t.Helper()
	select {
	case ticker.ch <- time.Now():
	case <-time.After(2 * time.Second):
		t.Fatalf("tick was not consumed")
	}
}

// settle stops s and waits for its loop to exit, so every tick already
// delivered has been handled.
func settle(t *testing.T, s *Scheduler, ticker *fakeTicker) {
	t.Helper()
	s.Stop()
	waitFor(t, ticker.stopped.Load)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func confirmAlways(answer bool) ConfirmFunc {
	return func(ctx context.Context, prompt string) bool { return answer }
}
