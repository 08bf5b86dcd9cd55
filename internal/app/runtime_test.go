package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/curator/internal/config"
)

func TestLoadConfig_AppliesOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("api_url = \"http://example.test:8080\"\npoll_interval = 90\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.PollInterval != 90*time.Second || cfg.APIURL != "http://example.test:8080" {
		t.Fatalf("cfg = %v %q, want file values", cfg.PollInterval, cfg.APIURL)
	}

	cfg, err = LoadConfig(Options{ConfigPath: path, PollEvery: 5, APIURL: "http://other.test"})
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("PollInterval = %v, want 5s", cfg.PollInterval)
	}
	if cfg.APIURL != "http://other.test" {
		t.Fatalf("APIURL = %q, want override", cfg.APIURL)
	}
}

func TestBuild_WiresSessionAgainstBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/gallery-images":
			_, _ = w.Write([]byte(`{"success":true,"images":[{"public_id":"gallery/a","secure_url":"https://x/a.png","created_at":"2024-05-01T10:00:00Z"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.APIURL = srv.URL
	cfg.PollInterval = time.Hour

	rt, err := Build(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	defer rt.Close()

	if rt.Uploader != nil {
		t.Fatalf("Uploader built without upload settings")
	}
	if rt.Scheduler.Period() != time.Hour {
		t.Fatalf("Period = %v, want 1h", rt.Scheduler.Period())
	}
	if !rt.Session.Activate(context.Background()) {
		t.Fatalf("Activate = false against healthy backend")
	}
	snap := rt.Store.Snapshot()
	if snap.Count() != 1 || !snap.Online {
		t.Fatalf("snapshot count=%d online=%v, want 1 online", snap.Count(), snap.Online)
	}
	if !rt.Scheduler.Armed() {
		t.Fatalf("scheduler not armed after activation")
	}
}

func TestBuild_UploaderWhenConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.Upload.CloudName = "demo"
	cfg.Upload.Preset = "unsigned"

	rt, err := Build(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	defer rt.Close()
	if rt.Uploader == nil {
		t.Fatalf("Uploader = nil, want client")
	}
	if got := rt.Uploader.Settings().Folder; got != "gallery" {
		t.Fatalf("Folder = %q, want gallery", got)
	}
}

func TestBuild_InvalidURLFails(t *testing.T) {
	cfg := config.Default()
	cfg.APIURL = "http://"
	if _, err := Build(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("Build returned nil error for URL without host")
	}
}

func TestBuild_TransportTimeoutCoversCallTimeouts(t *testing.T) {
	cfg := config.Default()
	cfg.ListTimeout = 90 * time.Second

	rt, err := Build(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	defer rt.Close()

	if got := rt.Client.TransportTimeout(); got <= cfg.ListTimeout {
		t.Fatalf("TransportTimeout = %v, want above list_timeout %v", got, cfg.ListTimeout)
	}
}
