package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PollInterval != 60*time.Second {
		t.Fatalf("PollInterval = %v, want 60s", cfg.PollInterval)
	}
	if cfg.ListTimeout != 10*time.Second || cfg.ProbeTimeout != 5*time.Second || cfg.DeleteTimeout != 10*time.Second {
		t.Fatalf("timeouts = %v/%v/%v, want 10s/5s/10s", cfg.ListTimeout, cfg.ProbeTimeout, cfg.DeleteTimeout)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if cfg.Upload.Enabled() {
		t.Fatalf("Upload.Enabled = true without cloud_name/preset")
	}
	if cfg.Upload.Folder != "gallery" || cfg.Upload.MaxBytes != 10_000_000 {
		t.Fatalf("Upload = %#v, want gallery folder and 10MB cap", cfg.Upload)
	}
	if cfg.Upload.RefreshDelay != 1500*time.Millisecond {
		t.Fatalf("RefreshDelay = %v, want 1.5s", cfg.Upload.RefreshDelay)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  http://10.0.0.5:9999  "
poll_interval = 30
list_timeout = 4
probe_timeout = 2
delete_timeout = 8
log_file = "  ~/logs/curator.log  "

[upload]
cloud_name = " demo "
preset = "unsigned"
folder = "/photos/"
max_bytes = 2048
formats = [" PNG ", ".webp", "png", ""]
refresh_delay_ms = 250
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:9999" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "http://10.0.0.5:9999")
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("PollInterval = %v, want 30s", cfg.PollInterval)
	}
	if cfg.ListTimeout != 4*time.Second || cfg.ProbeTimeout != 2*time.Second || cfg.DeleteTimeout != 8*time.Second {
		t.Fatalf("timeouts = %v/%v/%v, want 4s/2s/8s", cfg.ListTimeout, cfg.ProbeTimeout, cfg.DeleteTimeout)
	}
	if cfg.LogFile != filepath.Join(home, "logs", "curator.log") {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}

	up := cfg.Upload
	if !up.Enabled() || up.CloudName != "demo" || up.Preset != "unsigned" {
		t.Fatalf("Upload = %#v, want demo/unsigned enabled", up)
	}
	if up.Folder != "photos" {
		t.Fatalf("Folder = %q, want %q", up.Folder, "photos")
	}
	if up.MaxBytes != 2048 {
		t.Fatalf("MaxBytes = %d, want 2048", up.MaxBytes)
	}
	if want := []string{"png", "webp"}; !reflect.DeepEqual(up.Formats, want) {
		t.Fatalf("Formats = %v, want %v", up.Formats, want)
	}
	if up.RefreshDelay != 250*time.Millisecond {
		t.Fatalf("RefreshDelay = %v, want 250ms", up.RefreshDelay)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "   "
log_file = ""
poll_interval = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg.APIURL != def.APIURL || cfg.LogFile != def.LogFile || cfg.PollInterval != def.PollInterval {
		t.Fatalf("cfg = %#v, want defaults %#v", cfg, def)
	}
}

func TestLoad_NegativeValuesFail(t *testing.T) {
	cases := map[string]string{
		"poll_interval":    "poll_interval = -1",
		"list_timeout":     "list_timeout = -3",
		"upload.max_bytes": "[upload]\nmax_bytes = -1",
		"refresh_delay_ms": "[upload]\nrefresh_delay_ms = -5",
	}
	for key, body := range cases {
		t.Run(key, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load returned nil error, want rejection")
			}
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("Load error = %q, want it to mention %s", err.Error(), key)
			}
		})
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestDefault_FormatsAreIndependentCopies(t *testing.T) {
	a := Default()
	a.Upload.Formats[0] = "bmp"
	if Default().Upload.Formats[0] != "png" {
		t.Fatalf("Default formats were mutated through a returned Config")
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestConfig_RequestTimeoutIsLongestCallTimeout(t *testing.T) {
	cfg := Default()
	if got := cfg.RequestTimeout(); got != 10*time.Second {
		t.Fatalf("RequestTimeout = %v, want 10s", got)
	}
	cfg.DeleteTimeout = 2 * time.Minute
	if got := cfg.RequestTimeout(); got != 2*time.Minute {
		t.Fatalf("RequestTimeout = %v, want 2m", got)
	}
}
