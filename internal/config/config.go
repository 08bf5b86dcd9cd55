package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything curator reads from config.toml.
type Config struct {
	APIURL        string
	PollInterval  time.Duration
	ListTimeout   time.Duration
	ProbeTimeout  time.Duration
	DeleteTimeout time.Duration
	LogFile       string
	Upload        Upload
}

// RequestTimeout returns the longest configured per-request timeout.
func (c Config) RequestTimeout() time.Duration {
	return max(c.ListTimeout, c.ProbeTimeout, c.DeleteTimeout)
}

// Upload holds the image host settings used by the upload modal and
// the upload subcommand.
type Upload struct {
	Endpoint     string // empty uses the image host's public API
	CloudName    string
	Preset       string
	Folder       string
	MaxBytes     int64
	Formats      []string
	RefreshDelay time.Duration
}

// Enabled reports whether enough is configured to attempt an upload.
func (u Upload) Enabled() bool {
	return u.CloudName != "" && u.Preset != ""
}

const (
	defaultConfigPath   = "~/.config/curator/config.toml"
	defaultLogFile      = "~/.local/state/curator/curator.log"
	defaultAPIURL       = "http://localhost:3000"
	defaultPollInterval = 60 * time.Second
	defaultListTimeout  = 10 * time.Second
	defaultProbeTimeout = 5 * time.Second
	defaultDelTimeout   = 10 * time.Second
	defaultFolder       = "gallery"
	defaultMaxBytes     = 10_000_000
	defaultRefreshDelay = 1500 * time.Millisecond
)

var defaultFormats = []string{"png", "jpg", "jpeg", "gif", "webp"}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:        defaultAPIURL,
		PollInterval:  defaultPollInterval,
		ListTimeout:   defaultListTimeout,
		ProbeTimeout:  defaultProbeTimeout,
		DeleteTimeout: defaultDelTimeout,
		LogFile:       mustExpand(defaultLogFile),
		Upload: Upload{
			Folder:       defaultFolder,
			MaxBytes:     defaultMaxBytes,
			Formats:      append([]string(nil), defaultFormats...),
			RefreshDelay: defaultRefreshDelay,
		},
	}
}

type rawConfig struct {
	APIURL        string    `toml:"api_url"`
	PollInterval  int       `toml:"poll_interval"`
	ListTimeout   int       `toml:"list_timeout"`
	ProbeTimeout  int       `toml:"probe_timeout"`
	DeleteTimeout int       `toml:"delete_timeout"`
	LogFile       string    `toml:"log_file"`
	Upload        rawUpload `toml:"upload"`
}

type rawUpload struct {
	Endpoint       string   `toml:"endpoint"`
	CloudName      string   `toml:"cloud_name"`
	Preset         string   `toml:"preset"`
	Folder         string   `toml:"folder"`
	MaxBytes       int64    `toml:"max_bytes"`
	Formats        []string `toml:"formats"`
	RefreshDelayMS int      `toml:"refresh_delay_ms"`
}

// Load locates and parses the curator config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := raw.apply(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (raw rawConfig) apply(cfg *Config) error {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		expanded, err := expandPath(v)
		if err != nil {
			return fmt.Errorf("log_file: %w", err)
		}
		cfg.LogFile = expanded
	}

	seconds := []struct {
		key string
		val int
		dst *time.Duration
	}{
		{"poll_interval", raw.PollInterval, &cfg.PollInterval},
		{"list_timeout", raw.ListTimeout, &cfg.ListTimeout},
		{"probe_timeout", raw.ProbeTimeout, &cfg.ProbeTimeout},
		{"delete_timeout", raw.DeleteTimeout, &cfg.DeleteTimeout},
	}
	for _, s := range seconds {
		if s.val < 0 {
			return fmt.Errorf("%s must not be negative (got %d)", s.key, s.val)
		}
		if s.val > 0 {
			*s.dst = time.Duration(s.val) * time.Second
		}
	}

	up := raw.Upload
	cfg.Upload.Endpoint = strings.TrimRight(strings.TrimSpace(up.Endpoint), "/")
	cfg.Upload.CloudName = strings.TrimSpace(up.CloudName)
	cfg.Upload.Preset = strings.TrimSpace(up.Preset)
	if v := strings.Trim(strings.TrimSpace(up.Folder), "/"); v != "" {
		cfg.Upload.Folder = v
	}
	if up.MaxBytes < 0 {
		return fmt.Errorf("upload.max_bytes must not be negative (got %d)", up.MaxBytes)
	}
	if up.MaxBytes > 0 {
		cfg.Upload.MaxBytes = up.MaxBytes
	}
	if formats := normalizeFormats(up.Formats); len(formats) > 0 {
		cfg.Upload.Formats = formats
	}
	if up.RefreshDelayMS < 0 {
		return fmt.Errorf("upload.refresh_delay_ms must not be negative (got %d)", up.RefreshDelayMS)
	}
	if up.RefreshDelayMS > 0 {
		cfg.Upload.RefreshDelay = time.Duration(up.RefreshDelayMS) * time.Millisecond
	}
	return nil
}

func normalizeFormats(in []string) []string {
	var out []string
	seen := make(map[string]bool, len(in))
	for _, f := range in {
		f = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
