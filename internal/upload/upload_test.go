package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x89}, size), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestNewClient_RequiresCloudAndPreset(t *testing.T) {
	if _, err := NewClient(Settings{Preset: "Gallery"}); err == nil {
		t.Fatalf("NewClient without cloud_name returned nil error")
	}
	if _, err := NewClient(Settings{CloudName: "demo"}); err == nil {
		t.Fatalf("NewClient without preset returned nil error")
	}
}

func TestNewClient_NormalizesSettings(t *testing.T) {
	c, err := NewClient(Settings{CloudName: " demo ", Preset: "Gallery", Formats: []string{" .PNG", "", "webp"}})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	s := c.Settings()
	if s.Endpoint != DefaultEndpoint || s.CloudName != "demo" || s.MaxBytes != DefaultMaxBytes {
		t.Fatalf("Settings = %#v, want defaults applied", s)
	}
	if len(s.Formats) != 2 || s.Formats[0] != "png" || s.Formats[1] != "webp" {
		t.Fatalf("Formats = %v, want [png webp]", s.Formats)
	}
	if got := c.uploadURL(); got != "https://api.cloudinary.com/v1_1/demo/image/upload" {
		t.Fatalf("uploadURL = %q", got)
	}
}

func TestValidate(t *testing.T) {
	c, err := NewClient(Settings{CloudName: "demo", Preset: "Gallery", MaxBytes: 100})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if _, err := c.Validate(writeFile(t, "ok.JPG", 100)); err != nil {
		t.Fatalf("Validate(ok.JPG) returned error: %v", err)
	}
	if _, err := c.Validate(writeFile(t, "big.png", 101)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Validate(big.png) = %v, want ErrTooLarge", err)
	}
	if _, err := c.Validate(writeFile(t, "doc.pdf", 10)); !errors.Is(err, ErrFormat) {
		t.Fatalf("Validate(doc.pdf) = %v, want ErrFormat", err)
	}
	if _, err := c.Validate(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatalf("Validate(missing) returned nil error")
	}
	if _, err := c.Validate(t.TempDir()); err == nil {
		t.Fatalf("Validate(dir) returned nil error")
	}
}

func TestUpload_SendsMultipartAndRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	var gotPreset, gotFolder, gotFile string
	var gotSize int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1_1/demo/image/upload" {
			http.NotFound(w, r)
			return
		}
		if attempts.Add(1) == 1 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotPreset = r.FormValue("upload_preset")
		gotFolder = r.FormValue("folder")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(f)
		gotFile = hdr.Filename
		gotSize = len(data)
		_ = json.NewEncoder(w).Encode(Result{PublicID: "gallery/cat", OriginalFilename: "cat", Bytes: int64(len(data))})
	}))
	t.Cleanup(server.Close)

	var wrapped atomic.Int32
	c, err := NewClient(
		Settings{Endpoint: server.URL, CloudName: "demo", Preset: "Gallery", Folder: "gallery"},
		WithRetry(2, time.Millisecond, 5*time.Millisecond),
		WithReaderWrapper(func(r io.Reader, size int64, name string) io.Reader {
			wrapped.Add(1)
			return r
		}),
	)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	path := writeFile(t, "cat.png", 64)
	res, err := c.Upload(context.Background(), path)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if res.PublicID != "gallery/cat" || res.OriginalFilename != "cat" {
		t.Fatalf("Upload result = %#v", res)
	}
	if attempts.Load() != 2 {
		t.Fatalf("attempts = %d, want 2 (one retry)", attempts.Load())
	}
	if gotPreset != "Gallery" || gotFolder != "gallery" || gotFile != "cat.png" || gotSize != 64 {
		t.Fatalf("form preset=%q folder=%q file=%q size=%d", gotPreset, gotFolder, gotFile, gotSize)
	}
	if got := wrapped.Load(); got != 2 {
		t.Fatalf("reader wrapper calls = %d, want 2 (one per attempt)", got)
	}
}

func TestUpload_ClientErrorSurfacesMessage(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Settings{Endpoint: server.URL, CloudName: "demo", Preset: "nope"},
		WithRetry(3, time.Millisecond, time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Upload(context.Background(), writeFile(t, "a.gif", 8))
	if err == nil || !strings.Contains(err.Error(), "Upload preset not found") {
		t.Fatalf("Upload error = %v, want server message", err)
	}
	if attempts.Load() != 1 {
		t.Fatalf("attempts = %d, want 1 (4xx is not retried)", attempts.Load())
	}
}

func TestUpload_WrapperSeesEachAttemptOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_ = json.NewEncoder(w).Encode(Result{PublicID: "gallery/cat"})
	}))
	t.Cleanup(server.Close)

	var calls atomic.Int32
	var gotSize int64
	var gotName string
	c, err := NewClient(Settings{Endpoint: server.URL, CloudName: "demo", Preset: "Gallery"},
		WithReaderWrapper(func(r io.Reader, size int64, name string) io.Reader {
			calls.Add(1)
			gotSize, gotName = size, name
			return r
		}))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.Upload(context.Background(), writeFile(t, "cat.png", 32)); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("wrapper calls = %d for a single attempt, want 1", got)
	}
	if gotName != "cat.png" || gotSize <= 32 {
		t.Fatalf("wrapper got name=%q size=%d, want cat.png and the multipart size", gotName, gotSize)
	}
}

func TestUpload_ExhaustedRetriesSurfaceServerMessage(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"Service temporarily unavailable"}}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Settings{Endpoint: server.URL, CloudName: "demo", Preset: "Gallery"},
		WithRetry(1, time.Millisecond, time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Upload(context.Background(), writeFile(t, "a.png", 8))
	if err == nil || !strings.Contains(err.Error(), "status 503") || !strings.Contains(err.Error(), "Service temporarily unavailable") {
		t.Fatalf("Upload error = %v, want status and server message", err)
	}
	if attempts.Load() != 2 {
		t.Fatalf("attempts = %d, want 2", attempts.Load())
	}
}

func TestUpload_RejectsBeforeRequest(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Settings{Endpoint: server.URL, CloudName: "demo", Preset: "Gallery"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.Upload(context.Background(), writeFile(t, "notes.txt", 8)); !errors.Is(err, ErrFormat) {
		t.Fatalf("Upload error = %v, want ErrFormat", err)
	}
	if attempts.Load() != 0 {
		t.Fatalf("attempts = %d, want 0", attempts.Load())
	}
}
