package downloads

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftlaunch/craftlaunch/internal/launcher/events"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
)

type captureHandler struct {
	mu    sync.Mutex
	seen  map[events.EventType]int
	types []events.EventType
}

func newCaptureHandler() *captureHandler {
	return &captureHandler{seen: make(map[events.EventType]int)}
}

func (h *captureHandler) Handle(_ context.Context, event events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen[event.Type]++
	h.types = append(h.types, event.Type)
	return nil
}

func (h *captureHandler) SupportedEvents() []events.EventType {
	return []events.EventType{
		events.DownloadStarted,
		events.DownloadProgress,
		events.DownloadCompleted,
		events.DownloadFailed,
	}
}

func (h *captureHandler) count(t events.EventType) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seen[t]
}

func newBusWithCapture(t *testing.T) (*events.InMemoryEventBus, *captureHandler) {
	t.Helper()
	bus := events.NewInMemoryEventBus()
	handler := newCaptureHandler()
	for _, et := range handler.SupportedEvents() {
		require.NoError(t, bus.Subscribe(et, handler))
	}
	return bus, handler
}

func sha1Hex(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func TestPool_Run(t *testing.T) {
	payload := []byte("minecraft client jar bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	bus, handler := newBusWithCapture(t)
	pool := NewPool(2, srv.Client(), bus)

	dest := filepath.Join(dir, "libraries", "client.jar")
	err := pool.Run(context.Background(), []Task{
		{URL: srv.URL + "/client.jar", Path: dest, SHA1: sha1Hex(payload)},
	})
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	assert.Equal(t, 1, handler.count(events.DownloadStarted))
	assert.Equal(t, 1, handler.count(events.DownloadCompleted))
	assert.Equal(t, 0, handler.count(events.DownloadFailed))
}

func TestPool_SkipsExistingValidFile(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	payload := []byte("already downloaded")
	dest := filepath.Join(t.TempDir(), "asset.dat")
	require.NoError(t, os.WriteFile(dest, payload, 0o644))

	bus, handler := newBusWithCapture(t)
	pool := NewPool(1, srv.Client(), bus)

	err := pool.Run(context.Background(), []Task{
		{URL: srv.URL + "/asset.dat", Path: dest, SHA1: sha1Hex(payload)},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, requests, "valid existing file must not be re-fetched")
	assert.Equal(t, 1, handler.count(events.DownloadCompleted))
	assert.Equal(t, 0, handler.count(events.DownloadStarted))
}

func TestPool_RedownloadsCorruptFile(t *testing.T) {
	payload := []byte("fresh bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "asset.dat")
	require.NoError(t, os.WriteFile(dest, []byte("stale bytes"), 0o644))

	pool := NewPool(1, srv.Client(), nil)
	err := pool.Run(context.Background(), []Task{
		{URL: srv.URL + "/asset.dat", Path: dest, SHA1: sha1Hex(payload)},
	})
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestPool_ChecksumMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("tampered content"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "asset.dat")
	pool := NewPool(1, srv.Client(), nil)

	err := pool.Run(context.Background(), []Task{
		{URL: srv.URL + "/asset.dat", Path: dest, SHA1: sha1Hex([]byte("expected content"))},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrChecksumMismatch)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "failed download must not leave the destination file")
}

func TestPool_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	bus, handler := newBusWithCapture(t)
	pool := NewPool(1, srv.Client(), bus)

	err := pool.Run(context.Background(), []Task{
		{URL: srv.URL + "/missing.jar", Path: filepath.Join(t.TempDir(), "missing.jar")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDownloadFailed)
	assert.Equal(t, 1, handler.count(events.DownloadFailed))
}

func TestPool_EmptyBatch(t *testing.T) {
	pool := NewPool(4, nil, nil)
	assert.NoError(t, pool.Run(context.Background(), nil))
}
