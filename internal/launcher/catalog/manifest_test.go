package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
)

const manifestJSON = `{
  "latest": {"release": "1.20.5", "snapshot": "24w17a"},
  "versions": [
    {"id": "24w17a", "type": "snapshot", "url": "https://example.invalid/24w17a.json", "releaseTime": "2024-04-24T09:00:00+00:00", "sha1": "aaa"},
    {"id": "1.20.5", "type": "release", "url": "https://example.invalid/1.20.5.json", "releaseTime": "2024-04-23T09:00:00+00:00", "sha1": "bbb"},
    {"id": "b1.7.3", "type": "old_beta", "url": "https://example.invalid/b1.7.3.json", "releaseTime": "2011-07-08T09:00:00+00:00", "sha1": "ccc"}
  ]
}`

func TestManifestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(manifestJSON))
	}))
	defer srv.Close()

	client := NewManifestClient(WithManifestURL(srv.URL), WithHTTPClient(srv.Client()))

	versions, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, versions, 3)

	assert.Equal(t, "24w17a", versions[0].ID)
	assert.Equal(t, domain.TypeSnapshot, versions[0].Type)
	assert.Equal(t, "1.20.5", versions[1].ID)
	assert.Equal(t, domain.TypeRelease, versions[1].Type)
	assert.Equal(t, "bbb", versions[1].SHA1)
	require.NotNil(t, versions[1].ReleaseTime)
	assert.Equal(t, 2024, versions[1].ReleaseTime.Year())

	// Ancient entries are grouped with snapshots.
	assert.Equal(t, domain.TypeSnapshot, versions[2].Type)
}

func TestManifestClient_FetchCaches(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(manifestJSON))
	}))
	defer srv.Close()

	client := NewManifestClient(
		WithManifestURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithManifestTTL(time.Minute),
	)

	_, err := client.Fetch(context.Background())
	require.NoError(t, err)
	_, err = client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, requests, "second fetch within TTL must hit the cache")

	client.Invalidate()
	_, err = client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestManifestClient_FetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewManifestClient(WithManifestURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrManifestUnavailable)
}

func TestManifestClient_FetchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewManifestClient(WithManifestURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrManifestUnavailable)
}
