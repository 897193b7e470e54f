package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
	"github.com/craftlaunch/craftlaunch/pkg/logger"
)

// DefaultManifestURL is the upstream vanilla version index
const DefaultManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"

// defaultManifestTTL bounds how long a fetched manifest is served from cache.
// The manifest is refreshed per session; a short TTL keeps repeated refreshes
// within one session cheap.
const defaultManifestTTL = 5 * time.Minute

// HTTPClient is the subset of http.Client the manifest client needs
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type manifestResponse struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []manifestEntry `json:"versions"`
}

type manifestEntry struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	ReleaseTime time.Time `json:"releaseTime"`
	SHA1        string    `json:"sha1"`
}

// ManifestClient fetches the upstream version manifest with a small
// time-bounded cache.
type ManifestClient struct {
	client HTTPClient
	logger *logger.Logger
	url    string
	ttl    time.Duration

	mu        sync.Mutex
	cached    []domain.Version
	fetchedAt time.Time
}

// ManifestOption customizes a ManifestClient
type ManifestOption func(*ManifestClient)

// WithHTTPClient sets the HTTP client used for manifest requests
func WithHTTPClient(client HTTPClient) ManifestOption {
	return func(c *ManifestClient) { c.client = client }
}

// WithManifestURL overrides the upstream manifest URL
func WithManifestURL(url string) ManifestOption {
	return func(c *ManifestClient) { c.url = url }
}

// WithManifestTTL overrides the cache lifetime
func WithManifestTTL(ttl time.Duration) ManifestOption {
	return func(c *ManifestClient) { c.ttl = ttl }
}

// NewManifestClient creates a manifest client with the given options
func NewManifestClient(opts ...ManifestOption) *ManifestClient {
	c := &ManifestClient{
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger.New().WithField("component", "version-manifest"),
		url:    DefaultManifestURL,
		ttl:    defaultManifestTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns all vanilla versions in manifest order, serving a cached
// copy when it is still fresh.
func (c *ManifestClient) Fetch(ctx context.Context) ([]domain.Version, error) {
	c.mu.Lock()
	if c.cached != nil && time.Since(c.fetchedAt) < c.ttl {
		cached := c.cached
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	versions, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cached = versions
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return versions, nil
}

// Invalidate drops the cached manifest so the next Fetch hits upstream
func (c *ManifestClient) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}

func (c *ManifestClient) fetch(ctx context.Context) ([]domain.Version, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrManifestUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrManifestUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", errors.ErrManifestUnavailable, resp.StatusCode)
	}

	var manifest manifestResponse
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", errors.ErrManifestUnavailable, err)
	}

	versions := make([]domain.Version, 0, len(manifest.Versions))
	for _, entry := range manifest.Versions {
		entry := entry
		versions = append(versions, domain.Version{
			ID:          entry.ID,
			Type:        manifestType(entry.Type),
			ReleaseTime: &entry.ReleaseTime,
			URL:         entry.URL,
			SHA1:        entry.SHA1,
		})
	}

	c.logger.Debug("fetched version manifest", "versions", len(versions), "latestRelease", manifest.Latest.Release)
	return versions, nil
}

// manifestType maps upstream type strings onto catalog types. Ancient
// entries (old_alpha, old_beta) are grouped with snapshots.
func manifestType(t string) domain.VersionType {
	if t == "release" {
		return domain.TypeRelease
	}
	return domain.TypeSnapshot
}
