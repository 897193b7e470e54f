package catalog

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
	"github.com/craftlaunch/craftlaunch/pkg/logger"
)

// TypeFilter restricts catalog filtering to one class of versions
type TypeFilter string

const (
	FilterAll      TypeFilter = "all"
	FilterRelease  TypeFilter = "release"
	FilterSnapshot TypeFilter = "snapshot"
	FilterModded   TypeFilter = "modded"
)

// ManifestSource provides the upstream vanilla version list
type ManifestSource interface {
	Fetch(ctx context.Context) ([]domain.Version, error)
}

// InstalledSource enumerates locally installed version ids
type InstalledSource interface {
	List(ctx context.Context) ([]string, error)
}

// Catalog holds the merged view of upstream and installed versions and
// owns the selected version id. A failed refresh leaves all of it
// untouched.
type Catalog struct {
	manifest  ManifestSource
	installed InstalledSource
	logger    *logger.Logger

	mu       sync.RWMutex
	versions []domain.Version
	selected string
}

// New creates a catalog over the given sources
func New(manifest ManifestSource, installed InstalledSource) *Catalog {
	return &Catalog{
		manifest:  manifest,
		installed: installed,
		logger:    logger.New().WithField("component", "version-catalog"),
	}
}

// Refresh retrieves the upstream manifest and the installed version list
// concurrently, then rebuilds the merged catalog and recomputes the
// selected version. Failure of either retrieval reports the error and
// leaves the previous catalog state unchanged.
func (c *Catalog) Refresh(ctx context.Context) error {
	var (
		upstream  []domain.Version
		installed []string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		upstream, err = c.manifest.Fetch(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		installed, err = c.installed.List(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		c.logger.Warn("catalog refresh failed, keeping previous state", "error", err)
		return errors.WrapCatalogError("refresh", err)
	}

	merged, selected := buildCatalog(upstream, installed)

	c.mu.Lock()
	c.versions = merged
	c.selected = selected
	c.mu.Unlock()

	c.logger.Info("catalog refreshed", "versions", len(merged), "installed", len(installed), "selected", selected)
	return nil
}

// buildCatalog merges loader entries (ranked first) with the manifest
// order and computes the selection precedence: first manifest-ordered
// installed release, else first manifest-ordered installed version of
// any type, else the first installed id verbatim.
func buildCatalog(upstream []domain.Version, installed []string) ([]domain.Version, string) {
	installedSet := make(map[string]bool, len(installed))
	for _, id := range installed {
		installedSet[id] = true
	}

	merged := make([]domain.Version, 0, len(upstream)+len(installed))
	for _, id := range installed {
		kind := domain.LoaderType(id)
		if kind == domain.TypeFabric || kind == domain.TypeForge {
			merged = append(merged, domain.Version{
				ID:        id,
				Type:      kind,
				Installed: true,
			})
		}
	}

	matched := make(map[string]bool, len(installed))
	var firstRelease, firstAny string
	for _, v := range upstream {
		v.Installed = installedSet[v.ID]
		if v.Installed {
			matched[v.ID] = true
			if firstRelease == "" && v.Type == domain.TypeRelease {
				firstRelease = v.ID
			}
			if firstAny == "" {
				firstAny = v.ID
			}
		}
		merged = append(merged, v)
	}

	selected := firstRelease
	if selected == "" {
		selected = firstAny
	}
	if selected == "" {
		for _, id := range installed {
			if !matched[id] {
				selected = id
				break
			}
		}
	}

	return merged, selected
}

// Versions returns a copy of the current merged catalog
func (c *Catalog) Versions() []domain.Version {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Version, len(c.versions))
	copy(out, c.versions)
	return out
}

// SelectedVersion returns the currently selected version id, which may
// be empty when nothing is installed.
func (c *Catalog) SelectedVersion() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// Select sets the selected version id. The id must reference a catalog
// entry; unknown ids are rejected so a launch can trust the selection.
func (c *Catalog) Select(id string) error {
	if id == "" {
		return errors.ErrInvalidVersionID
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, v := range c.versions {
		if v.ID == id {
			c.selected = id
			return nil
		}
	}
	return errors.NewVersionNotFoundError(id)
}

// Filter returns the catalog entries whose id contains the normalized
// query and whose type passes the filter. Filtering is pure: it reads
// the current catalog and derives a fresh result every call.
func (c *Catalog) Filter(query string, filter TypeFilter) []domain.Version {
	needle := normalizeQuery(query)

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Version, 0)
	for _, v := range c.versions {
		if !matchesType(v.Type, filter) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(v.ID), needle) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// normalizeQuery lowercases the query and maps full-width stop
// characters, common with CJK input methods, onto the ASCII period.
func normalizeQuery(query string) string {
	query = strings.ToLower(strings.TrimSpace(query))
	return strings.Map(func(r rune) rune {
		switch r {
		case '．', '。':
			return '.'
		}
		return r
	}, query)
}

func matchesType(t domain.VersionType, filter TypeFilter) bool {
	switch filter {
	case FilterAll, "":
		return true
	case FilterRelease:
		return t == domain.TypeRelease
	case FilterSnapshot:
		return t == domain.TypeSnapshot
	case FilterModded:
		return t == domain.TypeFabric || t == domain.TypeForge
	default:
		return false
	}
}
