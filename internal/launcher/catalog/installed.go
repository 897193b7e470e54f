package catalog

import (
	"context"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/internal/launcher/store"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
	"github.com/craftlaunch/craftlaunch/pkg/platform"
)

// InstalledScanner enumerates installed game versions by scanning the
// versions directory and keeping the registry in sync with what is on disk.
type InstalledScanner struct {
	platform    platform.Platform
	store       *store.Store
	versionsDir string
}

// NewInstalledScanner creates a scanner over the given versions directory
func NewInstalledScanner(p platform.Platform, s *store.Store, versionsDir string) *InstalledScanner {
	return &InstalledScanner{
		platform:    p,
		store:       s,
		versionsDir: versionsDir,
	}
}

// List returns the ids of all installed versions. Each subdirectory of the
// versions directory counts as one installation. A missing versions
// directory means nothing is installed yet.
func (s *InstalledScanner) List(ctx context.Context) ([]string, error) {
	entries, err := s.platform.ReadDir(s.versionsDir)
	if err != nil {
		if s.platform.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.NewFilesystemError(s.versionsDir, "scan", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		ids = append(ids, entry.Name())
	}

	if s.store != nil {
		if err := s.sync(ctx, ids); err != nil {
			return nil, err
		}
	}

	return ids, nil
}

// ListLoaders returns installed mod-loader ids of the given kind,
// derived from the same directory scan.
func (s *InstalledScanner) ListLoaders(ctx context.Context, kind domain.VersionType) ([]string, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	loaders := make([]string, 0)
	for _, id := range ids {
		if domain.LoaderType(id) == kind {
			loaders = append(loaders, id)
		}
	}
	return loaders, nil
}

// sync reconciles the registry with the on-disk scan result. Disk wins:
// registry rows without a directory are removed, new directories are added.
func (s *InstalledScanner) sync(ctx context.Context, ids []string) error {
	known, err := s.store.ListInstalledVersions(ctx)
	if err != nil {
		return err
	}

	onDisk := make(map[string]bool, len(ids))
	for _, id := range ids {
		onDisk[id] = true
	}

	for _, id := range known {
		if !onDisk[id] {
			if err := s.store.RemoveInstalledVersion(ctx, id); err != nil {
				return err
			}
		}
	}

	registered := make(map[string]bool, len(known))
	for _, id := range known {
		registered[id] = true
	}
	for _, id := range ids {
		if !registered[id] {
			if err := s.store.AddInstalledVersion(ctx, id); err != nil {
				return err
			}
		}
	}

	return nil
}
