package modloader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/internal/launcher/downloads"
	"github.com/craftlaunch/craftlaunch/internal/launcher/events"
	"github.com/craftlaunch/craftlaunch/internal/launcher/store"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
	"github.com/craftlaunch/craftlaunch/pkg/logger"
	"github.com/craftlaunch/craftlaunch/pkg/platform"
	"github.com/craftlaunch/craftlaunch/pkg/semver"
)

const (
	// DefaultFabricMetaURL serves Fabric loader metadata and launch profiles
	DefaultFabricMetaURL = "https://meta.fabricmc.net"
	// DefaultForgeMavenURL hosts Forge installer jars
	DefaultForgeMavenURL = "https://maven.minecraftforge.net"

	// installerTimeout bounds the Forge installer subprocess
	installerTimeout = 10 * time.Minute
)

// Installer installs Fabric and Forge loader variants against a base game
// version and registers the resulting composite version id.
type Installer struct {
	platform  platform.Platform
	client    *http.Client
	pool      *downloads.Pool
	store     *store.Store
	bus       events.EventBus
	logger    *logger.Logger
	gameDir   string
	fabricURL string
	forgeURL  string
	javaPath  func() string
}

// InstallerOption customizes an Installer
type InstallerOption func(*Installer)

// WithFabricMetaURL overrides the Fabric metadata endpoint
func WithFabricMetaURL(url string) InstallerOption {
	return func(i *Installer) { i.fabricURL = strings.TrimRight(url, "/") }
}

// WithForgeMavenURL overrides the Forge maven endpoint
func WithForgeMavenURL(url string) InstallerOption {
	return func(i *Installer) { i.forgeURL = strings.TrimRight(url, "/") }
}

// WithInstallerHTTPClient sets the HTTP client for metadata requests
func WithInstallerHTTPClient(client *http.Client) InstallerOption {
	return func(i *Installer) { i.client = client }
}

// WithJavaPath supplies the java executable used to run the Forge
// installer; it is resolved at install time, not construction time.
func WithJavaPath(resolve func() string) InstallerOption {
	return func(i *Installer) { i.javaPath = resolve }
}

// WithEventBus attaches an event bus for install events
func WithEventBus(bus events.EventBus) InstallerOption {
	return func(i *Installer) { i.bus = bus }
}

// NewInstaller creates a loader installer rooted at gameDir, whose
// "versions" subdirectory holds installed versions.
func NewInstaller(p platform.Platform, pool *downloads.Pool, s *store.Store, gameDir string, opts ...InstallerOption) *Installer {
	i := &Installer{
		platform:  p,
		client:    &http.Client{Timeout: 30 * time.Second},
		pool:      pool,
		store:     s,
		logger:    logger.New().WithField("component", "modloader"),
		gameDir:   gameDir,
		fabricURL: DefaultFabricMetaURL,
		forgeURL:  DefaultForgeMavenURL,
		javaPath:  func() string { return "java" },
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install installs the requested loader against the base game version and
// returns the new installed version id: fabric-loader-<lv>-<base> for
// Fabric, <base>-forge-<lv> for Forge. The caller should re-enumerate
// installed versions afterwards; there is no incremental update.
func (i *Installer) Install(ctx context.Context, baseVersion string, kind domain.VersionType, loaderVersion string) (string, error) {
	if baseVersion == "" || loaderVersion == "" {
		return "", errors.WrapLoaderError(string(kind), baseVersion, "install",
			fmt.Errorf("%w: base and loader versions are required", errors.ErrInvalidVersionID))
	}

	if loaderVersion == "latest" && kind == domain.TypeFabric {
		resolved, err := i.LatestFabricLoader(ctx, baseVersion)
		if err != nil {
			return "", err
		}
		loaderVersion = resolved
	}

	var (
		id  string
		err error
	)
	switch kind {
	case domain.TypeFabric:
		id, err = i.installFabric(ctx, baseVersion, loaderVersion)
	case domain.TypeForge:
		id, err = i.installForge(ctx, baseVersion, loaderVersion)
	default:
		return "", fmt.Errorf("%w: %s", errors.ErrLoaderNotSupported, kind)
	}
	if err != nil {
		return "", err
	}

	if i.store != nil {
		if serr := i.store.AddInstalledVersion(ctx, id); serr != nil {
			i.logger.Warn("failed to register installed loader", "id", id, "error", serr)
		}
	}

	i.publish(ctx, id, kind)
	i.logger.Info("mod loader installed", "id", id)
	return id, nil
}

// FabricLoaderVersions lists the loader versions available for a base
// game version, stable builds first as served upstream.
func (i *Installer) FabricLoaderVersions(ctx context.Context, baseVersion string) ([]string, error) {
	url := fmt.Sprintf("%s/v2/versions/loader/%s", i.fabricURL, baseVersion)

	var entries []struct {
		Loader struct {
			Version string `json:"version"`
			Stable  bool   `json:"stable"`
		} `json:"loader"`
	}
	if err := i.getJSON(ctx, url, &entries); err != nil {
		return nil, errors.WrapLoaderError("fabric", baseVersion, "list loaders", err)
	}

	versions := make([]string, 0, len(entries))
	for _, e := range entries {
		versions = append(versions, e.Loader.Version)
	}
	return versions, nil
}

// LatestFabricLoader resolves the highest loader version available for a
// base game version. Versions that do not parse as MAJOR.MINOR[.PATCH]
// are skipped.
func (i *Installer) LatestFabricLoader(ctx context.Context, baseVersion string) (string, error) {
	versions, err := i.FabricLoaderVersions(ctx, baseVersion)
	if err != nil {
		return "", err
	}

	var (
		best    *semver.Version
		bestRaw string
	)
	for _, raw := range versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRaw = raw
		}
	}
	if best == nil {
		return "", errors.WrapLoaderError("fabric", baseVersion, "resolve latest",
			fmt.Errorf("no parseable loader versions"))
	}
	return bestRaw, nil
}

// installFabric writes the upstream launch profile into the versions
// directory; Fabric needs no installer subprocess.
func (i *Installer) installFabric(ctx context.Context, baseVersion, loaderVersion string) (string, error) {
	id := fmt.Sprintf("fabric-loader-%s-%s", loaderVersion, baseVersion)
	url := fmt.Sprintf("%s/v2/versions/loader/%s/%s/profile/json", i.fabricURL, baseVersion, loaderVersion)

	profile, err := i.getRaw(ctx, url)
	if err != nil {
		return "", errors.WrapLoaderError("fabric", baseVersion, "fetch profile", err)
	}

	versionDir := filepath.Join(i.gameDir, "versions", id)
	if err := i.platform.MkdirAll(versionDir, 0o755); err != nil {
		return "", errors.NewFilesystemError(versionDir, "mkdir", err)
	}

	profilePath := filepath.Join(versionDir, id+".json")
	if err := i.platform.WriteFile(profilePath, profile, 0o644); err != nil {
		return "", errors.NewFilesystemError(profilePath, "write", err)
	}

	return id, nil
}

// installForge downloads the official installer jar and runs it headless
// against the game directory.
func (i *Installer) installForge(ctx context.Context, baseVersion, loaderVersion string) (string, error) {
	id := fmt.Sprintf("%s-forge-%s", baseVersion, loaderVersion)
	coordinate := fmt.Sprintf("%s-%s", baseVersion, loaderVersion)
	url := fmt.Sprintf("%s/net/minecraftforge/forge/%s/forge-%s-installer.jar", i.forgeURL, coordinate, coordinate)

	installerPath := filepath.Join(i.gameDir, fmt.Sprintf("forge-%s-installer.jar", coordinate))
	if err := i.pool.Run(ctx, []downloads.Task{{URL: url, Path: installerPath}}); err != nil {
		return "", errors.WrapLoaderError("forge", baseVersion, "download installer", err)
	}
	defer func() { _ = i.platform.Remove(installerPath) }()

	cctx, cancel := context.WithTimeout(ctx, installerTimeout)
	defer cancel()

	cmd := i.platform.CommandContext(cctx, i.javaPath(), "-jar", installerPath, "--installClient", i.gameDir)
	cmd.SetDir(i.gameDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		i.logger.Warn("forge installer failed", "id", id, "output", truncate(string(output), 2000))
		return "", errors.WrapLoaderError("forge", baseVersion, "run installer",
			fmt.Errorf("%w: %v", errors.ErrLoaderInstall, err))
	}

	return id, nil
}

func (i *Installer) getJSON(ctx context.Context, url string, out interface{}) error {
	raw, err := i.getRaw(ctx, url)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (i *Installer) getRaw(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}

func (i *Installer) publish(ctx context.Context, id string, kind domain.VersionType) {
	if i.bus == nil {
		return
	}
	event := events.NewEvent(events.LoaderInstalled, events.VersionEventData{VersionID: id, Kind: string(kind)})
	if err := i.bus.Publish(ctx, event); err != nil {
		i.logger.Warn("event publish failed", "id", id, "error", err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
