package backend

import (
	"context"

	"github.com/craftlaunch/craftlaunch/internal/launcher/catalog"
	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/pkg/config"
	"github.com/craftlaunch/craftlaunch/pkg/logger"
)

// SettingsService owns launcher settings persistence
type SettingsService interface {
	Get() config.Config
	Save(ctx context.Context, cfg config.Config) error
}

// AuthService owns the stored player identity
type AuthService interface {
	Current() *domain.Identity
	Login(identity domain.Identity) error
	Logout() error
}

// VersionCatalog merges remote and installed versions
type VersionCatalog interface {
	Refresh(ctx context.Context) error
	Versions() []domain.Version
	SelectedVersion() string
	Select(id string) error
	Filter(query string, filter catalog.TypeFilter) []domain.Version
}

// JavaToolchain detects, downloads and selects java runtimes
type JavaToolchain interface {
	Detect(ctx context.Context) ([]domain.JavaInstallation, error)
	OpenDownloadPicker(ctx context.Context) ([]int, int, error)
	CloseDownloadPicker()
	Download(ctx context.Context, info domain.JavaDownloadInfo, customPath string) (domain.JavaInstallation, error)
	SelectJava(path string)
	ActiveJavaPath() string
}

// LoaderInstaller installs fabric and forge loader versions
type LoaderInstaller interface {
	Install(ctx context.Context, baseVersion string, kind domain.VersionType, loaderVersion string) (string, error)
	FabricLoaderVersions(ctx context.Context, baseVersion string) ([]string, error)
}

// InstalledLister enumerates versions present on disk
type InstalledLister interface {
	List(ctx context.Context) ([]string, error)
	ListLoaders(ctx context.Context, kind domain.VersionType) ([]string, error)
}

// GameLauncher runs the precondition chain and starts the game
type GameLauncher interface {
	Launch(ctx context.Context) (string, error)
}

// Service is the typed command surface the CLI talks to. Every
// operation returns an error value whose string form is usable as
// status text; no call panics.
type Service struct {
	settings  SettingsService
	auth      AuthService
	catalog   VersionCatalog
	java      JavaToolchain
	loaders   LoaderInstaller
	installed InstalledLister
	launcher  GameLauncher
	logger    *logger.Logger
}

// NewService wires the command surface over the launcher components
func NewService(
	settings SettingsService,
	auth AuthService,
	cat VersionCatalog,
	java JavaToolchain,
	loaders LoaderInstaller,
	installed InstalledLister,
	launcher GameLauncher,
) *Service {
	return &Service{
		settings:  settings,
		auth:      auth,
		catalog:   cat,
		java:      java,
		loaders:   loaders,
		installed: installed,
		launcher:  launcher,
		logger:    logger.New().WithField("component", "backend"),
	}
}

// GetSettings returns the current launcher settings
func (s *Service) GetSettings() config.Config {
	return s.settings.Get()
}

// SaveSettings validates and persists the given settings
func (s *Service) SaveSettings(ctx context.Context, cfg config.Config) error {
	return s.settings.Save(ctx, cfg)
}

// DetectJava scans the host for java installations. An empty result
// with a nil error means the scan worked and found nothing.
func (s *Service) DetectJava(ctx context.Context) ([]domain.JavaInstallation, error) {
	return s.java.Detect(ctx)
}

// FetchAvailableJavaVersions opens the download picker and returns the
// available major versions plus the default pick.
func (s *Service) FetchAvailableJavaVersions(ctx context.Context) ([]int, int, error) {
	return s.java.OpenDownloadPicker(ctx)
}

// DownloadAdoptiumJava downloads and installs an Adoptium runtime
func (s *Service) DownloadAdoptiumJava(ctx context.Context, info domain.JavaDownloadInfo, customPath string) (domain.JavaInstallation, error) {
	return s.java.Download(ctx, info, customPath)
}

// GetVersions refreshes the catalog and returns the merged list plus
// the current selection. On refresh failure the previously built
// catalog is returned untouched alongside the error.
func (s *Service) GetVersions(ctx context.Context) ([]domain.Version, string, error) {
	err := s.catalog.Refresh(ctx)
	return s.catalog.Versions(), s.catalog.SelectedVersion(), err
}

// GetInstalledVersions lists the version ids present on disk
func (s *Service) GetInstalledVersions(ctx context.Context) ([]string, error) {
	return s.installed.List(ctx)
}

// ListInstalledFabricVersions lists installed fabric loader ids
func (s *Service) ListInstalledFabricVersions(ctx context.Context) ([]string, error) {
	return s.installed.ListLoaders(ctx, domain.TypeFabric)
}

// StartGame runs the launch precondition chain and starts the game.
// The returned status text is the starter's response verbatim.
func (s *Service) StartGame(ctx context.Context) (string, error) {
	return s.launcher.Launch(ctx)
}

// SelectVersion marks a catalog version as selected
func (s *Service) SelectVersion(id string) error {
	return s.catalog.Select(id)
}

// FilterVersions narrows the cached catalog without touching it
func (s *Service) FilterVersions(query string, filter catalog.TypeFilter) []domain.Version {
	return s.catalog.Filter(query, filter)
}

// InstallLoader installs a mod loader and selects the resulting id
func (s *Service) InstallLoader(ctx context.Context, baseVersion string, kind domain.VersionType, loaderVersion string) (string, error) {
	id, err := s.loaders.Install(ctx, baseVersion, kind, loaderVersion)
	if err != nil {
		return "", err
	}
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Warn("catalog refresh after loader install failed", "error", err)
	}
	if err := s.catalog.Select(id); err != nil {
		s.logger.Warn("selecting installed loader failed", "id", id, "error", err)
	}
	return id, nil
}

// AvailableFabricLoaderVersions lists loader versions for a base game version
func (s *Service) AvailableFabricLoaderVersions(ctx context.Context, baseVersion string) ([]string, error) {
	return s.loaders.FabricLoaderVersions(ctx, baseVersion)
}

// Identity returns the stored identity, or nil when logged out
func (s *Service) Identity() *domain.Identity {
	return s.auth.Current()
}

// Login stores the given identity
func (s *Service) Login(identity domain.Identity) error {
	return s.auth.Login(identity)
}

// Logout clears the stored identity
func (s *Service) Logout() error {
	return s.auth.Logout()
}
