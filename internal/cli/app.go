package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/craftlaunch/craftlaunch/internal/launcher/auth"
	"github.com/craftlaunch/craftlaunch/internal/launcher/backend"
	"github.com/craftlaunch/craftlaunch/internal/launcher/catalog"
	"github.com/craftlaunch/craftlaunch/internal/launcher/downloads"
	"github.com/craftlaunch/craftlaunch/internal/launcher/events"
	"github.com/craftlaunch/craftlaunch/internal/launcher/java"
	"github.com/craftlaunch/craftlaunch/internal/launcher/launch"
	"github.com/craftlaunch/craftlaunch/internal/launcher/modloader"
	"github.com/craftlaunch/craftlaunch/internal/launcher/settings"
	"github.com/craftlaunch/craftlaunch/internal/launcher/store"
	"github.com/craftlaunch/craftlaunch/pkg/config"
	"github.com/craftlaunch/craftlaunch/pkg/logger"
	"github.com/craftlaunch/craftlaunch/pkg/platform"
)

// app is the composition root for one CLI invocation
type app struct {
	service  *backend.Service
	settings *settings.Service
	store    *store.Store
	logger   *logger.Logger
}

// buildApp wires every launcher component over the data directory.
// Commands that only print local information skip this.
func buildApp(ctx context.Context) (*app, error) {
	p := platform.NewPlatform()

	dataDir, err := config.DataDir()
	if err != nil {
		return nil, err
	}

	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(dataDir, "config.yml")
	}

	bus := events.NewInMemoryEventBus()

	settingsSvc := settings.NewService(bus, cfgPath)
	if err := settingsSvc.Load(); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	cfg := settingsSvc.Get()

	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logger.INFO
	}
	appLogger := logger.NewWithConfig(logger.Config{Level: level, Format: cfg.Logging.Format})

	st, err := store.Open(ctx, filepath.Join(dataDir, "registry.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open installation registry: %w", err)
	}

	pool := downloads.NewPool(cfg.Downloads.MaxConcurrent, nil, bus)

	scanner := catalog.NewInstalledScanner(p, st, cfg.VersionsDir(dataDir))
	cat := catalog.New(catalog.NewManifestClient(), scanner)

	manager := java.NewManager(
		java.NewDetector(p),
		java.NewAdoptiumClient(pool),
		st,
		cfg.RuntimesDir(dataDir),
		java.WithEventBus(bus),
	)
	if cfg.Java.Path != "" {
		manager.SelectJava(cfg.Java.Path)
	}

	installer := modloader.NewInstaller(p, pool, st, dataDir,
		modloader.WithEventBus(bus),
		modloader.WithJavaPath(manager.ActiveJavaPath),
	)

	authSvc := auth.NewService(p, filepath.Join(dataDir, "session.yml"))
	if err := authSvc.Load(); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	starter := launch.NewGameStarter(p, settingsSvc, bus, dataDir)
	coordinator := launch.NewCoordinator(authSvc, cat, starter)

	return &app{
		service:  backend.NewService(settingsSvc, authSvc, cat, manager, installer, scanner, coordinator),
		settings: settingsSvc,
		store:    st,
		logger:   appLogger,
	}, nil
}

func (a *app) close() {
	a.settings.Stop()
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close installation registry", "error", err)
	}
}
