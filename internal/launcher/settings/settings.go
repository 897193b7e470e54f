package settings

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/craftlaunch/craftlaunch/internal/launcher/events"
	"github.com/craftlaunch/craftlaunch/pkg/config"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
	"github.com/craftlaunch/craftlaunch/pkg/logger"
)

// debounce coalesces bursts of file events into one reload
const debounce = 100 * time.Millisecond

// Service owns the persisted launcher settings. It is the only writer of
// the settings record; other components read a copy through Get.
type Service struct {
	logger *logger.Logger
	bus    events.EventBus
	path   string

	mu  sync.RWMutex
	cfg config.Config

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewService creates a settings service persisting to path
func NewService(bus events.EventBus, path string) *Service {
	return &Service{
		logger: logger.New().WithField("component", "settings"),
		bus:    bus,
		path:   path,
		cfg:    config.DefaultConfig,
	}
}

// Load reads settings from disk, falling back to defaults when no file
// exists. Policy-pinned fields are corrected and, when a correction was
// needed, persisted immediately.
func (s *Service) Load() error {
	cfg := config.DefaultConfig

	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if uerr := yaml.Unmarshal(data, &cfg); uerr != nil {
			return errors.WrapConfigError("settings", "file", uerr)
		}
	case !os.IsNotExist(err):
		return errors.NewFilesystemError(s.path, "read", err)
	}

	corrected := cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return errors.WrapConfigError("settings", "validate", err)
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	if corrected {
		s.logger.Info("corrected pinned settings value, persisting")
		if err := cfg.Save(s.path); err != nil {
			return err
		}
	}

	return nil
}

// Get returns a copy of the current settings
func (s *Service) Get() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Save validates, normalizes and persists new settings, then publishes
// a settings-updated event.
func (s *Service) Save(ctx context.Context, cfg config.Config) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return errors.WrapConfigError("settings", "validate", err)
	}

	if err := cfg.Save(s.path); err != nil {
		return err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	s.publish(ctx)
	return nil
}

// Watch reloads the settings when the file changes on disk, so edits
// made outside the launcher take effect without a restart.
func (s *Service) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapConfigError("settings", "watch", err)
	}

	// Watch the directory: editors often replace the file wholesale,
	// which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return errors.WrapConfigError("settings", "watch", err)
	}

	s.watcher = watcher
	s.done = make(chan struct{})
	go s.loop(ctx)
	return nil
}

// Stop ends watching. Safe to call when Watch was never started.
func (s *Service) Stop() {
	if s.watcher == nil {
		return
	}
	_ = s.watcher.Close()
	<-s.done
	s.watcher = nil
}

func (s *Service) loop(ctx context.Context) {
	defer close(s.done)

	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < debounce {
				continue
			}
			pending = time.Time{}
			if err := s.Load(); err != nil {
				s.logger.Warn("settings reload failed", "error", err)
				continue
			}
			s.logger.Info("settings reloaded from disk")
			s.publish(ctx)

		case _, ok := <-s.watcher.Errors:
			if !ok {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) publish(ctx context.Context) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, events.NewEvent(events.SettingsUpdated, s.Get())); err != nil {
		s.logger.Warn("event publish failed", "error", err)
	}
}
