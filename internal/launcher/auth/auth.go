package auth

import (
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
	"github.com/craftlaunch/craftlaunch/pkg/logger"
	"github.com/craftlaunch/craftlaunch/pkg/platform"
)

// Service owns the authenticated identity: an in-memory copy backed by a
// YAML session file. A launch requires a valid identity to be present.
type Service struct {
	platform platform.Platform
	logger   *logger.Logger
	path     string

	mu       sync.RWMutex
	identity *domain.Identity
}

// NewService creates an identity service persisting to path
func NewService(p platform.Platform, path string) *Service {
	return &Service{
		platform: p,
		logger:   logger.New().WithField("component", "auth"),
		path:     path,
	}
}

// Load reads the persisted session, if any. A missing session file is
// not an error; it just means nobody is signed in.
func (s *Service) Load() error {
	data, err := s.platform.ReadFile(s.path)
	if err != nil {
		if s.platform.IsNotExist(err) {
			return nil
		}
		return errors.NewFilesystemError(s.path, "read", err)
	}

	var identity domain.Identity
	if err := yaml.Unmarshal(data, &identity); err != nil {
		return errors.WrapConfigError("auth", "session", err)
	}

	if !identity.Valid() {
		s.logger.Warn("ignoring invalid persisted session", "path", s.path)
		return nil
	}

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()

	s.logger.Debug("session restored", "player", identity.Name)
	return nil
}

// Current returns the signed-in identity or nil
func (s *Service) Current() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Login adopts and persists an identity
func (s *Service) Login(identity domain.Identity) error {
	if !identity.Valid() {
		return errors.WrapConfigError("auth", "identity", errors.ErrNoIdentity)
	}

	data, err := yaml.Marshal(&identity)
	if err != nil {
		return errors.WrapConfigError("auth", "session", err)
	}
	if err := s.platform.WriteFile(s.path, data, 0o600); err != nil {
		return errors.NewFilesystemError(s.path, "write", err)
	}

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()

	s.logger.Info("signed in", "player", identity.Name)
	return nil
}

// Logout clears the identity and removes the session file
func (s *Service) Logout() error {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()

	if err := s.platform.Remove(s.path); err != nil && !s.platform.IsNotExist(err) {
		return errors.NewFilesystemError(s.path, "remove", err)
	}
	return nil
}
