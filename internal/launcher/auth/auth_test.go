package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/pkg/platform"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(platform.NewPlatform(), filepath.Join(t.TempDir(), "session.yml"))
}

func TestService_NoSessionFile(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.Load())
	assert.Nil(t, s.Current())
}

func TestService_LoginPersistsAcrossLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yml")
	s := NewService(platform.NewPlatform(), path)

	identity := domain.Identity{
		UUID:        "069a79f4-44e9-4726-a5be-fca90e38aaf5",
		Name:        "Notch",
		AccessToken: "token-abc",
	}
	require.NoError(t, s.Login(identity))
	require.NotNil(t, s.Current())

	restored := NewService(platform.NewPlatform(), path)
	require.NoError(t, restored.Load())
	require.NotNil(t, restored.Current())
	assert.Equal(t, identity, *restored.Current())
}

func TestService_LoginRejectsInvalidIdentity(t *testing.T) {
	s := newTestService(t)

	err := s.Login(domain.Identity{Name: "no-uuid"})
	require.Error(t, err)
	assert.Nil(t, s.Current())
}

func TestService_Logout(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.Login(domain.Identity{UUID: "u", Name: "n"}))
	require.NoError(t, s.Logout())
	assert.Nil(t, s.Current())

	// Logout with no session is fine.
	require.NoError(t, s.Logout())
}

func TestService_LoadIgnoresInvalidSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yml")
	p := platform.NewPlatform()
	require.NoError(t, p.WriteFile(path, []byte("name: OnlyName\n"), 0o600))

	s := NewService(p, path)
	require.NoError(t, s.Load())
	assert.Nil(t, s.Current(), "session without uuid must not sign anyone in")
}
