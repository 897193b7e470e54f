package launch

import (
	"context"
	"io"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/internal/launcher/events"
	"github.com/craftlaunch/craftlaunch/pkg/config"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
	"github.com/craftlaunch/craftlaunch/pkg/platform"
)

type fakeSettings struct {
	cfg config.Config
}

func (f *fakeSettings) Get() config.Config { return f.cfg }

// fakePlatform overrides what game starting touches
type fakePlatform struct {
	platform.Platform
	files map[string]bool

	mu       sync.Mutex
	started  []*stubCommand
	lastName string
	lastArgs []string
}

func (f *fakePlatform) FileExists(path string) bool { return f.files[path] }

func (f *fakePlatform) LookPath(file string) (string, error) { return "/usr/bin/" + file, nil }

func (f *fakePlatform) CreateCommand(name string, args ...string) platform.Command {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := &stubCommand{pid: 4242, exit: make(chan error, 1)}
	f.started = append(f.started, cmd)
	f.lastName = name
	f.lastArgs = args
	return cmd
}

type stubCommand struct {
	pid  int
	exit chan error
	dir  string
}

func (c *stubCommand) Start() error                       { return nil }
func (c *stubCommand) Wait() error                        { return <-c.exit }
func (c *stubCommand) Run() error                         { return nil }
func (c *stubCommand) Output() ([]byte, error)            { return nil, nil }
func (c *stubCommand) CombinedOutput() ([]byte, error)    { return nil, nil }
func (c *stubCommand) Process() platform.Process          { return stubProcess{pid: c.pid} }
func (c *stubCommand) StdoutPipe() (io.ReadCloser, error) { return nil, nil }
func (c *stubCommand) StderrPipe() (io.ReadCloser, error) { return nil, nil }
func (c *stubCommand) SetStdout(io.Writer)                {}
func (c *stubCommand) SetStderr(io.Writer)                {}
func (c *stubCommand) SetEnv([]string)                    {}
func (c *stubCommand) SetDir(dir string)                  { c.dir = dir }
func (c *stubCommand) Kill()                              {}

type stubProcess struct{ pid int }

func (p stubProcess) Pid() int    { return p.pid }
func (p stubProcess) Kill() error { return nil }

func newTestStarter(t *testing.T, versionID string) (*GameStarter, *fakePlatform) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("unix java path semantics")
	}

	fp := &fakePlatform{files: map[string]bool{
		"/game/versions/" + versionID + "/" + versionID + ".jar": true,
	}}
	settings := &fakeSettings{cfg: config.DefaultConfig}
	return NewGameStarter(fp, settings, events.NewInMemoryEventBus(), "/game"), fp
}

func TestGameStarter_Start(t *testing.T) {
	starter, fp := newTestStarter(t, "1.20.4")

	status, err := starter.Start(context.Background(), *validIdentity(), "1.20.4")
	require.NoError(t, err)
	assert.Equal(t, "Launched 1.20.4 (pid 4242)", status)

	require.NotNil(t, starter.Running())
	assert.Equal(t, 4242, starter.Running().PID)

	assert.Equal(t, "/usr/bin/java", fp.lastName)
	assert.Contains(t, fp.lastArgs, "-Xms1024M")
	assert.Contains(t, fp.lastArgs, "-Xmx4096M")
	assert.Contains(t, fp.lastArgs, "--username")
	assert.Contains(t, fp.lastArgs, "Notch")

	// Let the watcher observe the exit and clear the running slot.
	fp.started[0].exit <- nil
	assert.Eventually(t, func() bool {
		return starter.Running() == nil
	}, time.Second, 10*time.Millisecond)
}

func TestGameStarter_RejectsSecondLaunch(t *testing.T) {
	starter, fp := newTestStarter(t, "1.20.4")

	_, err := starter.Start(context.Background(), *validIdentity(), "1.20.4")
	require.NoError(t, err)

	_, err = starter.Start(context.Background(), *validIdentity(), "1.20.4")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAlreadyRunning)

	fp.started[0].exit <- nil
}

func TestGameStarter_MissingJar(t *testing.T) {
	starter, _ := newTestStarter(t, "1.20.4")

	_, err := starter.Start(context.Background(), *validIdentity(), "1.8.9")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.Nil(t, starter.Running())
}

func TestBuildArgs(t *testing.T) {
	identity := domain.Identity{UUID: "uuid-1", Name: "Notch", AccessToken: "tok"}

	cfg := config.DefaultConfig
	args := buildArgs(cfg, "/game/versions/1.20.4/1.20.4.jar", identity)
	assert.Equal(t, []string{
		"-Xms1024M", "-Xmx4096M",
		"-jar", "/game/versions/1.20.4/1.20.4.jar",
		"--username", "Notch",
		"--uuid", "uuid-1",
		"--accessToken", "tok",
		"--width", "1280",
		"--height", "720",
	}, args)

	cfg.Window.Fullscreen = true
	args = buildArgs(cfg, "/game/versions/1.20.4/1.20.4.jar", identity)
	assert.Contains(t, args, "--fullscreen")
	assert.NotContains(t, args, "--width")
}

func TestGameStarter_StatsWithoutGame(t *testing.T) {
	starter, _ := newTestStarter(t, "1.20.4")

	_, err := starter.Stats(context.Background())
	require.Error(t, err)
}
