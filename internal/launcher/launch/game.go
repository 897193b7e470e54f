package launch

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/internal/launcher/events"
	"github.com/craftlaunch/craftlaunch/internal/launcher/java"
	"github.com/craftlaunch/craftlaunch/pkg/config"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
	"github.com/craftlaunch/craftlaunch/pkg/logger"
	"github.com/craftlaunch/craftlaunch/pkg/platform"
)

// SettingsProvider exposes the current launcher settings
type SettingsProvider interface {
	Get() config.Config
}

// RunningGame tracks one spawned game process
type RunningGame struct {
	VersionID string
	PID       int
	StartTime time.Time
}

// GameStats is a point-in-time sample of the running game process
type GameStats struct {
	PID        int
	CPUPercent float64
	MemoryRSS  uint64
	Uptime     time.Duration
}

// GameStarter spawns the game process and tracks it until exit. At most
// one game runs at a time; a second start while one is running is
// rejected here, not in the coordinator.
type GameStarter struct {
	platform platform.Platform
	settings SettingsProvider
	bus      events.EventBus
	logger   *logger.Logger
	gameDir  string

	mu      sync.Mutex
	running *RunningGame
}

// NewGameStarter creates a starter launching from gameDir
func NewGameStarter(p platform.Platform, settings SettingsProvider, bus events.EventBus, gameDir string) *GameStarter {
	return &GameStarter{
		platform: p,
		settings: settings,
		bus:      bus,
		logger:   logger.New().WithField("component", "game"),
		gameDir:  gameDir,
	}
}

// Start spawns the game for the given version and returns a status
// message once the process is up. The process is watched in the
// background; its exit is published on the event bus.
func (g *GameStarter) Start(ctx context.Context, identity domain.Identity, versionID string) (string, error) {
	g.mu.Lock()
	if g.running != nil {
		running := *g.running
		g.mu.Unlock()
		return "", fmt.Errorf("%w: %s (pid %d)", errors.ErrAlreadyRunning, running.VersionID, running.PID)
	}
	g.mu.Unlock()

	cfg := g.settings.Get()

	javaPath := cfg.Java.Path
	if javaPath == "" {
		javaPath = "java"
	}
	javaPath, err := java.NormalizePath(g.platform, javaPath)
	if err != nil {
		return "", err
	}

	jarPath := filepath.Join(g.gameDir, "versions", versionID, versionID+".jar")
	if !g.platform.FileExists(jarPath) {
		return "", errors.NewVersionNotFoundError(versionID)
	}

	args := buildArgs(cfg, jarPath, identity)
	cmd := g.platform.CreateCommand(javaPath, args...)
	cmd.SetDir(g.gameDir)

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrLaunchFailed, err)
	}

	pid := 0
	if proc := cmd.Process(); proc != nil {
		pid = proc.Pid()
	}

	g.mu.Lock()
	g.running = &RunningGame{VersionID: versionID, PID: pid, StartTime: time.Now()}
	g.mu.Unlock()

	g.publish(ctx, events.GameLaunched, events.GameEventData{VersionID: versionID, PID: pid})
	go g.watch(cmd, versionID, pid)

	g.logger.Info("game started", "version", versionID, "pid", pid, "player", identity.Name)
	return fmt.Sprintf("Launched %s (pid %d)", versionID, pid), nil
}

// watch waits for the process and clears the running slot on exit
func (g *GameStarter) watch(cmd platform.Command, versionID string, pid int) {
	err := cmd.Wait()

	exitCode := 0
	if err != nil {
		exitCode = -1
		if exitErr, ok := err.(interface{ ExitCode() int }); ok {
			exitCode = exitErr.ExitCode()
		}
		g.logger.Warn("game exited with error", "version", versionID, "pid", pid, "error", err)
	} else {
		g.logger.Info("game exited", "version", versionID, "pid", pid)
	}

	g.mu.Lock()
	g.running = nil
	g.mu.Unlock()

	g.publish(context.Background(), events.GameExited, events.GameEventData{
		VersionID: versionID,
		PID:       pid,
		ExitCode:  exitCode,
	})
}

// Running returns the current game, or nil when none is running
func (g *GameStarter) Running() *RunningGame {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running == nil {
		return nil
	}
	running := *g.running
	return &running
}

// Stats samples CPU and memory usage of the running game process
func (g *GameStarter) Stats(ctx context.Context) (*GameStats, error) {
	running := g.Running()
	if running == nil {
		return nil, fmt.Errorf("no game is running")
	}

	proc, err := process.NewProcessWithContext(ctx, int32(running.PID))
	if err != nil {
		return nil, fmt.Errorf("%w: process %d: %v", errors.ErrLaunchFailed, running.PID, err)
	}

	stats := &GameStats{
		PID:    running.PID,
		Uptime: time.Since(running.StartTime),
	}
	if cpu, err := proc.CPUPercentWithContext(ctx); err == nil {
		stats.CPUPercent = cpu
	}
	if mem, err := proc.MemoryInfoWithContext(ctx); err == nil && mem != nil {
		stats.MemoryRSS = mem.RSS
	}

	return stats, nil
}

// buildArgs assembles the JVM and game arguments from settings
func buildArgs(cfg config.Config, jarPath string, identity domain.Identity) []string {
	args := []string{
		fmt.Sprintf("-Xms%dM", cfg.Memory.MinMB),
		fmt.Sprintf("-Xmx%dM", cfg.Memory.MaxMB),
		"-jar", jarPath,
		"--username", identity.Name,
		"--uuid", identity.UUID,
	}
	if identity.AccessToken != "" {
		args = append(args, "--accessToken", identity.AccessToken)
	}
	if cfg.Window.Fullscreen {
		args = append(args, "--fullscreen")
	} else {
		args = append(args,
			"--width", strconv.Itoa(cfg.Window.Width),
			"--height", strconv.Itoa(cfg.Window.Height),
		)
	}
	return args
}

func (g *GameStarter) publish(ctx context.Context, eventType events.EventType, data events.GameEventData) {
	if g.bus == nil {
		return
	}
	if err := g.bus.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		g.logger.Warn("event publish failed", "type", string(eventType), "error", err)
	}
}
