package java

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/internal/launcher/events"
	"github.com/craftlaunch/craftlaunch/internal/launcher/store"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
	"github.com/craftlaunch/craftlaunch/pkg/logger"
)

// State identifies where the toolchain manager is in its lifecycle
type State string

const (
	StateIdle        State = "idle"
	StateDetecting   State = "detecting"
	StateFetching    State = "picker-fetching"
	StateReady       State = "picker-ready"
	StateDownloading State = "picker-downloading"
)

// defaultCloseDelay is the pause between a finished download and the
// picker auto-dismissing, so the success status stays readable.
const defaultCloseDelay = 1500 * time.Millisecond

// JavaDetector enumerates local installations
type JavaDetector interface {
	Detect(ctx context.Context) ([]domain.JavaInstallation, error)
}

// Provider serves remote runtime metadata and installs
type Provider interface {
	AvailableVersions(ctx context.Context) ([]int, error)
	Install(ctx context.Context, info domain.JavaDownloadInfo, destDir string) (domain.JavaInstallation, error)
	Name() string
}

// Manager owns Java toolchain state: the detected installation list, the
// active java path, and the download picker. At most one download runs at
// a time; the in-progress flag is cleared unconditionally when it ends.
type Manager struct {
	detector    JavaDetector
	provider    Provider
	store       *store.Store
	bus         events.EventBus
	logger      *logger.Logger
	runtimesDir string
	closeDelay  time.Duration

	mu            sync.Mutex
	state         State
	downloading   bool
	javaPath      string
	installations []domain.JavaInstallation
	available     []int
	defaultMajor  int
	pickerErr     error
}

// ManagerOption customizes a Manager
type ManagerOption func(*Manager)

// WithCloseDelay overrides the post-success picker pause
func WithCloseDelay(d time.Duration) ManagerOption {
	return func(m *Manager) { m.closeDelay = d }
}

// WithEventBus attaches an event bus for toolchain events
func WithEventBus(bus events.EventBus) ManagerOption {
	return func(m *Manager) { m.bus = bus }
}

// NewManager creates a toolchain manager installing into runtimesDir
func NewManager(detector JavaDetector, provider Provider, s *store.Store, runtimesDir string, opts ...ManagerOption) *Manager {
	m := &Manager{
		detector:    detector,
		provider:    provider,
		store:       s,
		logger:      logger.New().WithField("component", "java-toolchain"),
		runtimesDir: runtimesDir,
		closeDelay:  defaultCloseDelay,
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ActiveJavaPath returns the currently selected java executable path
func (m *Manager) ActiveJavaPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.javaPath
}

// Installations returns the most recent detection result
func (m *Manager) Installations() []domain.JavaInstallation {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.JavaInstallation, len(m.installations))
	copy(out, m.installations)
	return out
}

// Detect scans for installations and records the result as a new registry
// generation. An empty result is a normal outcome; only a failed scan
// returns an error.
func (m *Manager) Detect(ctx context.Context) ([]domain.JavaInstallation, error) {
	m.mu.Lock()
	prev := m.state
	m.state = StateDetecting
	m.mu.Unlock()

	installations, err := m.detector.Detect(ctx)

	m.mu.Lock()
	m.state = prev
	if err == nil {
		m.installations = installations
	}
	m.mu.Unlock()

	if err != nil {
		return nil, errors.WrapToolchainError("java", "detect", err)
	}

	if m.store != nil {
		if err := m.store.RecordJavaInstallations(ctx, installations); err != nil {
			m.logger.Warn("failed to persist detection result", "error", err)
		}
	}

	m.publish(ctx, events.JavaDetected, events.JavaEventData{})
	return installations, nil
}

// OpenDownloadPicker queries the provider for available major versions
// and computes the default selection. A failed query leaves the picker
// open with the error recorded instead of closing it.
func (m *Manager) OpenDownloadPicker(ctx context.Context) ([]int, int, error) {
	m.mu.Lock()
	m.state = StateFetching
	m.mu.Unlock()

	available, err := m.provider.AvailableVersions(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateReady
	if err != nil {
		m.pickerErr = err
		return nil, 0, errors.WrapToolchainError(m.provider.Name(), "fetch versions", err)
	}

	m.pickerErr = nil
	m.available = available
	m.defaultMajor = DefaultMajor(available)
	return available, m.defaultMajor, nil
}

// CloseDownloadPicker dismisses the picker. It is a no-op while a
// download is in flight.
func (m *Manager) CloseDownloadPicker() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.downloading {
		return
	}
	m.state = StateIdle
	m.pickerErr = nil
}

// PickerError returns the error recorded by a failed picker query, if any
func (m *Manager) PickerError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pickerErr
}

// Download installs the requested runtime. Only one download may run at
// a time; a second call while one is active is rejected without touching
// the in-progress flag. On success the new installation's path becomes
// the active java path, the installation list refreshes, and after a
// bounded pause the picker closes. On failure the picker stays open for
// a retry.
func (m *Manager) Download(ctx context.Context, info domain.JavaDownloadInfo, customPath string) (domain.JavaInstallation, error) {
	m.mu.Lock()
	if m.downloading {
		m.mu.Unlock()
		return domain.JavaInstallation{}, errors.ErrDownloadInProgress
	}
	m.downloading = true
	m.state = StateDownloading
	m.mu.Unlock()

	inst, err := m.runDownload(ctx, info, customPath)

	m.mu.Lock()
	m.downloading = false
	if err != nil {
		m.state = StateReady
		m.pickerErr = err
	}
	m.mu.Unlock()

	if err != nil {
		return domain.JavaInstallation{}, err
	}

	// Keep the success status visible before the picker dismisses.
	if m.closeDelay > 0 {
		select {
		case <-time.After(m.closeDelay):
		case <-ctx.Done():
		}
	}
	m.CloseDownloadPicker()

	return inst, nil
}

func (m *Manager) runDownload(ctx context.Context, info domain.JavaDownloadInfo, customPath string) (domain.JavaInstallation, error) {
	destDir := m.runtimesDir
	if customPath != "" {
		destDir = customPath
	}

	inst, err := m.provider.Install(ctx, info, destDir)
	if err != nil {
		m.logger.Warn("java download failed", "major", info.MajorVersion, "imageType", string(info.ImageType), "error", err)
		return domain.JavaInstallation{}, err
	}

	m.SelectJava(inst.Path)

	if _, err := m.Detect(ctx); err != nil {
		m.logger.Warn("post-install detection failed", "error", err)
	}

	m.publish(ctx, events.JavaInstalled, events.JavaEventData{
		Path:         inst.Path,
		Version:      inst.Version,
		MajorVersion: inst.MajorVersion,
		Vendor:       inst.Vendor,
	})

	return inst, nil
}

// SelectJava assigns the active java path. No validation happens here;
// a bad path surfaces at launch time.
func (m *Manager) SelectJava(path string) {
	m.mu.Lock()
	m.javaPath = path
	m.mu.Unlock()
}

func (m *Manager) publish(ctx context.Context, eventType events.EventType, data events.JavaEventData) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		m.logger.Warn("event publish failed", "type", string(eventType), "error", err)
	}
}

// DefaultMajor picks the picker's preselected version: 21 if available,
// else 17, else the highest version offered.
func DefaultMajor(available []int) int {
	if len(available) == 0 {
		return 0
	}

	for _, preferred := range []int{21, 17} {
		for _, v := range available {
			if v == preferred {
				return preferred
			}
		}
	}

	sorted := make([]int, len(available))
	copy(sorted, available)
	sort.Ints(sorted)
	return sorted[len(sorted)-1]
}
