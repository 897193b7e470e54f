package java

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
)

type fakeDetector struct {
	mu            sync.Mutex
	installations []domain.JavaInstallation
	err           error
	calls         int
}

func (f *fakeDetector) Detect(context.Context) ([]domain.JavaInstallation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.installations, f.err
}

func (f *fakeDetector) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeProvider struct {
	available    []int
	availableErr error
	installation domain.JavaInstallation
	installErr   error
	block        chan struct{}
}

func (f *fakeProvider) AvailableVersions(context.Context) ([]int, error) {
	return f.available, f.availableErr
}

func (f *fakeProvider) Install(ctx context.Context, _ domain.JavaDownloadInfo, _ string) (domain.JavaInstallation, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return domain.JavaInstallation{}, ctx.Err()
		}
	}
	return f.installation, f.installErr
}

func (f *fakeProvider) Name() string { return "fake" }

func newTestManager(detector *fakeDetector, provider *fakeProvider) *Manager {
	return NewManager(detector, provider, nil, "/tmp/runtimes", WithCloseDelay(0))
}

func TestDefaultMajor(t *testing.T) {
	tests := []struct {
		name      string
		available []int
		want      int
	}{
		{"prefers 21", []int{8, 11, 17, 21}, 21},
		{"falls back to 17", []int{8, 11, 17}, 17},
		{"falls back to highest", []int{8, 11}, 11},
		{"single entry", []int{8}, 8},
		{"unsorted input", []int{16, 8, 11}, 16},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultMajor(tt.available); got != tt.want {
				t.Errorf("DefaultMajor(%v) = %d, want %d", tt.available, got, tt.want)
			}
		})
	}
}

func TestManager_OpenDownloadPicker(t *testing.T) {
	m := newTestManager(&fakeDetector{}, &fakeProvider{available: []int{8, 11, 17, 21}})

	available, defaultMajor, err := m.OpenDownloadPicker(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{8, 11, 17, 21}, available)
	assert.Equal(t, 21, defaultMajor)
	assert.Equal(t, StateReady, m.State())
	assert.NoError(t, m.PickerError())
}

func TestManager_OpenDownloadPickerFailureStaysOpen(t *testing.T) {
	m := newTestManager(&fakeDetector{}, &fakeProvider{availableErr: fmt.Errorf("api down")})

	_, _, err := m.OpenDownloadPicker(context.Background())
	require.Error(t, err)

	// The picker remains open with the error recorded, not dismissed.
	assert.Equal(t, StateReady, m.State())
	assert.Error(t, m.PickerError())
}

func TestManager_CloseDownloadPicker(t *testing.T) {
	m := newTestManager(&fakeDetector{}, &fakeProvider{available: []int{21}})

	_, _, err := m.OpenDownloadPicker(context.Background())
	require.NoError(t, err)

	m.CloseDownloadPicker()
	assert.Equal(t, StateIdle, m.State())
}

func TestManager_DownloadSuccess(t *testing.T) {
	detector := &fakeDetector{}
	provider := &fakeProvider{
		available: []int{21},
		installation: domain.JavaInstallation{
			Path:         "/tmp/runtimes/jdk-21/bin/java",
			Version:      "21.0.2",
			MajorVersion: 21,
			Vendor:       "adoptium",
		},
	}
	m := newTestManager(detector, provider)

	_, _, err := m.OpenDownloadPicker(context.Background())
	require.NoError(t, err)

	inst, err := m.Download(context.Background(), domain.JavaDownloadInfo{MajorVersion: 21, ImageType: domain.ImageJRE}, "")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/runtimes/jdk-21/bin/java", inst.Path)
	assert.Equal(t, inst.Path, m.ActiveJavaPath(), "successful download adopts the new path")
	assert.Equal(t, 1, detector.callCount(), "successful download re-runs detection")
	assert.Equal(t, StateIdle, m.State(), "picker closes after success")
}

func TestManager_DownloadFailureStaysOpen(t *testing.T) {
	m := newTestManager(&fakeDetector{}, &fakeProvider{installErr: fmt.Errorf("network reset")})

	_, err := m.Download(context.Background(), domain.JavaDownloadInfo{MajorVersion: 21, ImageType: domain.ImageJRE}, "")
	require.Error(t, err)

	assert.Equal(t, StateReady, m.State(), "picker stays open for retry")
	assert.Error(t, m.PickerError())
	assert.Empty(t, m.ActiveJavaPath())

	// Retry is permitted: the in-progress flag was cleared on failure.
	_, err = m.Download(context.Background(), domain.JavaDownloadInfo{MajorVersion: 21, ImageType: domain.ImageJRE}, "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errors.ErrDownloadInProgress)
}

func TestManager_SingleFlightDownload(t *testing.T) {
	provider := &fakeProvider{
		block:        make(chan struct{}),
		installation: domain.JavaInstallation{Path: "/tmp/java"},
	}
	m := newTestManager(&fakeDetector{}, provider)

	done := make(chan error, 1)
	go func() {
		_, err := m.Download(context.Background(), domain.JavaDownloadInfo{MajorVersion: 21, ImageType: domain.ImageJRE}, "")
		done <- err
	}()

	// Wait until the first download holds the flag.
	require.Eventually(t, func() bool {
		return m.State() == StateDownloading
	}, time.Second, 5*time.Millisecond)

	_, err := m.Download(context.Background(), domain.JavaDownloadInfo{MajorVersion: 17, ImageType: domain.ImageJDK}, "")
	assert.ErrorIs(t, err, errors.ErrDownloadInProgress)

	// Dismissal is a no-op while the download is in flight.
	m.CloseDownloadPicker()
	assert.Equal(t, StateDownloading, m.State())

	close(provider.block)
	require.NoError(t, <-done)

	// Flag cleared after completion; a new download may start.
	assert.Equal(t, StateIdle, m.State())
}

func TestManager_SelectJava(t *testing.T) {
	m := newTestManager(&fakeDetector{}, &fakeProvider{})

	// Pure assignment: no validation of existence.
	m.SelectJava("/nonexistent/bin/java")
	assert.Equal(t, "/nonexistent/bin/java", m.ActiveJavaPath())
}

func TestManager_DetectRecordsInstallations(t *testing.T) {
	detector := &fakeDetector{installations: []domain.JavaInstallation{
		{Path: "/usr/bin/java", Version: "17.0.10", MajorVersion: 17, Vendor: "system"},
	}}
	m := newTestManager(detector, &fakeProvider{})

	installations, err := m.Detect(context.Background())
	require.NoError(t, err)
	assert.Len(t, installations, 1)
	assert.Equal(t, installations, m.Installations())
}

func TestManager_DetectEmptyIsNormal(t *testing.T) {
	m := newTestManager(&fakeDetector{}, &fakeProvider{})

	installations, err := m.Detect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, installations)
}

func TestManager_DetectFailure(t *testing.T) {
	detector := &fakeDetector{err: fmt.Errorf("scan blew up")}
	m := newTestManager(detector, &fakeProvider{})

	_, err := m.Detect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsToolchainError(err))
}
