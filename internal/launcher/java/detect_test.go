package java

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftlaunch/craftlaunch/pkg/platform"
)

// fakePlatform overrides the operations detection touches; everything
// else panics through the nil embedded interface if reached.
type fakePlatform struct {
	platform.Platform
	files    map[string]bool
	dirs     map[string][]string
	env      map[string]string
	lookPath string
	probes   map[string]string
}

func (f *fakePlatform) LookPath(file string) (string, error) {
	if f.lookPath == "" {
		return "", os.ErrNotExist
	}
	return f.lookPath, nil
}

func (f *fakePlatform) FileExists(path string) bool {
	return f.files[path]
}

func (f *fakePlatform) ReadDir(dir string) ([]os.DirEntry, error) {
	names, ok := f.dirs[dir]
	if !ok {
		return nil, os.ErrNotExist
	}
	entries := make([]os.DirEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, fakeDirEntry{name: name})
	}
	return entries, nil
}

func (f *fakePlatform) Getenv(key string) string {
	return f.env[key]
}

func (f *fakePlatform) UserHomeDir() (string, error) {
	if home, ok := f.env["HOME"]; ok {
		return home, nil
	}
	return "", os.ErrNotExist
}

func (f *fakePlatform) EvalSymlinks(path string) (string, error) {
	return path, nil
}

func (f *fakePlatform) CommandContext(_ context.Context, name string, _ ...string) platform.Command {
	output, ok := f.probes[name]
	if !ok {
		return &fakeCommand{err: os.ErrNotExist}
	}
	return &fakeCommand{output: output}
}

type fakeDirEntry struct{ name string }

func (e fakeDirEntry) Name() string               { return e.name }
func (e fakeDirEntry) IsDir() bool                { return true }
func (e fakeDirEntry) Type() os.FileMode          { return os.ModeDir }
func (e fakeDirEntry) Info() (os.FileInfo, error) { return nil, os.ErrNotExist }

type fakeCommand struct {
	output string
	err    error
}

func (c *fakeCommand) Start() error                        { return c.err }
func (c *fakeCommand) Wait() error                         { return c.err }
func (c *fakeCommand) Run() error                          { return c.err }
func (c *fakeCommand) Output() ([]byte, error)             { return []byte(c.output), c.err }
func (c *fakeCommand) CombinedOutput() ([]byte, error)     { return []byte(c.output), c.err }
func (c *fakeCommand) Process() platform.Process           { return nil }
func (c *fakeCommand) StdoutPipe() (io.ReadCloser, error)  { return nil, c.err }
func (c *fakeCommand) StderrPipe() (io.ReadCloser, error)  { return nil, c.err }
func (c *fakeCommand) SetStdout(io.Writer)                 {}
func (c *fakeCommand) SetStderr(io.Writer)                 {}
func (c *fakeCommand) SetEnv([]string)                     {}
func (c *fakeCommand) SetDir(string)                       {}
func (c *fakeCommand) Kill()                               {}

const java21Output = `openjdk version "21.0.2" 2024-01-16 LTS
OpenJDK Runtime Environment Temurin-21.0.2+13 (build 21.0.2+13-LTS)`

const java8Output = `openjdk version "1.8.0_392"
OpenJDK Runtime Environment (build 1.8.0_392-8u392-ga-1~22.04-b08)`

func TestDetector_Detect(t *testing.T) {
	fp := &fakePlatform{
		lookPath: "/usr/bin/java",
		files:    map[string]bool{},
		dirs:     map[string][]string{},
		env:      map[string]string{},
		probes: map[string]string{
			"/usr/bin/java": java21Output,
		},
	}

	detector := NewDetector(fp)
	installations, err := detector.Detect(context.Background())
	require.NoError(t, err)
	require.Len(t, installations, 1)

	assert.Equal(t, "/usr/bin/java", installations[0].Path)
	assert.Equal(t, "21.0.2", installations[0].Version)
	assert.Equal(t, 21, installations[0].MajorVersion)
	assert.Equal(t, "system", installations[0].Vendor)
}

func TestDetector_DetectNothingIsNotAnError(t *testing.T) {
	fp := &fakePlatform{
		files:  map[string]bool{},
		dirs:   map[string][]string{},
		env:    map[string]string{},
		probes: map[string]string{},
	}

	installations, err := NewDetector(fp).Detect(context.Background())
	require.NoError(t, err, "zero results is a normal outcome")
	assert.Empty(t, installations)
}

func TestDetector_DetectSkipsFailedProbes(t *testing.T) {
	fp := &fakePlatform{
		lookPath: "/usr/bin/java",
		files:    map[string]bool{},
		dirs:     map[string][]string{},
		env:      map[string]string{},
		// No probe registered for the candidate, so the version probe fails.
		probes: map[string]string{},
	}

	installations, err := NewDetector(fp).Detect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, installations)
}

func TestMajorVersion(t *testing.T) {
	tests := []struct {
		version string
		want    int
	}{
		{"21.0.2", 21},
		{"17.0.10", 17},
		{"11.0.22", 11},
		{"1.8.0_392", 8},
		{"21", 21},
		{"21.0.2+13", 21},
		{"garbage", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			if got := MajorVersion(tt.version); got != tt.want {
				t.Errorf("MajorVersion(%q) = %d, want %d", tt.version, got, tt.want)
			}
		})
	}
}

func TestVendorFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/home/dev/.sdkman/candidates/java/current/bin/java", "sdkman"},
		{`C:\Program Files\Eclipse Adoptium\jdk-21\bin\java.exe`, "adoptium"},
		{"/opt/homebrew/opt/openjdk/bin/java", "homebrew"},
		{`C:\Program Files\Amazon Corretto\jdk17\bin\java.exe`, "corretto"},
		{"/usr/lib/jvm/java-21-openjdk/bin/java", "system"},
	}

	for _, tt := range tests {
		if got := vendorFromPath(tt.path); got != tt.want {
			t.Errorf("vendorFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
