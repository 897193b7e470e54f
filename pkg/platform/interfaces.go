package platform

import (
	"context"
	"io"
	"os"
)

// Platform provides a unified interface for all platform-specific operations
type Platform interface {
	OSOperations
	CommandFactory
	ExecOperations
}

// OSOperations defines file system and OS-level operations
type OSOperations interface {
	// File operations
	WriteFile(name string, data []byte, perm os.FileMode) error
	ReadFile(path string) ([]byte, error)
	Remove(path string) error
	RemoveAll(dir string) error
	Rename(oldpath, newpath string) error
	MkdirAll(dir string, perm os.FileMode) error
	CreateTemp(dir, pattern string) (*os.File, error)

	// File info operations
	Stat(name string) (os.FileInfo, error)
	ReadDir(s string) ([]os.DirEntry, error)
	IsNotExist(err error) bool
	EvalSymlinks(path string) (string, error)

	// Environment
	Environ() []string
	Getenv(key string) string
	UserHomeDir() (string, error)

	// Additional helpers
	DirExists(path string) bool
	FileExists(path string) bool
}

// CommandFactory creates and manages command execution
type CommandFactory interface {
	CreateCommand(name string, args ...string) Command
	CommandContext(ctx context.Context, name string, args ...string) Command
}

// Command represents an executing command
type Command interface {
	Start() error
	Wait() error
	Run() error
	Output() ([]byte, error)
	CombinedOutput() ([]byte, error)
	Process() Process
	StdoutPipe() (io.ReadCloser, error)
	StderrPipe() (io.ReadCloser, error)
	SetStdout(w io.Writer)
	SetStderr(w io.Writer)
	SetEnv(env []string)
	SetDir(s string)
	Kill()
}

// Process represents a running process
type Process interface {
	Pid() int
	Kill() error
}

// ExecOperations defines executable resolution operations
type ExecOperations interface {
	LookPath(file string) (string, error)
}

// Info provides information about the current platform
type Info struct {
	OS           string
	Architecture string
}
