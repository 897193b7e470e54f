package platform

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// BasePlatform implements Platform over the real operating system.
// The launcher runs on linux, macOS and windows; anything OS-specific
// (lookup directories, executable suffixes) lives with its caller, not here.
type BasePlatform struct{}

func (bp *BasePlatform) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (bp *BasePlatform) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (bp *BasePlatform) Remove(path string) error {
	return os.Remove(path)
}

func (bp *BasePlatform) RemoveAll(dir string) error {
	return os.RemoveAll(dir)
}

func (bp *BasePlatform) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (bp *BasePlatform) MkdirAll(dir string, perm os.FileMode) error {
	return os.MkdirAll(dir, perm)
}

func (bp *BasePlatform) CreateTemp(dir, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

func (bp *BasePlatform) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (bp *BasePlatform) ReadDir(s string) ([]os.DirEntry, error) {
	return os.ReadDir(s)
}

func (bp *BasePlatform) IsNotExist(err error) bool {
	return os.IsNotExist(err)
}

func (bp *BasePlatform) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

func (bp *BasePlatform) Environ() []string {
	return os.Environ()
}

func (bp *BasePlatform) Getenv(key string) string {
	return os.Getenv(key)
}

func (bp *BasePlatform) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (bp *BasePlatform) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// DirExists checks if a directory exists
func (bp *BasePlatform) DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// FileExists checks if a file exists
func (bp *BasePlatform) FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func (bp *BasePlatform) CreateCommand(name string, args ...string) Command {
	return &ExecCommand{cmd: exec.Command(name, args...)}
}

func (bp *BasePlatform) CommandContext(ctx context.Context, name string, args ...string) Command {
	return &ExecCommand{cmd: exec.CommandContext(ctx, name, args...)}
}

// ExecCommand wraps exec.Cmd to implement Command interface
type ExecCommand struct {
	cmd *exec.Cmd
}

func (e *ExecCommand) Start() error {
	return e.cmd.Start()
}

func (e *ExecCommand) Wait() error {
	return e.cmd.Wait()
}

func (e *ExecCommand) Run() error {
	return e.cmd.Run()
}

// Output runs the command and returns its stdout
func (e *ExecCommand) Output() ([]byte, error) {
	return e.cmd.Output()
}

// CombinedOutput runs the command and returns its combined stdout and stderr
func (e *ExecCommand) CombinedOutput() ([]byte, error) {
	return e.cmd.CombinedOutput()
}

func (e *ExecCommand) Process() Process {
	if e.cmd.Process == nil {
		return nil
	}
	return &ExecProcess{process: e.cmd.Process}
}

func (e *ExecCommand) StdoutPipe() (io.ReadCloser, error) {
	return e.cmd.StdoutPipe()
}

func (e *ExecCommand) StderrPipe() (io.ReadCloser, error) {
	return e.cmd.StderrPipe()
}

func (e *ExecCommand) SetStdout(w io.Writer) {
	e.cmd.Stdout = w
}

func (e *ExecCommand) SetStderr(w io.Writer) {
	e.cmd.Stderr = w
}

func (e *ExecCommand) SetEnv(env []string) {
	e.cmd.Env = env
}

func (e *ExecCommand) SetDir(s string) {
	e.cmd.Dir = s
}

func (e *ExecCommand) Kill() {
	if e.cmd.Process == nil {
		return
	}
	_ = e.cmd.Process.Kill()
}

// ExecProcess wraps os.Process to implement Process interface
type ExecProcess struct {
	process *os.Process
}

func (p *ExecProcess) Pid() int {
	return p.process.Pid
}

func (p *ExecProcess) Kill() error {
	return p.process.Kill()
}
