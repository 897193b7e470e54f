package java

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/craftlaunch/craftlaunch/pkg/errors"
	"github.com/craftlaunch/craftlaunch/pkg/platform"
)

// NormalizePath resolves a configured java executable path into one that
// exists on disk.
//
// On Windows a missing ".exe" extension is appended, and a bare
// "java.exe" falls back to PATH lookup. On Unix only the literal "java"
// is resolved through PATH; any other non-existent path is an error so a
// stale configured location surfaces before launch.
func NormalizePath(p platform.Platform, javaPath string) (string, error) {
	if runtime.GOOS == "windows" {
		return normalizeWindows(p, javaPath)
	}
	return normalizeUnix(p, javaPath)
}

func normalizeUnix(p platform.Platform, javaPath string) (string, error) {
	if p.FileExists(javaPath) {
		return javaPath, nil
	}

	if javaPath == "java" {
		if resolved, err := p.LookPath("java"); err == nil {
			return resolved, nil
		}
		return javaPath, nil
	}

	return "", fmt.Errorf("%w: %s", errors.ErrJavaNotFound, javaPath)
}

func normalizeWindows(p platform.Platform, javaPath string) (string, error) {
	path := javaPath
	if !p.FileExists(path) && filepath.Ext(path) == "" {
		path += ".exe"
	}

	if !p.FileExists(path) && strings.EqualFold(filepath.Base(path), "java.exe") {
		if resolved, err := p.LookPath("java"); err == nil {
			path = resolved
		}
	}

	if !p.FileExists(path) {
		return "", fmt.Errorf("%w: %s", errors.ErrJavaNotFound, path)
	}

	return path, nil
}
