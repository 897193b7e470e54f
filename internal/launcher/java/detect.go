package java

import (
	"context"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/pkg/logger"
	"github.com/craftlaunch/craftlaunch/pkg/platform"
)

// versionPattern matches the quoted version in `java -version` output,
// e.g. `openjdk version "21.0.2" 2024-01-16`.
var versionPattern = regexp.MustCompile(`version "([^"]+)"`)

// Detector enumerates Java installations reachable through standard
// lookup rules: PATH, well-known vendor directories, SDKMAN and
// JAVA_HOME. Zero results is a normal outcome, not an error.
type Detector struct {
	platform platform.Platform
	logger   *logger.Logger
}

// NewDetector creates a detector for the current host
func NewDetector(p platform.Platform) *Detector {
	return &Detector{
		platform: p,
		logger:   logger.New().WithField("component", "java-detect"),
	}
}

// Detect probes every candidate location and returns the working
// installations in discovery order, deduplicated by resolved path.
func (d *Detector) Detect(ctx context.Context) ([]domain.JavaInstallation, error) {
	candidates := d.candidates()

	seen := make(map[string]bool, len(candidates))
	installations := make([]domain.JavaInstallation, 0, len(candidates))

	for _, candidate := range candidates {
		resolved := candidate
		if r, err := d.platform.EvalSymlinks(candidate); err == nil {
			resolved = r
		}
		if seen[resolved] {
			continue
		}
		seen[resolved] = true

		inst, ok := d.probe(ctx, resolved)
		if !ok {
			d.logger.Debug("candidate failed version probe", "path", resolved)
			continue
		}
		installations = append(installations, inst)
	}

	d.logger.Info("java detection finished", "candidates", len(candidates), "found", len(installations))
	return installations, nil
}

// candidates collects possible java executable paths for the current OS
func (d *Detector) candidates() []string {
	var candidates []string

	if path, err := d.platform.LookPath("java"); err == nil {
		candidates = append(candidates, path)
	}

	switch runtime.GOOS {
	case "linux":
		candidates = append(candidates, d.scanJVMDirs(
			[]string{"/usr/lib/jvm", "/usr/java", "/opt/java", "/opt/jdk", "/opt/openjdk"},
			filepath.Join("bin", "java"),
		)...)
		candidates = append(candidates, d.sdkmanCandidate()...)

	case "darwin":
		candidates = append(candidates, d.scanJVMDirs(
			[]string{"/Library/Java/JavaVirtualMachines", "/System/Library/Java/JavaVirtualMachines"},
			filepath.Join("Contents", "Home", "bin", "java"),
		)...)
		for _, direct := range []string{
			"/usr/local/opt/openjdk/bin/java",
			"/opt/homebrew/opt/openjdk/bin/java",
		} {
			if d.platform.FileExists(direct) {
				candidates = append(candidates, direct)
			}
		}
		candidates = append(candidates, d.scanJVMDirs(
			[]string{"/opt/homebrew/Cellar/openjdk"},
			filepath.Join("libexec", "openjdk.jdk", "Contents", "Home", "bin", "java"),
		)...)
		candidates = append(candidates, d.sdkmanCandidate()...)

	case "windows":
		candidates = append(candidates, d.windowsCandidates()...)
	}

	if javaHome := d.platform.Getenv("JAVA_HOME"); javaHome != "" {
		path := filepath.Join(javaHome, "bin", execName())
		if d.platform.FileExists(path) {
			candidates = append(candidates, path)
		}
	}

	return candidates
}

// scanJVMDirs looks for <base>/<entry>/<suffix> under each base directory
func (d *Detector) scanJVMDirs(bases []string, suffix string) []string {
	var found []string
	for _, base := range bases {
		entries, err := d.platform.ReadDir(base)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			path := filepath.Join(base, entry.Name(), suffix)
			if d.platform.FileExists(path) {
				found = append(found, path)
			}
		}
	}
	return found
}

func (d *Detector) sdkmanCandidate() []string {
	home, err := d.platform.UserHomeDir()
	if err != nil {
		return nil
	}
	path := filepath.Join(home, ".sdkman", "candidates", "java", "current", "bin", "java")
	if d.platform.FileExists(path) {
		return []string{path}
	}
	return nil
}

func (d *Detector) windowsCandidates() []string {
	programFiles := d.platform.Getenv("ProgramFiles")
	if programFiles == "" {
		programFiles = `C:\Program Files`
	}
	programFilesX86 := d.platform.Getenv("ProgramFiles(x86)")
	if programFilesX86 == "" {
		programFilesX86 = `C:\Program Files (x86)`
	}
	localAppData := d.platform.Getenv("LOCALAPPDATA")

	vendors := []string{
		"Java",
		"Eclipse Adoptium",
		"AdoptOpenJDK",
		`Microsoft\jdk`,
		"Zulu",
		"Amazon Corretto",
		`BellSoft\LibericaJDK`,
		`Programs\Eclipse Adoptium`,
	}

	var bases []string
	for _, root := range []string{programFiles, programFilesX86, localAppData} {
		if root == "" {
			continue
		}
		for _, vendor := range vendors {
			bases = append(bases, filepath.Join(root, vendor))
		}
	}

	return d.scanJVMDirs(bases, filepath.Join("bin", "java.exe"))
}

// probe runs `java -version` and parses the reported version
func (d *Detector) probe(ctx context.Context, path string) (domain.JavaInstallation, bool) {
	cmd := d.platform.CommandContext(ctx, path, "-version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return domain.JavaInstallation{}, false
	}

	match := versionPattern.FindStringSubmatch(string(output))
	if match == nil {
		return domain.JavaInstallation{}, false
	}

	version := match[1]
	return domain.JavaInstallation{
		Path:         path,
		Version:      version,
		MajorVersion: MajorVersion(version),
		Vendor:       vendorFromPath(path),
	}, true
}

// MajorVersion extracts the major release number from a full version
// string. Legacy "1.x" strings report x, e.g. "1.8.0_392" is Java 8.
func MajorVersion(version string) int {
	parts := strings.FieldsFunc(version, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return 0
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	if major == 1 && len(parts) > 1 {
		if minor, err := strconv.Atoi(parts[1]); err == nil {
			return minor
		}
	}
	return major
}

// vendorFromPath tags an installation by where it was found
func vendorFromPath(path string) string {
	lower := strings.ToLower(filepath.ToSlash(path))
	switch {
	case strings.Contains(lower, ".sdkman"):
		return "sdkman"
	case strings.Contains(lower, "adoptium") || strings.Contains(lower, "temurin"):
		return "adoptium"
	case strings.Contains(lower, "homebrew"):
		return "homebrew"
	case strings.Contains(lower, "corretto"):
		return "corretto"
	case strings.Contains(lower, "zulu"):
		return "zulu"
	default:
		return "system"
	}
}

func execName() string {
	if runtime.GOOS == "windows" {
		return "java.exe"
	}
	return "java"
}
