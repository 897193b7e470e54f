package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Theme is the only theme the launcher ships. Any other persisted value
// is corrected on load and written back.
const Theme = "dark"

// Config holds the complete launcher configuration
type Config struct {
	Version   string          `yaml:"version" json:"version"`
	Memory    MemoryConfig    `yaml:"memory" json:"memory"`
	Java      JavaConfig      `yaml:"java" json:"java"`
	Window    WindowConfig    `yaml:"window" json:"window"`
	Downloads DownloadsConfig `yaml:"downloads" json:"downloads"`
	Game      GameConfig      `yaml:"game" json:"game"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Theme     string          `yaml:"theme" json:"theme"`
}

// MemoryConfig holds JVM heap bounds in megabytes
type MemoryConfig struct {
	MinMB int `yaml:"minMb" json:"minMb"`
	MaxMB int `yaml:"maxMb" json:"maxMb"`
}

// JavaConfig holds the selected Java runtime configuration
type JavaConfig struct {
	// Path points at the java executable to launch with. Empty means
	// "re-detect before launch".
	Path string `yaml:"path" json:"path"`
}

// WindowConfig holds game window configuration
type WindowConfig struct {
	Width      int  `yaml:"width" json:"width"`
	Height     int  `yaml:"height" json:"height"`
	Fullscreen bool `yaml:"fullscreen" json:"fullscreen"`
}

// DownloadsConfig holds file download configuration
type DownloadsConfig struct {
	MaxConcurrent int `yaml:"maxConcurrent" json:"maxConcurrent"`
}

// GameConfig holds version catalog display and selection configuration
type GameConfig struct {
	SelectedVersion string `yaml:"selectedVersion" json:"selectedVersion"`
	ShowSnapshots   bool   `yaml:"showSnapshots" json:"showSnapshots"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// DefaultConfig provides sensible defaults for a fresh install
var DefaultConfig = Config{
	Version: "1.0",
	Memory: MemoryConfig{
		MinMB: 1024,
		MaxMB: 4096,
	},
	Window: WindowConfig{
		Width:  1280,
		Height: 720,
	},
	Downloads: DownloadsConfig{
		MaxConcurrent: 6,
	},
	Game: GameConfig{
		ShowSnapshots: false,
	},
	Logging: LoggingConfig{
		Level:  "INFO",
		Format: "text",
		Output: "stdout",
	},
	Theme: Theme,
}

// LoadConfig loads the launcher configuration from file and environment variables.
//  1. Path specified in CRAFTLAUNCH_CONFIG_PATH environment variable
//  2. ~/.craftlaunch/config.yml
//  3. ./craftlaunch.yml
//
// Applies environment variable overrides for logging, normalizes policy-pinned
// fields and validates the final configuration before returning.
// Returns (config, configPath, error) - configPath indicates source of configuration.
func LoadConfig() (*Config, string, error) {
	config := DefaultConfig

	path, err := loadFromFile(&config)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config file: %w", err)
	}

	if val := os.Getenv("CRAFTLAUNCH_LOG_LEVEL"); val != "" {
		config.Logging.Level = val
	}
	if val := os.Getenv("CRAFTLAUNCH_LOG_FORMAT"); val != "" {
		config.Logging.Format = val
	}

	config.Normalize()

	if e := config.Validate(); e != nil {
		return nil, "", fmt.Errorf("configuration validation failed: %w", e)
	}

	return &config, path, nil
}

// loadFromFile loads configuration from the first available YAML file.
// Updates the provided config struct with values from the file.
// Returns the path of the loaded file or "built-in defaults" if no file found.
func loadFromFile(config *Config) (string, error) {
	for _, path := range ConfigPaths() {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return "", fmt.Errorf("failed to parse config file %s: %w", path, err)
		}

		return path, nil
	}

	return "built-in defaults (no config file found)", nil
}

// ConfigPaths returns the configuration file search locations in priority order
func ConfigPaths() []string {
	paths := []string{os.Getenv("CRAFTLAUNCH_CONFIG_PATH")}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".craftlaunch", "config.yml"))
	}
	return append(paths, "./craftlaunch.yml")
}

// Save writes the configuration to the given path as YAML,
// creating parent directories as needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// Normalize corrects policy-pinned fields in place and reports whether
// anything changed. Callers that loaded from disk should persist when
// this returns true.
func (c *Config) Normalize() bool {
	changed := false
	if c.Theme != Theme {
		c.Theme = Theme
		changed = true
	}
	return changed
}

// Validate performs validation of the configuration.
// Returns error describing the first validation failure found.
func (c *Config) Validate() error {
	if c.Memory.MinMB < 0 {
		return fmt.Errorf("invalid minimum memory: %d", c.Memory.MinMB)
	}

	if c.Memory.MaxMB < 1 {
		return fmt.Errorf("invalid maximum memory: %d", c.Memory.MaxMB)
	}

	if c.Memory.MinMB > c.Memory.MaxMB {
		return fmt.Errorf("minimum memory %dMB exceeds maximum %dMB", c.Memory.MinMB, c.Memory.MaxMB)
	}

	if c.Window.Width < 1 || c.Window.Height < 1 {
		return fmt.Errorf("invalid window dimensions: %dx%d", c.Window.Width, c.Window.Height)
	}

	if c.Downloads.MaxConcurrent < 1 {
		return fmt.Errorf("invalid download concurrency: %d", c.Downloads.MaxConcurrent)
	}

	validLevels := map[string]bool{
		"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true,
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// DataDir returns the root directory for launcher state
// (versions, runtimes, the installation registry).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".craftlaunch"), nil
}

// VersionsDir returns the directory holding installed game versions
func (c *Config) VersionsDir(dataDir string) string {
	return filepath.Join(dataDir, "versions")
}

// RuntimesDir returns the directory holding downloaded Java runtimes
func (c *Config) RuntimesDir(dataDir string) string {
	return filepath.Join(dataDir, "runtimes")
}
