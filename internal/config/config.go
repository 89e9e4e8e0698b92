package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Panel lists the voting sources in column order.
type Panel struct {
	Sources []string `toml:"sources"`
}

// Proposals contains settings for merging category proposals.
type Proposals struct {
	Quorum             int     `toml:"quorum"`
	NearMissSimilarity float64 `toml:"near_miss_similarity"`
}

// Aggregation contains settings for phase aggregation.
type Aggregation struct {
	Workers int `toml:"workers"`
}

// Paths contains directory configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	OutputDir string `toml:"output_dir"`
}

// History controls the SQLite run history.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // Default: <data_dir>/history.db
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for traitvote.
type Config struct {
	Panel       Panel       `toml:"panel"`
	Proposals   Proposals   `toml:"proposals"`
	Aggregation Aggregation `toml:"aggregation"`
	Paths       Paths       `toml:"paths"`
	History     History     `toml:"history"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/traitvote/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return "", false, fmt.Errorf("config file %s not found", expanded)
			}
			return "", false, fmt.Errorf("inspect config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/traitvote/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("traitvote.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data directory and, when history is enabled,
// the directory holding the history database.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.DataDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.DataDir, err)
	}
	if c.History.Enabled {
		dir := filepath.Dir(c.History.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
