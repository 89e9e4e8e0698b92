package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"traitvote/internal/textutil"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizePanel()
	c.normalizeAggregation()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("TRAITVOTE_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.DataDir, defaultHistoryFile)
	}
	var err error
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

// normalizePanel canonicalizes source names so they match the sanitized file
// stems the ballot loader derives. Blank entries are left for Validate to reject.
func (c *Config) normalizePanel() {
	sources := make([]string, 0, len(c.Panel.Sources))
	for _, source := range c.Panel.Sources {
		if strings.TrimSpace(source) == "" {
			sources = append(sources, "")
			continue
		}
		sources = append(sources, textutil.SanitizeToken(source))
	}
	c.Panel.Sources = sources
}

func (c *Config) normalizeAggregation() {
	if c.Aggregation.Workers <= 0 {
		c.Aggregation.Workers = 1
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("TRAITVOTE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
