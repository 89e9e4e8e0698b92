package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePanel(); err != nil {
		return err
	}
	if err := c.validateProposals(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePanel() error {
	if len(c.Panel.Sources) == 0 {
		return errors.New("panel.sources must list at least one source")
	}
	seen := make(map[string]struct{}, len(c.Panel.Sources))
	for i, source := range c.Panel.Sources {
		if source == "" {
			return fmt.Errorf("panel.sources[%d] is blank", i)
		}
		if _, dup := seen[source]; dup {
			return fmt.Errorf("panel.sources lists %q more than once", source)
		}
		seen[source] = struct{}{}
	}
	return nil
}

func (c *Config) validateProposals() error {
	if c.Proposals.Quorum < 1 {
		return errors.New("proposals.quorum must be at least 1")
	}
	if c.Proposals.Quorum > len(c.Panel.Sources) {
		return fmt.Errorf("proposals.quorum %d exceeds panel size %d", c.Proposals.Quorum, len(c.Panel.Sources))
	}
	if c.Proposals.NearMissSimilarity < 0 || c.Proposals.NearMissSimilarity > 1 {
		return errors.New("proposals.near_miss_similarity must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
