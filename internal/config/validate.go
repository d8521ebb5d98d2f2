package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateIndex(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateIndex() error {
	parsed, err := url.Parse(c.Index.BaseURL)
	if err != nil {
		return fmt.Errorf("index.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("index.base_url must be an http(s) URL, got %q", c.Index.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("index.base_url must include a host, got %q", c.Index.BaseURL)
	}
	if c.Index.TimeoutSeconds <= 0 || c.Index.TimeoutSeconds > maxIndexTimeoutSeconds {
		return fmt.Errorf("index.timeout_seconds must be between 1 and %d", maxIndexTimeoutSeconds)
	}
	if c.Index.CacheTTLSeconds < 0 {
		return errors.New("index.cache_ttl_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if c.Subtitles.MaxPerVideo < 0 {
		return errors.New("subtitles.max_per_video must be >= 0 (0 means unlimited)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
