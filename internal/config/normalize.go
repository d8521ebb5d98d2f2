package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeIndex()
	c.normalizeSubtitles()
	c.normalizeProbe()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeIndex() {
	if value, ok := os.LookupEnv(envIndexURL); ok && strings.TrimSpace(value) != "" {
		c.Index.BaseURL = value
	}
	c.Index.BaseURL = strings.TrimRight(strings.TrimSpace(c.Index.BaseURL), "/")
	if c.Index.BaseURL == "" {
		c.Index.BaseURL = defaultIndexBaseURL
	}
	c.Index.UserAgent = strings.TrimSpace(c.Index.UserAgent)
	if c.Index.UserAgent == "" {
		c.Index.UserAgent = defaultIndexUserAgent
	}
	if c.Index.TimeoutSeconds == 0 {
		c.Index.TimeoutSeconds = defaultIndexTimeout
	}
}

func (c *Config) normalizeSubtitles() {
	if len(c.Subtitles.Languages) == 0 {
		return
	}
	fold := cases.Fold()
	langs := make([]string, 0, len(c.Subtitles.Languages))
	seen := make(map[string]struct{}, len(c.Subtitles.Languages))
	for _, lang := range c.Subtitles.Languages {
		trimmed := strings.TrimSpace(lang)
		if trimmed == "" {
			continue
		}
		key := fold.String(trimmed)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		langs = append(langs, trimmed)
	}
	c.Subtitles.Languages = langs
}

func (c *Config) normalizeProbe() {
	c.Probe.FFprobeBinary = strings.TrimSpace(c.Probe.FFprobeBinary)
	if c.Probe.FFprobeBinary == "" {
		c.Probe.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv(envLogLevel); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
