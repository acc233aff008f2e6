package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMatching()
	c.normalizeRelocation()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("ADDONS_ROOT"); ok && strings.TrimSpace(c.Paths.AddonsRoot) == defaultAddonsRoot {
		c.Paths.AddonsRoot = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("FEED_ROOT"); ok && strings.TrimSpace(c.Paths.FeedRoot) == defaultFeedRoot {
		c.Paths.FeedRoot = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("DEST_ROOT"); ok && strings.TrimSpace(c.Paths.DestRoot) == defaultDestRoot {
		c.Paths.DestRoot = strings.TrimSpace(value)
	}
	if c.Paths.AddonsRoot, err = expandPath(c.Paths.AddonsRoot); err != nil {
		return fmt.Errorf("paths.addons_root: %w", err)
	}
	if c.Paths.FeedRoot, err = expandPath(c.Paths.FeedRoot); err != nil {
		return fmt.Errorf("paths.feed_root: %w", err)
	}
	if c.Paths.DestRoot, err = expandPath(c.Paths.DestRoot); err != nil {
		return fmt.Errorf("paths.dest_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMatching() {
	c.Matching.AcceptedTag = strings.TrimSpace(c.Matching.AcceptedTag)
	if c.Matching.AcceptedTag == defaultAcceptedTag {
		if value, ok := os.LookupEnv("ACCEPTED_TAG"); ok && strings.TrimSpace(value) != "" {
			c.Matching.AcceptedTag = strings.TrimSpace(value)
		}
	}
	if c.Matching.AcceptedTag == "" {
		c.Matching.AcceptedTag = defaultAcceptedTag
	}
}

func (c *Config) normalizeRelocation() {
	if c.Relocation.SpaceMarginBytes == defaultSpaceMarginBytes {
		if value, ok := os.LookupEnv("SPACE_MARGIN_BYTES"); ok {
			if parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
				c.Relocation.SpaceMarginBytes = parsed
			}
		}
	}
	if c.Relocation.SpaceMarginBytes < 0 {
		c.Relocation.SpaceMarginBytes = defaultSpaceMarginBytes
	}
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
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
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
