package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateRelocation(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.AddonsRoot) == "" {
		return errors.New("paths.addons_root must be set")
	}
	if strings.TrimSpace(c.Paths.FeedRoot) == "" {
		return errors.New("paths.feed_root must be set")
	}
	if strings.TrimSpace(c.Paths.DestRoot) == "" {
		return errors.New("paths.dest_root must be set")
	}
	if c.Paths.DestRoot == c.Paths.AddonsRoot {
		return errors.New("paths.dest_root must differ from paths.addons_root")
	}
	// A destination nested under the addons root would be rescanned as a
	// source on the next run, breaking relocation idempotence.
	if isSubpath(c.Paths.AddonsRoot, c.Paths.DestRoot) {
		return fmt.Errorf("paths.dest_root %q must not be inside paths.addons_root %q", c.Paths.DestRoot, c.Paths.AddonsRoot)
	}
	return nil
}

func (c *Config) validateMatching() error {
	if strings.TrimSpace(c.Matching.AcceptedTag) == "" {
		return errors.New("matching.accepted_tag must be set")
	}
	return nil
}

func (c *Config) validateRelocation() error {
	if c.Relocation.SpaceMarginBytes < 0 {
		return errors.New("relocation.space_margin_bytes must be >= 0")
	}
	return nil
}

func isSubpath(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
