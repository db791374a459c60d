package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/leapstack-labs/docsite/internal/source"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(source.Kinds, c.Source) {
		return fmt.Errorf("unknown source %q (available: %s)", c.Source, strings.Join(source.Kinds, ", "))
	}
	if c.ContentDir == "" && c.Source == source.KindFS {
		return fmt.Errorf("content_dir is required")
	}
	if c.CatalogPath == "" && c.Source == source.KindSQLite {
		return fmt.Errorf("catalog_path is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.CacheTTL < 0 {
		return fmt.Errorf("server.cache_ttl must not be negative, got %s", c.Server.CacheTTL)
	}
	return nil
}

// ValidateContentDir checks that the content directory exists.
func (c *Config) ValidateContentDir() error {
	info, err := os.Stat(c.ContentDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("content directory does not exist: %s\nHint: Create the directory or use --content-dir to specify a different path", c.ContentDir)
	}
	if err != nil {
		return fmt.Errorf("failed to read content directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("content path is not a directory: %s", c.ContentDir)
	}
	return nil
}
