// Package config provides configuration management for the docsite CLI.
package config

import "time"

// ServerConfig holds configuration for the site server.
type ServerConfig struct {
	Port     int           `koanf:"port"`
	Watch    bool          `koanf:"watch"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
	Dev      bool          `koanf:"dev"`
}

// Config holds all CLI configuration options.
type Config struct {
	ContentDir  string       `koanf:"content_dir"`
	Source      string       `koanf:"source"`
	CatalogPath string       `koanf:"catalog_path"`
	LayoutsDir  string       `koanf:"layouts_dir"`
	Verbose     bool         `koanf:"verbose"`
	Server      ServerConfig `koanf:"server"`

	// ProjectRoot anchors relative paths from the config file and defaults.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultContentDir  = "content"
	DefaultSource      = "fs"
	DefaultCatalogPath = ".docsite/catalog.db"
	DefaultPort        = 8080
	DefaultCacheTTL    = 30 * time.Second
)

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "DOCSITE_"

// configNames are the config file names looked up in the project root.
var configNames = []string{"docsite.yaml", "docsite.yml"}
