package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// flagKeys maps flags whose config key is not the snake_case flag name.
var flagKeys = map[string]string{
	"port":      "server.port",
	"watch":     "server.watch",
	"cache-ttl": "server.cache_ttl",
	"dev":       "server.dev",
}

// pathFlags are flags holding paths, resolved against the working directory.
var pathFlags = []string{"content-dir", "catalog-path", "layouts-dir"}

// configIn returns the config file in dir, or "".
func configIn(dir string) string {
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findProjectRootUpward searches upward from startDir for a docsite config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for range maxUpwardSearchLevels {
		if configIn(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) || path == ":memory:" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// envKey turns DOCSITE_SERVER_CACHE_TTL into server.cache_ttl.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "server_"); ok {
		return "server." + rest
	}
	return key
}

// flagKey returns the config key for a flag, or "" for flags outside the config.
func flagKey(name string) string {
	if name == "config" || name == "help" {
		return ""
	}
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}

// Load loads configuration from defaults, the config file, environment
// variables and flags. Precedence (highest to lowest): flags > env vars >
// config file > defaults.
//
// cfgFile names the config file explicitly; when empty, docsite.yaml or
// docsite.yml is searched upward from the working directory. Relative paths
// from flags resolve against the working directory, all others against the
// project root (the config file's directory, or the working directory).
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	projectRoot := cwd
	if cfgFile != "" {
		abs, err := filepath.Abs(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		cfgFile = abs
		projectRoot = filepath.Dir(abs)
	} else if root := findProjectRootUpward(cwd); root != "" {
		projectRoot = root
		cfgFile = configIn(root)
	}

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"content_dir":      DefaultContentDir,
		"source":           DefaultSource,
		"catalog_path":     DefaultCatalogPath,
		"layouts_dir":      "",
		"verbose":          false,
		"server.port":      DefaultPort,
		"server.watch":     true,
		"server.cache_ttl": DefaultCacheTTL.String(),
		"server.dev":       false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	flagPaths := make(map[string]string)
	if flags != nil {
		for _, name := range pathFlags {
			if !flags.Changed(name) {
				continue
			}
			if v, _ := flags.GetString(name); v != "" && v != ":memory:" {
				if abs, err := filepath.Abs(v); err == nil {
					flagPaths[name] = abs
				}
			}
		}

		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key := flagKey(f.Name)
			if key == "" {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve paths
	cfg.ProjectRoot = projectRoot
	cfg.ConfigFile = cfgFile
	cfg.ContentDir = resolveWith(flagPaths["content-dir"], cfg.ContentDir, projectRoot)
	cfg.CatalogPath = resolveWith(flagPaths["catalog-path"], cfg.CatalogPath, projectRoot)
	cfg.LayoutsDir = resolveWith(flagPaths["layouts-dir"], cfg.LayoutsDir, projectRoot)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func resolveWith(fromFlag, value, root string) string {
	if fromFlag != "" {
		return fromFlag
	}
	return resolvePathRelativeTo(value, root)
}
