// Package commands implements the docsite subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/docsite/internal/cli/config"
	"github.com/leapstack-labs/docsite/internal/nav"
	"github.com/leapstack-labs/docsite/internal/resolver"
	"github.com/leapstack-labs/docsite/internal/source"
	"github.com/leapstack-labs/docsite/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext reads the config and logger stored by the root command.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, ok := config.GetConfig(cmd.Context())
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	return &CommandContext{
		Cfg:    cfg,
		Logger: config.GetLogger(cmd.Context()),
	}, nil
}

// OpenSource opens the configured source. The caller must close it.
func (c *CommandContext) OpenSource(ctx context.Context) (*source.Opened, error) {
	switch c.Cfg.Source {
	case source.KindFS:
		if err := c.Cfg.ValidateContentDir(); err != nil {
			return nil, err
		}
	case source.KindSQLite:
		if _, err := os.Stat(c.Cfg.CatalogPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog does not exist: %s\nHint: run \"docsite index\" first", c.Cfg.CatalogPath)
		}
	}

	return source.Open(ctx, source.Config{
		Kind:        c.Cfg.Source,
		ContentDir:  c.Cfg.ContentDir,
		CatalogPath: c.Cfg.CatalogPath,
		CacheTTL:    c.Cfg.Server.CacheTTL,
		Logger:      c.Logger,
	})
}

// ensureDir creates the parent directory of path.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// entry is a child of a branch, ordered for display.
type entry struct {
	slug string
	node core.Node
	meta core.Meta
}

// sortedChildren returns the children of b ordered by sort key, then slug.
func sortedChildren(b *core.Branch, meta nav.MetaLookup) []entry {
	entries := make([]entry, 0, len(b.Children))
	for slug, n := range b.Children {
		m, _ := meta.Lookup(n.NodeID())
		entries = append(entries, entry{slug: slug, node: n, meta: m})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := nav.CompareSort(a.meta.Sort, b.meta.Sort); c != 0 {
			return c
		}
		return strings.Compare(a.slug, b.slug)
	})
	return entries
}

// canonicalURL returns the URL a tree path is served at.
func canonicalURL(p string) string {
	if target, ok := resolver.IndexRedirect(p); ok {
		return target
	}
	return p
}
