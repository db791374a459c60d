package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/leapstack-labs/docsite/internal/source/catalog"
	"github.com/leapstack-labs/docsite/internal/source/filesystem"
	"github.com/spf13/cobra"
)

// NewIndexCommand creates the index command.
func NewIndexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Import the content directory into the SQLite catalog",
		Long: `Scan the content directory and store the tree, its metadata and every
document in the SQLite catalog. Previous catalog contents are replaced.

Serve the catalog with --source sqlite.`,
		Example: `  # Build .docsite/catalog.db from ./content
  docsite index

  # Build a catalog somewhere else
  docsite index --catalog-path /srv/docsite/catalog.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd)
		},
	}
}

func runIndex(cmd *cobra.Command) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if err := cc.Cfg.ValidateContentDir(); err != nil {
		return err
	}
	if err := ensureDir(cc.Cfg.CatalogPath); err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := catalog.Open(ctx, cc.Cfg.CatalogPath, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	stats, err := store.Import(ctx, filesystem.New(cc.Cfg.ContentDir, cc.Logger))
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Indexed %s nodes (%s documents) into %s\n",
		humanize.Comma(int64(stats.Nodes)), humanize.Comma(int64(stats.Documents)), store.Path())
	return nil
}
