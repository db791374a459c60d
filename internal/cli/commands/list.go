package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/docsite/pkg/core"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all documents and their URLs",
		Long: `List every document of the tree with the URL it is served at, its display
name, sort key and modification time. Empty folders are not listed.`,
		Example: `  docsite list
  docsite list --source sqlite`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}
}

// listRow is one document in the listing.
type listRow struct {
	URL      string
	Name     string
	Sort     string
	Modified string
}

func runList(cmd *cobra.Command) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	src, err := cc.OpenSource(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	snap, err := src.Snapshot(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rows := documentRows(snap)
	renderList(out, rows)

	if store, ok := src.Catalog(); ok {
		last, found, err := store.LastImport(ctx)
		if err != nil {
			return err
		}
		if found {
			_, _ = fmt.Fprintf(out, "Catalog imported %s (%d nodes, %d documents)\n",
				humanize.Time(last.ImportedAt), last.Nodes, last.Documents)
		}
	}
	return nil
}

// documentRows returns one row per document leaf, ordered by URL.
func documentRows(snap *core.Snapshot) []listRow {
	var rows []listRow
	core.Walk(snap.Root, func(p string, n core.Node) {
		if _, ok := n.(*core.Leaf); !ok {
			return
		}
		meta, ok := snap.Lookup(n.NodeID())
		if !ok || meta.IsFolder() {
			return
		}
		modified := ""
		if !meta.ModifiedTime.IsZero() {
			modified = meta.ModifiedTime.Format("2006-01-02 15:04")
		}
		rows = append(rows, listRow{
			URL:      canonicalURL(p),
			Name:     meta.PrettyName,
			Sort:     meta.Sort,
			Modified: modified,
		})
	})
	slices.SortFunc(rows, func(a, b listRow) int {
		return strings.Compare(a.URL, b.URL)
	})
	return rows
}

func renderList(w io.Writer, rows []listRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"URL", "Name", "Sort", "Modified"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.URL, r.Name, r.Sort, r.Modified})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d documents", len(rows)), "", ""})
	t.Render()
}
