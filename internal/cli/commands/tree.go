package commands

import (
	"fmt"

	"github.com/disiqueira/gotree/v3"
	"github.com/leapstack-labs/docsite/pkg/core"
	"github.com/spf13/cobra"
)

// NewTreeCommand creates the tree command.
func NewTreeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the document tree",
		Long: `Print the document tree with display names and slugs, children in
navigation order.`,
		Example: `  docsite tree
  docsite tree --source sqlite`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTree(cmd)
		},
	}
}

func runTree(cmd *cobra.Command) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	src, err := cc.OpenSource(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	snap, err := src.Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), renderTree(snap))
	return nil
}

// renderTree draws the snapshot, one line per node.
func renderTree(snap *core.Snapshot) string {
	rootLabel := "/"
	if meta, ok := snap.Lookup(snap.Root.ID); ok && meta.PrettyName != "" {
		rootLabel = meta.PrettyName + " /"
	}
	tree := gotree.New(rootLabel)
	addChildren(tree, snap.Root, snap)
	return tree.Print()
}

func addChildren(parent gotree.Tree, b *core.Branch, snap *core.Snapshot) {
	for _, e := range sortedChildren(b, snap) {
		node := parent.Add(treeLabel(e))
		if sub, ok := e.node.(*core.Branch); ok {
			addChildren(node, sub, snap)
		}
	}
}

func treeLabel(e entry) string {
	name := e.meta.PrettyName
	if name == "" {
		name = e.slug
	}
	label := fmt.Sprintf("%s [%s]", name, e.slug)
	if _, ok := e.node.(*core.Leaf); ok && e.meta.IsFolder() {
		label += " (empty)"
	}
	return label
}
