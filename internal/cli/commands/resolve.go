package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/docsite/internal/nav"
	"github.com/leapstack-labs/docsite/internal/resolver"
	"github.com/leapstack-labs/docsite/pkg/core"
	"github.com/spf13/cobra"
)

var (
	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#1F5FAD", Dark: "#8BE9FD"})
	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"})
)

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Show what a URL path resolves to",
		Long: `Resolve a URL path against the document tree without starting the server
and print the resulting node together with its navigation: parent links and
siblings in display order.`,
		Example: `  docsite resolve /guides/setup
  docsite resolve /guides/index`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args[0])
		},
	}
}

func runResolve(cmd *cobra.Command, urlPath string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}

	out := cmd.OutOrStdout()
	if target, ok := resolver.IndexRedirect(urlPath); ok {
		printField(out, "redirect", fmt.Sprintf("%s -> %s (301)", urlPath, target))
		return nil
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

	return describe(out, snap, urlPath)
}

// describe prints the resolution of urlPath in snap.
func describe(out io.Writer, snap *core.Snapshot, urlPath string) error {
	res, ok := resolver.Resolve(urlPath, snap.Root)
	if !ok {
		_, _ = fmt.Fprintln(out, warnStyle.Render("not found: "+urlPath))
		return fmt.Errorf("%s: not found", urlPath)
	}

	meta, ok := snap.Lookup(res.Node.NodeID())
	if !ok {
		return fmt.Errorf("%s: %w", res.Node.NodeID(), core.ErrMetaNotFound)
	}

	kind := "document"
	switch {
	case isBranch(res.Node):
		kind = "folder"
	case meta.IsFolder():
		kind = "empty folder"
	}

	printField(out, "path", urlPath)
	printField(out, "id", meta.ID)
	printField(out, "kind", kind)
	printField(out, "name", meta.PrettyName)
	printField(out, "slug", meta.Slug)
	if res.Parent != nil {
		printField(out, "parent", res.Parent.ID)
	}
	crumbs := make([]string, 0, len(res.Node.Ancestors()))
	for _, id := range res.Node.Ancestors() {
		m, ok := snap.Lookup(id)
		if !ok {
			return fmt.Errorf("ancestor %s: %w", id, core.ErrMetaNotFound)
		}
		crumbs = append(crumbs, m.Name)
	}
	printField(out, "breadcrumb", strings.Join(crumbs, " / "))

	navigation, err := nav.NewBuilder(snap).Build(urlPath, res.Node.Ancestors(), res.Parent, meta.Slug)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, labelStyle.Render("parent links:"))
	for _, l := range navigation.ParentLinks {
		_, _ = fmt.Fprintf(out, "  %s  %s\n", l.URL, l.Name)
	}
	_, _ = fmt.Fprintln(out, labelStyle.Render("siblings:"))
	for _, s := range navigation.Siblings {
		_, _ = fmt.Fprintf(out, "  %s  %s  (sort %s)\n", s.URL, s.Name, s.Sort)
	}
	return nil
}

func printField(out io.Writer, label, value string) {
	_, _ = fmt.Fprintf(out, "%s %s\n", labelStyle.Render(label+":"), value)
}

func isBranch(n core.Node) bool {
	_, ok := n.(*core.Branch)
	return ok
}
