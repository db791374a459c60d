package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/docsite/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document tree as a website",
		Long: `Start a web server rendering every document of the tree.

URLs follow the tree: /guides/setup renders the "setup" document inside the
"guides" folder, and a folder URL renders the folder's "index" document.
Append ?format=md to any page to get it as Markdown.`,
		Example: `  # Serve ./content on the default port
  docsite serve

  # Serve the SQLite catalog on port 3000
  docsite serve --source sqlite --port 3000

  # Development mode: reload the browser when content changes
  docsite serve --dev`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().Int("port", 0, "Port to serve on (default: 8080)")
	cmd.Flags().Bool("watch", true, "Watch the content directory for changes")
	cmd.Flags().Duration("cache-ttl", 0, "How long a tree snapshot is reused (default: 30s)")
	cmd.Flags().Bool("dev", false, "Enable live reload")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := cc.OpenSource(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	serverCfg := server.Config{
		Source:     src,
		Port:       cc.Cfg.Server.Port,
		LayoutsDir: cc.Cfg.LayoutsDir,
		Dev:        cc.Cfg.Server.Dev,
		Logger:     cc.Logger,
	}
	if cc.Cfg.Server.Watch && src.Watchable() {
		serverCfg.Watch = func(ctx context.Context, onChange func()) error {
			return src.Watch(ctx, onChange)
		}
	}

	srv, err := server.New(serverCfg)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving %s source on http://localhost:%d\n", src.Kind(), cc.Cfg.Server.Port)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	return srv.Serve(ctx)
}
