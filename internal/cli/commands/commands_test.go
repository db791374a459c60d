package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/docsite/internal/cli/config"
	"github.com/leapstack-labs/docsite/internal/testutil"
	"github.com/leapstack-labs/docsite/pkg/core"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupContent creates /about, /guides/{index,setup} and an empty /archive.
func setupContent(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"about.html":          "<h1>About</h1>",
		"about.yaml":          "pretty_name: About Us\nsort: \"2\"\n",
		"guides/_folder.yaml": "name: 01 - Guides\npretty_name: Guides\nsort: \"1\"\n",
		"guides/index.html":   "<h1>Guides</h1>",
		"guides/setup.html":   "<h1>Setup</h1>",
	}
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "archive"), 0o750))
	return dir
}

func testConfig(t *testing.T, contentDir string) *config.Config {
	t.Helper()
	return &config.Config{
		ContentDir:  contentDir,
		Source:      "fs",
		CatalogPath: filepath.Join(t.TempDir(), "data", "catalog.db"),
		Server:      config.ServerConfig{Port: 8080},
	}
}

// execute runs cmd with cfg and a test logger in its context.
func execute(t *testing.T, ctx context.Context, cmd *cobra.Command, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{}, args...))

	ctx = config.WithLogger(config.WithConfig(ctx, cfg), testutil.NewTestLogger(t))
	err := cmd.ExecuteContext(ctx)
	return buf.String(), err
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{cmd: NewServeCommand(), use: "serve", flags: []string{"port", "watch", "cache-ttl", "dev"}},
		{cmd: NewIndexCommand(), use: "index"},
		{cmd: NewTreeCommand(), use: "tree"},
		{cmd: NewListCommand(), use: "list"},
		{cmd: NewResolveCommand(), use: "resolve <path>"},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestNewCommandContext_RequiresConfig(t *testing.T) {
	cmd := NewTreeCommand()
	cmd.SetArgs([]string{})
	err := cmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "configuration not loaded")
}

func TestTreeCommand(t *testing.T) {
	cfg := testConfig(t, setupContent(t))

	out, err := execute(t, context.Background(), NewTreeCommand(), cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "Guides [guides]")
	assert.Contains(t, out, "Index [index]")
	assert.Contains(t, out, "Setup [setup]")
	assert.Contains(t, out, "About Us [about]")
	assert.Contains(t, out, "Archive [archive] (empty)")

	// Children follow navigation order: numeric sort keys first.
	assert.Less(t, bytes.Index([]byte(out), []byte("Guides [guides]")), bytes.Index([]byte(out), []byte("About Us [about]")))
	assert.Less(t, bytes.Index([]byte(out), []byte("About Us [about]")), bytes.Index([]byte(out), []byte("Archive [archive]")))
}

func TestTreeCommand_MissingContentDir(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "nope"))

	_, err := execute(t, context.Background(), NewTreeCommand(), cfg)
	assert.ErrorContains(t, err, "content directory does not exist")
}

func TestListCommand(t *testing.T) {
	cfg := testConfig(t, setupContent(t))

	out, err := execute(t, context.Background(), NewListCommand(), cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "/about")
	assert.Contains(t, out, "About Us")
	assert.Contains(t, out, "/guides/setup")
	assert.Contains(t, out, "3 DOCUMENTS")
	assert.NotContains(t, out, "/guides/index")
	assert.NotContains(t, out, "/archive")
	assert.NotContains(t, out, "Catalog imported")
}

func TestIndexCommand_ThenServeFromCatalog(t *testing.T) {
	cfg := testConfig(t, setupContent(t))

	out, err := execute(t, context.Background(), NewIndexCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 6 nodes (3 documents)")
	assert.FileExists(t, cfg.CatalogPath)

	cfg.Source = "sqlite"
	out, err = execute(t, context.Background(), NewListCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "/guides/setup")
	assert.Contains(t, out, "Catalog imported")
	assert.Contains(t, out, "6 nodes, 3 documents")
}

func TestListCommand_MissingCatalog(t *testing.T) {
	cfg := testConfig(t, setupContent(t))
	cfg.Source = "sqlite"

	_, err := execute(t, context.Background(), NewListCommand(), cfg)
	assert.ErrorContains(t, err, "docsite index")
}

func TestResolveCommand(t *testing.T) {
	cfg := testConfig(t, setupContent(t))

	tests := []struct {
		name    string
		path    string
		wantOut []string
		wantErr string
	}{
		{
			name:    "document",
			path:    "/guides/setup",
			wantOut: []string{"document", "Setup", "parent links:", "/guides  Guides", "breadcrumb:", "01 - Guides"},
		},
		{
			name:    "index alias",
			path:    "guides",
			wantOut: []string{"/guides", "Index", "/guides/setup  Setup"},
		},
		{
			name:    "redirect",
			path:    "/guides/index",
			wantOut: []string{"redirect:", "/guides/index -> /guides (301)"},
		},
		{
			name:    "sibling order",
			path:    "/about",
			wantOut: []string{"/guides  Guides  (sort 1)", "/archive  Archive  (sort archive)"},
		},
		{
			name:    "empty folder",
			path:    "/archive",
			wantOut: []string{"empty folder"},
		},
		{
			name:    "folder",
			path:    "/",
			wantOut: []string{"folder"},
		},
		{
			name:    "not found",
			path:    "/guides/nope",
			wantOut: []string{"not found: /guides/nope"},
			wantErr: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, context.Background(), NewResolveCommand(), cfg, tt.path)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestDescribe_MissingAncestorMeta(t *testing.T) {
	snap := core.NewSnapshot("root")
	guides := core.NewBranch("guides", []string{})
	snap.Root.Add("guides", guides)
	guides.Add("setup", core.NewLeaf("setup", []string{"guides"}))
	snap.Meta["root"] = core.Meta{ID: "root", MimeType: core.FolderMimeType}
	snap.Meta["setup"] = core.Meta{ID: "setup", Name: "Setup", PrettyName: "Setup", Slug: "setup"}

	out := new(bytes.Buffer)
	err := describe(out, snap, "/guides/setup")
	require.ErrorIs(t, err, core.ErrMetaNotFound)
	assert.Contains(t, err.Error(), "guides")
	assert.NotContains(t, out.String(), "breadcrumb:")
}

func TestServeCommand_StopsWithContext(t *testing.T) {
	cfg := testConfig(t, setupContent(t))
	cfg.Server.Port = 0
	cfg.Server.Watch = true

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	out, err := execute(t, ctx, NewServeCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Serving fs source")
}
