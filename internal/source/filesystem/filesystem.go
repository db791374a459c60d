// Package filesystem serves a document tree from a content directory.
//
// Directories become branches and *.html files become leaves. Metadata comes
// from optional YAML sidecars: <slug>.yaml next to a document and
// _folder.yaml inside a directory. Entries starting with "." or "_" are
// ignored. Directories without any content are mirrored as leaves carrying
// the folder mime type, so they render as empty folders.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/leapstack-labs/docsite/pkg/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DocumentExt is the extension of document files.
	DocumentExt = ".html"
	// DocumentMimeType is reported for every document leaf.
	DocumentMimeType = "text/html"
	// FolderFile holds the metadata of the directory it lives in.
	FolderFile = "_folder.yaml"
)

// idNamespace scopes the UUIDv5 ids derived from relative paths.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/leapstack-labs/docsite"))

// NodeID returns the id of the entry at rel, a slash separated path relative
// to the content root ("" for the root).
func NodeID(rel string) string {
	return uuid.NewSHA1(idNamespace, []byte(rel)).String()
}

// Provider reads the tree from a directory on every Snapshot call.
type Provider struct {
	root   string
	logger *slog.Logger

	// files maps leaf ids to their document file, refreshed on each scan.
	mu    sync.RWMutex
	files map[string]document
}

type document struct {
	path      string
	createdBy string
}

// New creates a provider rooted at dir.
func New(dir string, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Provider{
		root:   dir,
		logger: logger,
		files:  make(map[string]document),
	}
}

// Root returns the content directory.
func (p *Provider) Root() string {
	return p.root
}

// Snapshot scans the content directory.
func (p *Provider) Snapshot(ctx context.Context) (*core.Snapshot, error) {
	info, err := os.Stat(p.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content path is not a directory: %s", p.root)
	}

	s := &scan{
		ctx:   ctx,
		root:  p.root,
		snap:  core.NewSnapshot(NodeID("")),
		files: make(map[string]document),
	}

	rootMeta, err := s.folderMeta("", info)
	if err != nil {
		return nil, err
	}
	s.snap.Meta[s.snap.Root.ID] = rootMeta

	if err := s.dir("", s.snap.Root, true); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.files = s.files
	p.mu.Unlock()

	p.logger.Debug("scanned content directory", "dir", p.root, "nodes", len(s.snap.Meta))
	return s.snap, nil
}

// Fetch reads the document file of a leaf.
func (p *Provider) Fetch(ctx context.Context, id string) (*core.Document, error) {
	doc, ok := p.lookup(id)
	if !ok {
		// The id may come from a snapshot taken by another provider instance.
		if _, err := p.Snapshot(ctx); err != nil {
			return nil, err
		}
		if doc, ok = p.lookup(id); !ok {
			return nil, fmt.Errorf("%s: %w", id, core.ErrDocumentNotFound)
		}
	}

	raw, err := os.ReadFile(doc.path) //nolint:gosec // G304: path comes from our own scan
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", id, core.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("failed to read document %s: %w", id, err)
	}

	return &core.Document{
		ID:   id,
		HTML: string(raw),
		OriginalRevision: core.Revision{
			LastModifyingUser: core.User{DisplayName: doc.createdBy},
		},
	}, nil
}

func (p *Provider) lookup(id string) (document, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	doc, ok := p.files[id]
	return doc, ok
}

// scan holds the state of one directory walk.
type scan struct {
	ctx   context.Context
	root  string
	snap  *core.Snapshot
	files map[string]document
}

func (s *scan) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// dir adds the contents of the directory at rel to branch.
func (s *scan) dir(rel string, branch *core.Branch, isRoot bool) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(s.abs(rel))
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", rel, err)
	}

	crumb := core.ChildBreadcrumb(branch, isRoot)
	for _, entry := range entries {
		name := entry.Name()
		if skipEntry(name) {
			continue
		}
		childRel := path.Join(rel, name)
		if _, exists := branch.Child(strings.TrimSuffix(name, filepath.Ext(name))); exists && !entry.IsDir() {
			// A directory and a document share a slug; the directory wins.
			continue
		}

		switch {
		case entry.IsDir():
			if err := s.subdir(childRel, name, branch, crumb); err != nil {
				return err
			}
		case strings.EqualFold(filepath.Ext(name), DocumentExt):
			if err := s.leaf(childRel, name, branch, crumb); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *scan) subdir(rel, slug string, parent *core.Branch, crumb []string) error {
	info, err := os.Stat(s.abs(rel))
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	meta, err := s.folderMeta(rel, info)
	if err != nil {
		return err
	}
	s.snap.Meta[meta.ID] = meta

	hasContent, err := s.hasContent(rel)
	if err != nil {
		return err
	}
	if !hasContent {
		parent.Add(slug, core.NewLeaf(meta.ID, crumb))
		return nil
	}

	branch := core.NewBranch(meta.ID, crumb)
	parent.Add(slug, branch)
	return s.dir(rel, branch, false)
}

func (s *scan) leaf(rel, name string, parent *core.Branch, crumb []string) error {
	slug := strings.TrimSuffix(name, filepath.Ext(name))
	if slug == "" {
		return nil
	}
	info, err := os.Stat(s.abs(rel))
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", rel, err)
	}

	sidecarRel := path.Join(path.Dir(rel), slug+".yaml")
	sc, err := readSidecar(s.abs(sidecarRel))
	if err != nil {
		return err
	}

	id := NodeID(rel)
	meta := sc.apply(core.Meta{
		ID:           id,
		Name:         slug,
		PrettyName:   prettify(slug),
		Slug:         slug,
		Sort:         slug,
		MimeType:     DocumentMimeType,
		CreatedTime:  info.ModTime(),
		ModifiedTime: info.ModTime(),
	})
	s.snap.Meta[id] = meta

	createdBy := sc.CreatedBy
	if createdBy == "" {
		createdBy = meta.LastModifyingUser.DisplayName
	}
	s.files[id] = document{path: s.abs(rel), createdBy: createdBy}

	parent.Add(slug, core.NewLeaf(id, crumb))
	return nil
}

func (s *scan) folderMeta(rel string, info fs.FileInfo) (core.Meta, error) {
	sc, err := readSidecar(filepath.Join(s.abs(rel), FolderFile))
	if err != nil {
		return core.Meta{}, err
	}
	slug := path.Base(rel)
	if rel == "" {
		slug = ""
	}
	return sc.apply(core.Meta{
		ID:           NodeID(rel),
		Name:         slug,
		PrettyName:   prettify(slug),
		Slug:         slug,
		Sort:         slug,
		MimeType:     core.FolderMimeType,
		CreatedTime:  info.ModTime(),
		ModifiedTime: info.ModTime(),
	}), nil
}

// hasContent reports whether the directory holds a document or a directory.
func (s *scan) hasContent(rel string) (bool, error) {
	entries, err := os.ReadDir(s.abs(rel))
	if err != nil {
		return false, fmt.Errorf("failed to read directory %s: %w", rel, err)
	}
	for _, entry := range entries {
		if skipEntry(entry.Name()) {
			continue
		}
		if entry.IsDir() || strings.EqualFold(filepath.Ext(entry.Name()), DocumentExt) {
			return true, nil
		}
	}
	return false, nil
}

func skipEntry(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// prettify derives a display name from a slug.
// e.g., "getting-started" -> "Getting Started"
func prettify(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	// Casers are stateful, so each call gets its own.
	return cases.Title(language.English).String(strings.Join(words, " "))
}
