// Package catalog stores a document tree, its metadata and content in SQLite.
//
// The catalog is filled by Import from another source (usually the content
// directory) and then serves snapshots and documents without touching the
// original files.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/docsite/pkg/core"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

const (
	kindBranch = "branch"
	kindLeaf   = "leaf"
)

var errNotOpen = errors.New("catalog not opened")

// ErrEmpty is returned by Snapshot when nothing has been imported yet.
var ErrEmpty = errors.New("catalog is empty, run \"docsite index\" first")

// Store is a SQLite backed source.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// ImportStats summarises one import.
type ImportStats struct {
	Nodes      int
	Documents  int
	ImportedAt time.Time
}

// Open opens (and creates if needed) the catalog at path and migrates it.
// Use ":memory:" for an in-memory catalog.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	var dsn string
	if path == ":memory:" {
		dsn = ":memory:?_pragma=foreign_keys(1)"
	} else {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping catalog: %w", err)
	}

	s := NewWithDB(db, logger)
	s.path = path
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an already opened, migrated database.
func NewWithDB(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger}
}

// Path returns the path the catalog was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// row is one record of the nodes table.
type row struct {
	id       string
	parentID sql.NullString
	slug     string
	kind     string
	meta     core.Meta
}

// Snapshot loads the whole tree.
func (s *Store) Snapshot(ctx context.Context) (*core.Snapshot, error) {
	if s.db == nil {
		return nil, errNotOpen
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, slug, kind, name, pretty_name, sort_key, mime_type,
		       web_view_link, created_time, modified_time, last_modifying_user
		FROM nodes`)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		root     *row
		children = make(map[string][]*row)
		meta     = make(map[string]core.Meta)
	)
	for rows.Next() {
		r := &row{}
		var created, modified string
		if err := rows.Scan(
			&r.id, &r.parentID, &r.slug, &r.kind,
			&r.meta.Name, &r.meta.PrettyName, &r.meta.Sort, &r.meta.MimeType,
			&r.meta.WebViewLink, &created, &modified, &r.meta.LastModifyingUser.DisplayName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		r.meta.ID = r.id
		r.meta.Slug = r.slug
		r.meta.CreatedTime = parseTime(created)
		r.meta.ModifiedTime = parseTime(modified)
		meta[r.id] = r.meta

		if !r.parentID.Valid {
			root = r
			continue
		}
		children[r.parentID.String] = append(children[r.parentID.String], r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nodes: %w", err)
	}
	if root == nil {
		return nil, ErrEmpty
	}

	snap := core.NewSnapshot(root.id)
	snap.Meta = meta
	attach(snap.Root, children, true)

	s.logger.Debug("loaded catalog snapshot", "nodes", len(meta))
	return snap, nil
}

// attach builds the children of branch from the parent index.
func attach(branch *core.Branch, children map[string][]*row, isRoot bool) {
	crumb := core.ChildBreadcrumb(branch, isRoot)
	for _, r := range children[branch.ID] {
		if r.kind == kindBranch {
			child := core.NewBranch(r.id, crumb)
			branch.Add(r.slug, child)
			attach(child, children, false)
			continue
		}
		branch.Add(r.slug, core.NewLeaf(r.id, crumb))
	}
}

// Fetch returns the stored content of a leaf.
func (s *Store) Fetch(ctx context.Context, id string) (*core.Document, error) {
	if s.db == nil {
		return nil, errNotOpen
	}

	var content sql.NullString
	var createdBy string
	err := s.db.QueryRowContext(ctx,
		`SELECT content, created_by FROM nodes WHERE id = ? AND kind = ?`,
		id, kindLeaf,
	).Scan(&content, &createdBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, core.ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s: %w", id, err)
	}
	if !content.Valid {
		return nil, fmt.Errorf("%s has no content: %w", id, core.ErrDocumentNotFound)
	}

	return &core.Document{
		ID:   id,
		HTML: content.String,
		OriginalRevision: core.Revision{
			LastModifyingUser: core.User{DisplayName: createdBy},
		},
	}, nil
}

// Import replaces the catalog contents with the tree and documents of src.
// The replacement happens in one transaction; on error the previous
// contents are kept.
func (s *Store) Import(ctx context.Context, src core.Source) (ImportStats, error) {
	if s.db == nil {
		return ImportStats{}, errNotOpen
	}

	snap, err := src.Snapshot(ctx)
	if err != nil {
		return ImportStats{}, fmt.Errorf("failed to read source tree: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportStats{}, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return ImportStats{}, fmt.Errorf("failed to clear catalog: %w", err)
	}

	imp := &importer{ctx: ctx, tx: tx, snap: snap, src: src}
	if err := imp.insert(snap.Root.ID, sql.NullString{}, "", kindBranch, nil); err != nil {
		return ImportStats{}, err
	}
	if err := imp.branch(snap.Root); err != nil {
		return ImportStats{}, err
	}

	stats := ImportStats{
		Nodes:      imp.nodes,
		Documents:  imp.documents,
		ImportedAt: time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (imported_at, nodes, documents) VALUES (?, ?, ?)`,
		formatTime(stats.ImportedAt), stats.Nodes, stats.Documents,
	); err != nil {
		return ImportStats{}, fmt.Errorf("failed to record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, fmt.Errorf("failed to commit import: %w", err)
	}

	s.logger.Info("imported catalog", "nodes", stats.Nodes, "documents", stats.Documents)
	return stats, nil
}

// LastImport returns the most recent import, if any.
func (s *Store) LastImport(ctx context.Context) (ImportStats, bool, error) {
	if s.db == nil {
		return ImportStats{}, false, errNotOpen
	}

	var stats ImportStats
	var at string
	err := s.db.QueryRowContext(ctx,
		`SELECT imported_at, nodes, documents FROM imports ORDER BY id DESC LIMIT 1`,
	).Scan(&at, &stats.Nodes, &stats.Documents)
	if errors.Is(err, sql.ErrNoRows) {
		return ImportStats{}, false, nil
	}
	if err != nil {
		return ImportStats{}, false, fmt.Errorf("failed to read last import: %w", err)
	}
	stats.ImportedAt = parseTime(at)
	return stats, true, nil
}

type importer struct {
	ctx       context.Context
	tx        *sql.Tx
	snap      *core.Snapshot
	src       core.Fetcher
	nodes     int
	documents int
}

func (imp *importer) branch(b *core.Branch) error {
	parent := sql.NullString{String: b.ID, Valid: true}
	for slug, child := range b.Children {
		switch n := child.(type) {
		case *core.Branch:
			if err := imp.insert(n.ID, parent, slug, kindBranch, nil); err != nil {
				return err
			}
			if err := imp.branch(n); err != nil {
				return err
			}
		case *core.Leaf:
			doc, err := imp.document(n)
			if err != nil {
				return err
			}
			if err := imp.insert(n.ID, parent, slug, kindLeaf, doc); err != nil {
				return err
			}
		}
	}
	return nil
}

// document fetches the content of a leaf. Empty folders have none.
func (imp *importer) document(l *core.Leaf) (*core.Document, error) {
	meta, ok := imp.snap.Lookup(l.ID)
	if !ok {
		return nil, fmt.Errorf("leaf %s: %w", l.ID, core.ErrMetaNotFound)
	}
	if meta.IsFolder() {
		return nil, nil
	}
	doc, err := imp.src.Fetch(imp.ctx, l.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", l.ID, err)
	}
	return doc, nil
}

func (imp *importer) insert(id string, parent sql.NullString, slug, kind string, doc *core.Document) error {
	meta, ok := imp.snap.Lookup(id)
	if !ok {
		return fmt.Errorf("node %s: %w", id, core.ErrMetaNotFound)
	}

	var content sql.NullString
	var createdBy string
	if doc != nil {
		content = sql.NullString{String: doc.HTML, Valid: true}
		createdBy = doc.OriginalRevision.LastModifyingUser.DisplayName
		imp.documents++
	}

	_, err := imp.tx.ExecContext(imp.ctx, `
		INSERT INTO nodes (id, parent_id, slug, kind, name, pretty_name, sort_key, mime_type,
		                   web_view_link, created_time, modified_time, last_modifying_user,
		                   created_by, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, parent, slug, kind, meta.Name, meta.PrettyName, meta.Sort, meta.MimeType,
		meta.WebViewLink, formatTime(meta.CreatedTime), formatTime(meta.ModifiedTime),
		meta.LastModifyingUser.DisplayName, createdBy, content,
	)
	if err != nil {
		return fmt.Errorf("failed to insert node %s: %w", id, err)
	}
	imp.nodes++
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
