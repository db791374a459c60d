package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/docsite/internal/source/catalog"
	"github.com/leapstack-labs/docsite/internal/source/filesystem"
)

// Source kinds.
const (
	KindFS     = "fs"
	KindSQLite = "sqlite"
)

// Kinds lists the supported source kinds.
var Kinds = []string{KindFS, KindSQLite}

// Config selects and configures a source.
type Config struct {
	Kind        string
	ContentDir  string
	CatalogPath string
	CacheTTL    time.Duration
	Logger      *slog.Logger
}

// Opened is a cached source ready to serve requests.
type Opened struct {
	*Cache

	kind  string
	fs    *filesystem.Provider
	store *catalog.Store
}

// Open opens the source described by cfg.
func Open(ctx context.Context, cfg Config) (*Opened, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch cfg.Kind {
	case KindFS, "":
		p := filesystem.New(cfg.ContentDir, logger)
		return &Opened{
			Cache: NewCache(p, cfg.CacheTTL, logger),
			kind:  KindFS,
			fs:    p,
		}, nil

	case KindSQLite:
		store, err := catalog.Open(ctx, cfg.CatalogPath, logger)
		if err != nil {
			return nil, err
		}
		return &Opened{
			Cache: NewCache(store, cfg.CacheTTL, logger),
			kind:  KindSQLite,
			store: store,
		}, nil

	default:
		return nil, fmt.Errorf("unknown source %q (expected one of %v)", cfg.Kind, Kinds)
	}
}

// Kind returns the kind of the opened source.
func (o *Opened) Kind() string {
	return o.kind
}

// Catalog returns the SQLite catalog behind a sqlite source.
func (o *Opened) Catalog() (*catalog.Store, bool) {
	return o.store, o.store != nil
}

// Watchable reports whether Watch can observe changes.
func (o *Opened) Watchable() bool {
	return o.fs != nil
}

// Watch invalidates the cache whenever the content directory changes and
// then calls onChange. For sources that cannot be watched it waits for ctx.
func (o *Opened) Watch(ctx context.Context, onChange func()) error {
	if o.fs == nil {
		<-ctx.Done()
		return nil
	}
	return o.fs.Watch(ctx, func(string) {
		o.Invalidate()
		if onChange != nil {
			onChange()
		}
	})
}

// Close releases the underlying source.
func (o *Opened) Close() error {
	if o.store != nil {
		return o.store.Close()
	}
	return nil
}
