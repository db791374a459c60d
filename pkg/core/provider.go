package core

import (
	"context"
	"errors"
)

// Sentinel errors shared by providers and the server.
var (
	// ErrMetaNotFound is returned when an id in a snapshot has no metadata.
	ErrMetaNotFound = errors.New("metadata not found")
	// ErrDocumentNotFound is returned when a fetcher has no content for an id.
	ErrDocumentNotFound = errors.New("document not found")
)

// TreeProvider supplies snapshots of the document tree.
type TreeProvider interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Fetcher retrieves document content by id.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (*Document, error)
}

// Source is a provider that can both list and fetch documents.
type Source interface {
	TreeProvider
	Fetcher
}

// Section is a heading inside a document.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

// Revision describes one revision of a document.
type Revision struct {
	LastModifyingUser User
}

// Document is the fetched content of a leaf.
// HTML is returned as stored; callers extract sections from it.
type Document struct {
	ID               string
	HTML             string
	OriginalRevision Revision
}
