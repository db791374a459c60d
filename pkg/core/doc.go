// Package core defines the shared language of the docsite system.
//
// This package contains:
//   - The document tree (Node, Branch, Leaf) and its metadata (Meta)
//   - Snapshots handed to the resolver and navigation builder
//   - Service interfaces (TreeProvider, Fetcher)
//   - Sentinel errors shared across providers and the server
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
