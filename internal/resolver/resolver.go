// Package resolver maps URL paths onto nodes of a document tree.
package resolver

import (
	"strings"

	"github.com/leapstack-labs/docsite/pkg/core"
)

// IndexSlug is the child key a folder uses for its landing page.
const IndexSlug = "index"

// Resolution is the node a path resolved to and the branch that contains it.
// Parent is nil only when Node is the root itself.
type Resolution struct {
	Node   core.Node
	Parent *core.Branch
}

// Segments splits a URL path into its non-empty segments.
func Segments(urlPath string) []string {
	parts := strings.Split(urlPath, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// Resolve walks root by the segments of urlPath.
//
// A folder path whose branch has an "index" child resolves to that child.
// Only one level of index aliasing is applied: an index child that is itself
// a branch is returned as a branch.
//
// The second return value is false when a segment has no matching child or
// segments remain after reaching a leaf.
func Resolve(urlPath string, root core.Node) (Resolution, bool) {
	if root == nil {
		return Resolution{}, false
	}

	segments := Segments(urlPath)

	pointer := root
	var parent *core.Branch
	for len(segments) > 0 {
		branch, ok := pointer.(*core.Branch)
		if !ok {
			break
		}
		parent = branch
		child, found := branch.Child(segments[0])
		segments = segments[1:]
		if !found {
			return Resolution{}, false
		}
		pointer = child
	}

	if len(segments) > 0 {
		return Resolution{}, false
	}

	if branch, ok := pointer.(*core.Branch); ok {
		if index, found := branch.Child(IndexSlug); found {
			parent = branch
			pointer = index
		}
	}

	return Resolution{Node: pointer, Parent: parent}, true
}

// IndexRedirect reports whether urlPath addresses an index page explicitly.
// When it does, the returned path is urlPath without its final segment.
// Index pages are only reachable through their folder path.
func IndexRedirect(urlPath string) (string, bool) {
	segments := Segments(urlPath)
	if len(segments) == 0 || segments[len(segments)-1] != IndexSlug {
		return "", false
	}
	return "/" + strings.Join(segments[:len(segments)-1], "/"), true
}
