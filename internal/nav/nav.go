// Package nav derives breadcrumb and sibling navigation from a node's
// position in the document tree.
package nav

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/leapstack-labs/docsite/internal/resolver"
	"github.com/leapstack-labs/docsite/pkg/core"
)

// MetaLookup returns the metadata for a node id.
// *core.Snapshot implements it.
type MetaLookup interface {
	Lookup(id string) (core.Meta, bool)
}

// Link points at an ancestor of the current page.
type Link struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	EditLink string `json:"editLink"`
}

// Sibling points at another child of the current page's parent.
type Sibling struct {
	Sort     string `json:"sort"`
	Name     string `json:"name"`
	EditLink string `json:"editLink"`
	URL      string `json:"url"`
}

// Context is the navigation data for one rendered page.
type Context struct {
	ParentLinks []Link    `json:"parentLinks"`
	Siblings    []Sibling `json:"siblings"`
}

// Builder builds navigation contexts against one metadata lookup.
type Builder struct {
	Meta      MetaLookup
	CleanName func(string) string
}

// NewBuilder creates a Builder using CleanName for ancestor names.
func NewBuilder(meta MetaLookup) *Builder {
	return &Builder{Meta: meta, CleanName: CleanName}
}

// Build returns the parent links and siblings for the page at url.
//
// breadcrumb holds the ancestor ids of the resolved node, parent is the
// branch containing it and slug is the node's own slug. A nil parent
// yields an empty context.
func (b *Builder) Build(url string, breadcrumb []string, parent *core.Branch, slug string) (Context, error) {
	nav := Context{
		ParentLinks: []Link{},
		Siblings:    []Sibling{},
	}
	if parent == nil {
		return nav, nil
	}

	segments := resolver.Segments(url)

	self := resolver.IndexSlug
	if slug != resolver.IndexSlug {
		self = ""
		if len(segments) > 0 {
			self = segments[len(segments)-1]
		}
	}

	siblings, err := b.siblings(segments, parent, self)
	if err != nil {
		return Context{}, err
	}
	nav.Siblings = siblings

	links, err := b.parentLinks(segments, breadcrumb)
	if err != nil {
		return Context{}, err
	}
	nav.ParentLinks = links

	return nav, nil
}

func (b *Builder) siblings(segments []string, parent *core.Branch, self string) ([]Sibling, error) {
	// On an index page the siblings live under the current url,
	// elsewhere they sit next to it.
	base := "/" + strings.Join(segments, "/")
	if self != resolver.IndexSlug && len(segments) > 0 {
		base = "/" + strings.Join(segments[:len(segments)-1], "/")
	}

	keys := make([]string, 0, len(parent.Children))
	for key := range parent.Children {
		if key == self || key == resolver.IndexSlug {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)

	siblings := make([]Sibling, 0, len(keys))
	for _, key := range keys {
		id := parent.Children[key].NodeID()
		meta, ok := b.Meta.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("sibling %q (%s): %w", key, id, core.ErrMetaNotFound)
		}
		siblings = append(siblings, Sibling{
			Sort:     meta.Sort,
			Name:     meta.PrettyName,
			EditLink: meta.WebViewLink,
			URL:      path.Join(base, key),
		})
	}

	slices.SortStableFunc(siblings, func(x, y Sibling) int {
		return CompareSort(x.Sort, y.Sort)
	})

	return siblings, nil
}

func (b *Builder) parentLinks(segments, breadcrumb []string) ([]Link, error) {
	if len(segments) == 0 {
		return []Link{}, nil
	}
	ancestors := segments[:len(segments)-1]

	clean := b.CleanName
	if clean == nil {
		clean = CleanName
	}

	links := make([]Link, 0, len(ancestors))
	for i := range ancestors {
		if i >= len(breadcrumb) {
			break
		}
		meta, ok := b.Meta.Lookup(breadcrumb[i])
		if !ok {
			return nil, fmt.Errorf("ancestor %s: %w", breadcrumb[i], core.ErrMetaNotFound)
		}
		links = append(links, Link{
			URL:      "/" + strings.Join(ancestors[:i+1], "/"),
			Name:     clean(meta.Name),
			EditLink: meta.WebViewLink,
		})
	}
	return links, nil
}
