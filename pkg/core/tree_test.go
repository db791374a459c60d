package core

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranch_ChildAndAdd(t *testing.T) {
	var nilBranch *Branch
	_, ok := nilBranch.Child("x")
	assert.False(t, ok)

	b := &Branch{ID: "b"}
	_, ok = b.Child("x")
	assert.False(t, ok)

	b.Add("x", NewLeaf("one", nil))
	b.Add("x", NewLeaf("two", nil))
	n, ok := b.Child("x")
	require.True(t, ok)
	assert.Equal(t, "two", n.NodeID())
}

func TestChildBreadcrumb(t *testing.T) {
	root := NewBranch("root", []string{})
	assert.Equal(t, []string{}, ChildBreadcrumb(root, true))

	guides := NewBranch("g", ChildBreadcrumb(root, true))
	assert.Equal(t, []string{"g"}, ChildBreadcrumb(guides, false))

	nested := NewBranch("n", ChildBreadcrumb(guides, false))
	crumb := ChildBreadcrumb(nested, false)
	assert.Equal(t, []string{"g", "n"}, crumb)

	// The parent's breadcrumb is copied, not shared.
	crumb[0] = "changed"
	assert.Equal(t, []string{"g"}, nested.Breadcrumb)
}

func TestWalk(t *testing.T) {
	root := NewBranch("root", []string{})
	guides := NewBranch("g", []string{})
	guides.Add("setup", NewLeaf("s", []string{"g"}))
	root.Add("guides", guides)
	root.Add("about", NewLeaf("a", []string{}))

	var paths []string
	Walk(root, func(p string, _ Node) { paths = append(paths, p) })
	sort.Strings(paths)

	assert.Equal(t, []string{"/about", "/guides", "/guides/setup"}, paths)
}

func TestMeta_IsFolder(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{FolderMimeType, true},
		{"application/x.folder", true},
		{"text/html", false},
		{"application/vnd.google-apps.document", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, Meta{MimeType: tt.mime}.IsFolder())
		})
	}
}

func TestSnapshot_Lookup(t *testing.T) {
	var nilSnap *Snapshot
	_, ok := nilSnap.Lookup("x")
	assert.False(t, ok)

	snap := NewSnapshot("root")
	snap.Meta["root"] = Meta{ID: "root", Name: "Root"}

	m, ok := snap.Lookup("root")
	require.True(t, ok)
	assert.Equal(t, "Root", m.Name)
	assert.Empty(t, snap.Root.Breadcrumb)
}
