package resolver

import (
	"testing"

	"github.com/leapstack-labs/docsite/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// guidesTree builds:
//
//	root
//	├── guides/
//	│   ├── index  (id=1)
//	│   └── setup  (id=2)
//	├── about      (id=3)
//	├── empty/     (no index)
//	│   └── note   (id=5)
//	└── nested/
//	    └── index/ (branch)
//	        └── index (id=7)
func guidesTree() *core.Branch {
	root := core.NewBranch("root", []string{})

	guides := core.NewBranch("g", []string{})
	guides.Add("index", core.NewLeaf("1", []string{"g"}))
	guides.Add("setup", core.NewLeaf("2", []string{"g"}))
	root.Add("guides", guides)

	root.Add("about", core.NewLeaf("3", []string{}))

	empty := core.NewBranch("e", []string{})
	empty.Add("note", core.NewLeaf("5", []string{"e"}))
	root.Add("empty", empty)

	nested := core.NewBranch("n", []string{})
	inner := core.NewBranch("6", []string{"n"})
	inner.Add("index", core.NewLeaf("7", []string{"n", "6"}))
	nested.Add("index", inner)
	root.Add("nested", nested)

	return root
}

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{name: "root", path: "/", want: []string{}},
		{name: "empty", path: "", want: []string{}},
		{name: "simple", path: "/guides/setup", want: []string{"guides", "setup"}},
		{name: "trailing slash", path: "/guides/", want: []string{"guides"}},
		{name: "repeated slashes", path: "//guides///setup//", want: []string{"guides", "setup"}},
		{name: "no leading slash", path: "guides/setup", want: []string{"guides", "setup"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segments(tt.path))
		})
	}
}

func TestResolve(t *testing.T) {
	root := guidesTree()
	guides := root.Children["guides"].(*core.Branch)
	empty := root.Children["empty"].(*core.Branch)
	nested := root.Children["nested"].(*core.Branch)

	tests := []struct {
		name       string
		path       string
		wantFound  bool
		wantID     string
		wantParent *core.Branch
		wantBranch bool
	}{
		{name: "folder resolves to index", path: "/guides", wantFound: true, wantID: "1", wantParent: guides},
		{name: "folder with trailing slash", path: "/guides/", wantFound: true, wantID: "1", wantParent: guides},
		{name: "leaf in folder", path: "/guides/setup", wantFound: true, wantID: "2", wantParent: guides},
		{name: "repeated slashes", path: "//guides//setup", wantFound: true, wantID: "2", wantParent: guides},
		{name: "top level leaf", path: "/about", wantFound: true, wantID: "3", wantParent: root},
		{name: "folder without index", path: "/empty", wantFound: true, wantID: "e", wantParent: root, wantBranch: true},
		{name: "unmatched path", path: "/nope/nothing", wantFound: false},
		{name: "unmatched leaf in folder", path: "/guides/missing", wantFound: false},
		{name: "segments past a leaf", path: "/about/more", wantFound: false},
		{name: "single level of index aliasing", path: "/nested", wantFound: true, wantID: "6", wantParent: nested, wantBranch: true},
		{name: "explicit path into nested index", path: "/nested/index", wantFound: true, wantID: "7", wantParent: nested.Children["index"].(*core.Branch)},
		{name: "leaf in folder without index", path: "/empty/note", wantFound: true, wantID: "5", wantParent: empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, found := Resolve(tt.path, root)
			require.Equal(t, tt.wantFound, found)
			if !found {
				assert.Nil(t, res.Node)
				assert.Nil(t, res.Parent)
				return
			}
			require.NotNil(t, res.Node)
			assert.Equal(t, tt.wantID, res.Node.NodeID())
			assert.Same(t, tt.wantParent, res.Parent)

			_, isBranch := res.Node.(*core.Branch)
			assert.Equal(t, tt.wantBranch, isBranch)
		})
	}
}

func TestResolve_Root(t *testing.T) {
	t.Run("root without index", func(t *testing.T) {
		root := guidesTree()
		res, found := Resolve("/", root)
		require.True(t, found)
		assert.Same(t, root, res.Node)
		assert.Nil(t, res.Parent)
	})

	t.Run("root with index", func(t *testing.T) {
		root := guidesTree()
		home := core.NewLeaf("home", []string{})
		root.Add("index", home)

		res, found := Resolve("", root)
		require.True(t, found)
		assert.Same(t, home, res.Node)
		assert.Same(t, root, res.Parent)
	})

	t.Run("nil root", func(t *testing.T) {
		_, found := Resolve("/guides", nil)
		assert.False(t, found)
	})
}

func TestResolve_Idempotent(t *testing.T) {
	root := guidesTree()
	for _, p := range []string{"/", "/guides", "/guides/setup", "/empty", "/nope"} {
		first, foundFirst := Resolve(p, root)
		second, foundSecond := Resolve(p, root)
		assert.Equal(t, foundFirst, foundSecond, p)
		assert.Equal(t, first, second, p)
	}
}

func TestIndexRedirect(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		want     string
		redirect bool
	}{
		{name: "explicit index", path: "/guides/index", want: "/guides", redirect: true},
		{name: "deep explicit index", path: "/a/b/c/index", want: "/a/b/c", redirect: true},
		{name: "root index", path: "/index", want: "/", redirect: true},
		{name: "trailing slash", path: "/guides/index/", want: "/guides", redirect: true},
		{name: "folder path", path: "/guides", redirect: false},
		{name: "index in the middle", path: "/index/setup", redirect: false},
		{name: "index prefix", path: "/guides/indexes", redirect: false},
		{name: "root", path: "/", redirect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, redirect := IndexRedirect(tt.path)
			assert.Equal(t, tt.redirect, redirect)
			assert.Equal(t, tt.want, got)
		})
	}
}
