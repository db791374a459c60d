package core

// Node is an entry in the document hierarchy.
// It is implemented by exactly two types: *Branch and *Leaf.
type Node interface {
	// NodeID returns the external document identifier.
	NodeID() string
	// Ancestors returns the breadcrumb captured when the tree was built.
	Ancestors() []string

	isNode()
}

// Branch is a folder holding named children.
type Branch struct {
	ID         string
	Breadcrumb []string
	Children   map[string]Node
}

// Leaf is a single renderable document.
type Leaf struct {
	ID         string
	Breadcrumb []string
}

// NewBranch creates a branch with an allocated child map.
func NewBranch(id string, breadcrumb []string) *Branch {
	return &Branch{
		ID:         id,
		Breadcrumb: breadcrumb,
		Children:   make(map[string]Node),
	}
}

// NewLeaf creates a leaf node.
func NewLeaf(id string, breadcrumb []string) *Leaf {
	return &Leaf{ID: id, Breadcrumb: breadcrumb}
}

// NodeID implements Node.
func (b *Branch) NodeID() string { return b.ID }

// Ancestors implements Node.
func (b *Branch) Ancestors() []string { return b.Breadcrumb }

func (*Branch) isNode() {}

// NodeID implements Node.
func (l *Leaf) NodeID() string { return l.ID }

// Ancestors implements Node.
func (l *Leaf) Ancestors() []string { return l.Breadcrumb }

func (*Leaf) isNode() {}

// Child returns the child stored under slug, if any.
func (b *Branch) Child(slug string) (Node, bool) {
	if b == nil || b.Children == nil {
		return nil, false
	}
	n, ok := b.Children[slug]
	return n, ok
}

// Add stores child under slug, replacing any previous child with that slug.
func (b *Branch) Add(slug string, child Node) {
	if b.Children == nil {
		b.Children = make(map[string]Node)
	}
	b.Children[slug] = child
}

// ChildBreadcrumb returns the breadcrumb for children of parent.
// Children of the root get an empty breadcrumb.
func ChildBreadcrumb(parent *Branch, isRoot bool) []string {
	if isRoot {
		return []string{}
	}
	crumb := make([]string, 0, len(parent.Breadcrumb)+1)
	crumb = append(crumb, parent.Breadcrumb...)
	return append(crumb, parent.ID)
}

// Walk visits every node below root depth first, passing the slash-joined
// path of each node. Children are visited in no particular order.
func Walk(root *Branch, fn func(path string, n Node)) {
	walk(root, "", fn)
}

func walk(b *Branch, prefix string, fn func(string, Node)) {
	for slug, child := range b.Children {
		p := prefix + "/" + slug
		fn(p, child)
		if sub, ok := child.(*Branch); ok {
			walk(sub, p, fn)
		}
	}
}
