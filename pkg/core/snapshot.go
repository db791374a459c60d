package core

// Snapshot is an immutable view of the tree and its metadata.
// It is fetched once per request and must not be mutated after construction.
type Snapshot struct {
	Root *Branch
	Meta map[string]Meta
}

// NewSnapshot creates an empty snapshot with a root branch.
func NewSnapshot(rootID string) *Snapshot {
	return &Snapshot{
		Root: NewBranch(rootID, []string{}),
		Meta: make(map[string]Meta),
	}
}

// Lookup returns the metadata for id.
func (s *Snapshot) Lookup(id string) (Meta, bool) {
	if s == nil {
		return Meta{}, false
	}
	m, ok := s.Meta[id]
	return m, ok
}
