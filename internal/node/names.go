package node

import "fmt"

// ID is an interned handle for a qualified name. The zero value is NoID.
type ID uint32

// NoID is the invalid sentinel.
const NoID ID = 0

// IsValid reports whether id refers to an interned name.
func (id ID) IsValid() bool { return id != NoID }

func (id ID) String() string { return fmt.Sprintf("#%d", uint32(id)) }

// Names interns qualified names. IDs are dense and start at 1.
type Names struct {
	paths []string
	ids   map[string]ID
}

// NewNames returns an empty interning table.
func NewNames() *Names {
	return &Names{
		paths: []string{""},
		ids:   make(map[string]ID),
	}
}

// Intern returns the ID for path, allocating one if needed. fresh is false
// when path was already present.
func (n *Names) Intern(path string) (id ID, fresh bool) {
	if id, ok := n.ids[path]; ok {
		return id, false
	}
	id = ID(len(n.paths))
	n.paths = append(n.paths, path)
	n.ids[path] = id
	return id, true
}

// Lookup returns the ID of an already interned path.
func (n *Names) Lookup(path string) (ID, bool) {
	id, ok := n.ids[path]
	return id, ok
}

// Path returns the qualified name of id, or "" for an unknown id.
func (n *Names) Path(id ID) string {
	if int(id) <= 0 || int(id) >= len(n.paths) {
		return ""
	}
	return n.paths[id]
}

// Len returns the number of interned names.
func (n *Names) Len() int { return len(n.paths) - 1 }
