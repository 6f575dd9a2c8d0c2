package vdom

import (
	"strconv"
	"strings"
)

// Path addresses a node by child indices starting at the root.
// The empty path is the root. A path is only meaningful against the
// snapshot it was computed for.
type Path []int

// Child returns a new path addressing child i of the node at p.
// The receiver's backing array is never shared with the result.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Clone returns a copy of p. Clone of a nil path is an empty, non-nil path
// so that it encodes as [] on the wire.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// IsRoot reports whether p addresses the root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// String renders the path as "/0/2"; the root renders as "/".
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, i := range p {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}
