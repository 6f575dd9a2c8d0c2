package vdom

import "github.com/vango-dev/monolith/pkg/editscript"

// Diff compares two trees and returns the patches needed to transform prev
// into next. A nil prev means the client has nothing yet and yields a single
// root Replace carrying next.
func Diff(prev, next Item) []Patch {
	if prev == nil {
		return []Patch{Replace{Path: Path{}, Item: next}}
	}

	var patches []Patch
	diff(prev, next, Path{}, &patches)
	return patches
}

// diff recursively compares nodes and appends patches.
func diff(prev, next Item, path Path, patches *[]Patch) {
	pv, prevIsView := prev.(View)
	nv, nextIsView := next.(View)

	if prevIsView && nextIsView {
		diffChildren(pv, nv, path, patches)
		return
	}

	// Leaves, or a kind change at this position
	if !Equal(prev, next) {
		*patches = append(*patches, Replace{Path: path, Item: next})
	}
}

// diffChildren reconciles two sibling lists through a minimum edit script.
// A ReplaceAt from the solver is diffed recursively against the old child
// it replaces.
func diffChildren(prev, next View, path Path, patches *[]Patch) {
	ops := editscript.ComputeFunc(prev.Children, next.Children, Equal)

	for _, op := range ops {
		switch op.Kind {
		case editscript.InsertFirst:
			*patches = append(*patches, AddFront{Path: path, Item: op.Item})
		case editscript.InsertAt:
			*patches = append(*patches, InsertAt{Path: path, Inx: op.Index, Item: op.Item})
		case editscript.RemoveAt:
			*patches = append(*patches, RemoveInx{Path: path, Inx: op.Index})
		case editscript.ReplaceAt:
			diff(prev.Children[op.Index], op.Item, path.Child(op.Index), patches)
		}
	}
}
