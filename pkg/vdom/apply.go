package vdom

import (
	"errors"
	"fmt"
)

// Apply errors.
var (
	ErrInvalidPath     = errors.New("vdom: invalid path")
	ErrNotView         = errors.New("vdom: target is not a view")
	ErrIndexOutOfRange = errors.New("vdom: child index out of range")
	ErrNilItem         = errors.New("vdom: nil item")
)

// ApplyError reports which patch of a batch could not be applied.
type ApplyError struct {
	Index int   // Position of the patch in the batch
	Patch Patch // The offending patch
	Err   error // Underlying error
}

// Error returns the error message.
func (e *ApplyError) Error() string {
	return fmt.Sprintf("vdom: patch %d (%s): %v", e.Index, e.Patch.Op(), e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Apply applies a batch of patches to prev and returns the resulting tree.
// prev may be nil when the batch starts with a root Replace. prev is not
// modified. Navigate patches are ignored.
//
// Every path and index in the batch addresses prev, so the batch is
// applied against a working copy that remembers each node's original
// position.
func Apply(prev Item, patches []Patch) (Item, error) {
	root := newWorkNode(prev)

	for i, p := range patches {
		if err := root.apply(p); err != nil {
			return nil, &ApplyError{Index: i, Patch: p, Err: err}
		}
	}

	return root.build(), nil
}

// workNode mirrors one node of the old tree while a batch is applied.
type workNode struct {
	item  Item        // The node itself; children come from slots when it is a View
	front []Item      // AddFront items, in batch order
	slots []*workSlot // One per old child
	back  []Item      // AddBack items, in batch order
}

// workSlot is one old child position.
type workSlot struct {
	node    *workNode
	removed bool
	after   []Item // InsertAt items anchored on this slot, in batch order
}

func newWorkNode(item Item) *workNode {
	n := &workNode{item: item}
	if v, ok := item.(View); ok {
		n.slots = make([]*workSlot, len(v.Children))
		for i, child := range v.Children {
			n.slots[i] = &workSlot{node: newWorkNode(child)}
		}
	}
	return n
}

func (n *workNode) apply(p Patch) error {
	switch p := p.(type) {
	case Replace:
		if p.Item == nil {
			return ErrNilItem
		}
		target, err := n.resolve(p.Path)
		if err != nil {
			return err
		}
		*target = *newWorkNode(p.Item)
		return nil

	case AddFront:
		target, err := n.resolveView(p.Path, p.Item)
		if err != nil {
			return err
		}
		target.front = append(target.front, p.Item)
		return nil

	case AddBack:
		target, err := n.resolveView(p.Path, p.Item)
		if err != nil {
			return err
		}
		target.back = append(target.back, p.Item)
		return nil

	case InsertAt:
		target, err := n.resolveView(p.Path, p.Item)
		if err != nil {
			return err
		}
		if p.Inx < 0 || p.Inx >= len(target.slots) {
			return ErrIndexOutOfRange
		}
		slot := target.slots[p.Inx]
		slot.after = append(slot.after, p.Item)
		return nil

	case RemoveInx:
		target, err := n.resolveView(p.Path, Text{})
		if err != nil {
			return err
		}
		if p.Inx < 0 || p.Inx >= len(target.slots) {
			return ErrIndexOutOfRange
		}
		target.slots[p.Inx].removed = true
		return nil

	case Navigate:
		return nil

	default:
		return fmt.Errorf("vdom: unknown patch %T", p)
	}
}

// resolve walks path through old child positions.
func (n *workNode) resolve(path Path) (*workNode, error) {
	cur := n
	for _, i := range path {
		if _, ok := cur.item.(View); !ok {
			return nil, ErrInvalidPath
		}
		if i < 0 || i >= len(cur.slots) {
			return nil, ErrInvalidPath
		}
		cur = cur.slots[i].node
	}
	return cur, nil
}

// resolveView resolves path and checks that it addresses a View. item is
// the payload of the patch and must not be nil.
func (n *workNode) resolveView(path Path, item Item) (*workNode, error) {
	if item == nil {
		return nil, ErrNilItem
	}
	target, err := n.resolve(path)
	if err != nil {
		return nil, err
	}
	if _, ok := target.item.(View); !ok {
		return nil, ErrNotView
	}
	return target, nil
}

// build materializes the working copy into a fresh tree.
func (n *workNode) build() Item {
	if _, ok := n.item.(View); !ok {
		return n.item
	}

	children := make([]Item, 0, len(n.front)+len(n.slots)+len(n.back))
	children = append(children, n.front...)
	for _, s := range n.slots {
		if !s.removed {
			children = append(children, s.node.build())
		}
		children = append(children, s.after...)
	}
	children = append(children, n.back...)
	return View{Children: children}
}
