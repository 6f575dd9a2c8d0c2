package vdom

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchReplace   PatchOp = 0x01 // Replace the subtree at Path
	PatchAddFront  PatchOp = 0x02 // Insert before the first child
	PatchAddBack   PatchOp = 0x03 // Insert after the last child
	PatchInsertAt  PatchOp = 0x04 // Insert after old child Inx
	PatchRemoveInx PatchOp = 0x05 // Remove old child Inx
	PatchNavigate  PatchOp = 0x06 // Client-side navigation, tree untouched
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchReplace:
		return "Replace"
	case PatchAddFront:
		return "AddFront"
	case PatchAddBack:
		return "AddBack"
	case PatchInsertAt:
		return "InsertAt"
	case PatchRemoveInx:
		return "RemoveInx"
	case PatchNavigate:
		return "Navigate"
	default:
		return "Unknown"
	}
}

// Patch is a single instruction sent to the client.
// The set of implementations is closed.
type Patch interface {
	Op() PatchOp
	isPatch()
}

// Replace substitutes the whole subtree at Path with Item.
type Replace struct {
	Path Path
	Item Item
}

// AddFront inserts Item before the first child of the View at Path.
type AddFront struct {
	Path Path
	Item Item
}

// AddBack inserts Item after the last child of the View at Path.
type AddBack struct {
	Path Path
	Item Item
}

// InsertAt inserts Item right after the old child Inx of the View at Path.
type InsertAt struct {
	Path Path
	Inx  int
	Item Item
}

// RemoveInx removes the old child Inx of the View at Path.
type RemoveInx struct {
	Path Path
	Inx  int
}

// Navigate asks the client to switch its location to URL.
type Navigate struct {
	URL string
}

func (Replace) Op() PatchOp   { return PatchReplace }
func (AddFront) Op() PatchOp  { return PatchAddFront }
func (AddBack) Op() PatchOp   { return PatchAddBack }
func (InsertAt) Op() PatchOp  { return PatchInsertAt }
func (RemoveInx) Op() PatchOp { return PatchRemoveInx }
func (Navigate) Op() PatchOp  { return PatchNavigate }

func (Replace) isPatch()   {}
func (AddFront) isPatch()  {}
func (AddBack) isPatch()   {}
func (InsertAt) isPatch()  {}
func (RemoveInx) isPatch() {}
func (Navigate) isPatch()  {}
