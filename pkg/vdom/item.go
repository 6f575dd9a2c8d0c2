package vdom

// Kind is the item variant discriminator.
type Kind uint8

const (
	KindView      Kind = iota + 1 // Container with ordered children
	KindText                      // Plain text
	KindButton                    // Clickable button
	KindTextInput                 // Single-line text input
	KindCheckbox                  // Checkbox
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindView:
		return "View"
	case KindText:
		return "Text"
	case KindButton:
		return "Button"
	case KindTextInput:
		return "TextInput"
	case KindCheckbox:
		return "Checkbox"
	default:
		return "Unknown"
	}
}

// Item is a node of the UI tree.
// The set of implementations is closed: View, Text, Button, TextInput and
// Checkbox.
type Item interface {
	Kind() Kind
	isItem()
}

// View is a container whose children are rendered in order.
type View struct {
	Children []Item
}

// Text is a run of plain text.
type Text struct {
	Text string
}

// Button is a clickable button. Clicks are reported as OnClick events
// carrying ID and Name.
type Button struct {
	ID    string
	Name  string
	Title string
}

// TextInput is a single-line input. Edits are reported as OnTextChanged
// events, Enter as OnKeyDown.
type TextInput struct {
	ID          string
	Name        string
	Placeholder string
	Value       string
}

// Checkbox is a two-state checkbox. Toggles are reported as OnClick events.
type Checkbox struct {
	ID      string
	Name    string
	Checked bool
}

func (View) Kind() Kind      { return KindView }
func (Text) Kind() Kind      { return KindText }
func (Button) Kind() Kind    { return KindButton }
func (TextInput) Kind() Kind { return KindTextInput }
func (Checkbox) Kind() Kind  { return KindCheckbox }

func (View) isItem()      {}
func (Text) isItem()      {}
func (Button) isItem()    {}
func (TextInput) isItem() {}
func (Checkbox) isItem()  {}

// Equal reports whether a and b are structurally equal.
// A nil Item is only equal to nil.
func Equal(a, b Item) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case View:
		bv, ok := b.(View)
		if !ok || len(av.Children) != len(bv.Children) {
			return false
		}
		for i := range av.Children {
			if !Equal(av.Children[i], bv.Children[i]) {
				return false
			}
		}
		return true
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Button:
		bv, ok := b.(Button)
		return ok && av == bv
	case TextInput:
		bv, ok := b.(TextInput)
		return ok && av == bv
	case Checkbox:
		bv, ok := b.(Checkbox)
		return ok && av == bv
	default:
		return false
	}
}

// Count returns the number of nodes in the tree rooted at item.
func Count(item Item) int {
	v, ok := item.(View)
	if !ok {
		if item == nil {
			return 0
		}
		return 1
	}
	n := 1
	for _, child := range v.Children {
		n += Count(child)
	}
	return n
}

// Depth returns the nesting depth of the tree rooted at item. A leaf has
// depth 1.
func Depth(item Item) int {
	v, ok := item.(View)
	if !ok {
		if item == nil {
			return 0
		}
		return 1
	}
	d := 0
	for _, child := range v.Children {
		d = max(d, Depth(child))
	}
	return d + 1
}
