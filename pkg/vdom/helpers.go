package vdom

import "fmt"

// NewView creates a View from a mixed list of children.
// Accepted values are Item, []Item and string (wrapped in Text); nil
// values are skipped so conditional children can be written inline.
func NewView(children ...any) View {
	v := View{Children: make([]Item, 0, len(children))}

	for _, child := range children {
		switch c := child.(type) {
		case nil:
			continue
		case Item:
			v.Children = append(v.Children, c)
		case []Item:
			for _, item := range c {
				if item != nil {
					v.Children = append(v.Children, item)
				}
			}
		case string:
			v.Children = append(v.Children, Text{Text: c})
		default:
			panic(fmt.Sprintf("vdom: unsupported child type %T", child))
		}
	}

	return v
}

// Textf creates a formatted Text item.
func Textf(format string, args ...any) Text {
	return Text{Text: fmt.Sprintf(format, args...)}
}

// Map renders one Item per element of items, preserving order.
func Map[T any](items []T, fn func(int, T) Item) []Item {
	out := make([]Item, 0, len(items))
	for i, item := range items {
		out = append(out, fn(i, item))
	}
	return out
}
