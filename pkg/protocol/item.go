package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vango-dev/monolith/pkg/vdom"
)

// Item type tags on the wire.
const (
	TypeView      = "view"
	TypeText      = "text"
	TypeButton    = "button"
	TypeTextInput = "textInput"
	TypeCheckbox  = "checkbox"
)

type viewJSON struct {
	Type     string `json:"type"`
	Children []any  `json:"children"`
}

type textJSON struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type buttonJSON struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

type textInputJSON struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
	Value       string `json:"value"`
}

type checkboxJSON struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

// itemEnvelope is the union of every Item field, used for decoding.
type itemEnvelope struct {
	Type        string            `json:"type"`
	Children    []json.RawMessage `json:"children"`
	Text        string            `json:"text"`
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Title       string            `json:"title"`
	Placeholder string            `json:"placeholder"`
	Value       string            `json:"value"`
	Checked     bool              `json:"checked"`
}

// EncodeItem encodes a single Item tree as JSON.
func EncodeItem(item vdom.Item) ([]byte, error) {
	w, err := itemToJSON(item)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// DecodeItem decodes a single Item tree using the default limits.
func DecodeItem(data []byte) (vdom.Item, error) {
	return DecodeItemWithLimits(data, nil)
}

// DecodeItemWithLimits decodes a single Item tree. A nil limits uses the
// defaults.
func DecodeItemWithLimits(data []byte, limits *Limits) (vdom.Item, error) {
	b := newBudget(limits)
	item, err := decodeItem(data, b)
	if err != nil {
		return nil, &DecodeError{Index: 0, Err: err}
	}
	return item, nil
}

// itemToJSON converts item into its wire representation.
func itemToJSON(item vdom.Item) (any, error) {
	switch v := item.(type) {
	case nil:
		return nil, ErrNilItem
	case vdom.View:
		children := make([]any, len(v.Children))
		for i, child := range v.Children {
			c, err := itemToJSON(child)
			if err != nil {
				return nil, err
			}
			children[i] = c
		}
		return viewJSON{Type: TypeView, Children: children}, nil
	case vdom.Text:
		return textJSON{Type: TypeText, Text: v.Text}, nil
	case vdom.Button:
		return buttonJSON{Type: TypeButton, ID: v.ID, Name: v.Name, Title: v.Title}, nil
	case vdom.TextInput:
		return textInputJSON{
			Type:        TypeTextInput,
			ID:          v.ID,
			Name:        v.Name,
			Placeholder: v.Placeholder,
			Value:       v.Value,
		}, nil
	case vdom.Checkbox:
		return checkboxJSON{Type: TypeCheckbox, ID: v.ID, Name: v.Name, Checked: v.Checked}, nil
	default:
		return nil, fmt.Errorf("%w: item %T", ErrUnknownType, item)
	}
}

// decodeItem decodes one Item, charging b for depth and elements.
func decodeItem(data json.RawMessage, b *budget) (vdom.Item, error) {
	if err := b.enter(); err != nil {
		return nil, err
	}
	defer b.leave()

	if err := b.take(1); err != nil {
		return nil, err
	}

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, fmt.Errorf("%w: item", ErrMissingField)
	}

	var env itemEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case TypeView:
		children := make([]vdom.Item, 0, len(env.Children))
		for _, raw := range env.Children {
			child, err := decodeItem(raw, b)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return vdom.View{Children: children}, nil
	case TypeText:
		return vdom.Text{Text: env.Text}, nil
	case TypeButton:
		return vdom.Button{ID: env.ID, Name: env.Name, Title: env.Title}, nil
	case TypeTextInput:
		return vdom.TextInput{
			ID:          env.ID,
			Name:        env.Name,
			Placeholder: env.Placeholder,
			Value:       env.Value,
		}, nil
	case TypeCheckbox:
		return vdom.Checkbox{ID: env.ID, Name: env.Name, Checked: env.Checked}, nil
	case "":
		return nil, fmt.Errorf("%w: type", ErrMissingField)
	default:
		return nil, fmt.Errorf("%w: item %q", ErrUnknownType, env.Type)
	}
}

// splitFrame decodes the outer JSON array of a frame and charges its
// length against b.
func splitFrame(data []byte, b *budget) ([]json.RawMessage, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}
	if elems == nil {
		return nil, &DecodeError{Index: -1, Err: fmt.Errorf("%w: frame is not an array", ErrMissingField)}
	}
	if err := b.take(len(elems)); err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}
	return elems, nil
}

// typeOf extracts the "type" tag of an element for error reporting.
func typeOf(data json.RawMessage) string {
	var tag struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(data, &tag)
	return tag.Type
}
