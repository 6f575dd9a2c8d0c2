package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/vango-dev/monolith/pkg/vdom"
)

// Patch type tags on the wire.
const (
	TypeReplace   = "replace"
	TypeAddFront  = "addFront"
	TypeAddBack   = "addBack"
	TypeInsertAt  = "insertAt"
	TypeRemoveInx = "removeInx"
	TypeNavigate  = "navigate"
)

// patchJSON is the wire representation of every patch variant.
// Inx is a pointer so that index 0 is still emitted.
type patchJSON struct {
	Type string    `json:"type"`
	Path vdom.Path `json:"path"`
	Item any       `json:"item,omitempty"`
	Inx  *int      `json:"inx,omitempty"`
}

type navigateJSON struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type patchEnvelope struct {
	Type string          `json:"type"`
	Path *[]int          `json:"path"`
	Item json.RawMessage `json:"item"`
	Inx  *int            `json:"inx"`
	URL  *string         `json:"url"`
}

// EncodePatches encodes a patch batch as one outbound frame: a JSON array
// with one element per patch, in batch order.
func EncodePatches(patches []vdom.Patch) ([]byte, error) {
	elems := make([]any, len(patches))
	for i, p := range patches {
		e, err := patchToJSON(p)
		if err != nil {
			return nil, fmt.Errorf("protocol: encode patch %d: %w", i, err)
		}
		elems[i] = e
	}
	return json.Marshal(elems)
}

func patchToJSON(p vdom.Patch) (any, error) {
	switch p := p.(type) {
	case vdom.Replace:
		item, err := itemToJSON(p.Item)
		if err != nil {
			return nil, err
		}
		return patchJSON{Type: TypeReplace, Path: p.Path.Clone(), Item: item}, nil
	case vdom.AddFront:
		item, err := itemToJSON(p.Item)
		if err != nil {
			return nil, err
		}
		return patchJSON{Type: TypeAddFront, Path: p.Path.Clone(), Item: item}, nil
	case vdom.AddBack:
		item, err := itemToJSON(p.Item)
		if err != nil {
			return nil, err
		}
		return patchJSON{Type: TypeAddBack, Path: p.Path.Clone(), Item: item}, nil
	case vdom.InsertAt:
		item, err := itemToJSON(p.Item)
		if err != nil {
			return nil, err
		}
		inx := p.Inx
		return patchJSON{Type: TypeInsertAt, Path: p.Path.Clone(), Item: item, Inx: &inx}, nil
	case vdom.RemoveInx:
		inx := p.Inx
		return patchJSON{Type: TypeRemoveInx, Path: p.Path.Clone(), Inx: &inx}, nil
	case vdom.Navigate:
		return navigateJSON{Type: TypeNavigate, URL: p.URL}, nil
	default:
		return nil, fmt.Errorf("%w: patch %T", ErrUnknownType, p)
	}
}

// DecodePatches decodes an outbound frame using the default limits.
// It is the client side of EncodePatches.
func DecodePatches(data []byte) ([]vdom.Patch, error) {
	return DecodePatchesWithLimits(data, nil)
}

// DecodePatchesWithLimits decodes an outbound frame. A nil limits uses the
// defaults.
func DecodePatchesWithLimits(data []byte, limits *Limits) ([]vdom.Patch, error) {
	b := newBudget(limits)
	elems, err := splitFrame(data, b)
	if err != nil {
		return nil, err
	}

	patches := make([]vdom.Patch, 0, len(elems))
	for i, raw := range elems {
		p, err := decodePatch(raw, b)
		if err != nil {
			return nil, &DecodeError{Index: i, Type: typeOf(raw), Err: err}
		}
		patches = append(patches, p)
	}
	return patches, nil
}

func decodePatch(data json.RawMessage, b *budget) (vdom.Patch, error) {
	var env patchEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	if env.Type == TypeNavigate {
		if env.URL == nil {
			return nil, fmt.Errorf("%w: url", ErrMissingField)
		}
		return vdom.Navigate{URL: *env.URL}, nil
	}

	if env.Path == nil {
		if env.Type == "" {
			return nil, fmt.Errorf("%w: type", ErrMissingField)
		}
		return nil, fmt.Errorf("%w: path", ErrMissingField)
	}
	path := vdom.Path(*env.Path).Clone()

	item := func() (vdom.Item, error) {
		if len(env.Item) == 0 {
			return nil, fmt.Errorf("%w: item", ErrMissingField)
		}
		return decodeItem(env.Item, b)
	}
	inx := func() (int, error) {
		if env.Inx == nil {
			return 0, fmt.Errorf("%w: inx", ErrMissingField)
		}
		return *env.Inx, nil
	}

	switch env.Type {
	case TypeReplace:
		it, err := item()
		if err != nil {
			return nil, err
		}
		return vdom.Replace{Path: path, Item: it}, nil
	case TypeAddFront:
		it, err := item()
		if err != nil {
			return nil, err
		}
		return vdom.AddFront{Path: path, Item: it}, nil
	case TypeAddBack:
		it, err := item()
		if err != nil {
			return nil, err
		}
		return vdom.AddBack{Path: path, Item: it}, nil
	case TypeInsertAt:
		i, err := inx()
		if err != nil {
			return nil, err
		}
		it, err := item()
		if err != nil {
			return nil, err
		}
		return vdom.InsertAt{Path: path, Inx: i, Item: it}, nil
	case TypeRemoveInx:
		i, err := inx()
		if err != nil {
			return nil, err
		}
		return vdom.RemoveInx{Path: path, Inx: i}, nil
	case "":
		return nil, fmt.Errorf("%w: type", ErrMissingField)
	default:
		return nil, fmt.Errorf("%w: patch %q", ErrUnknownType, env.Type)
	}
}
