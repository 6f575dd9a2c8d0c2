package protocol

import (
	"encoding/json"
	"fmt"
)

// Event type tags on the wire.
const (
	TypeDisconnected      = "disconnected"
	TypeParametersChanged = "parametersChanged"
	TypeOnClick           = "onClick"
	TypeOnTextChanged     = "onTextChanged"
	TypeOnKeyDown         = "onKeyDown"
)

// Event is a client interaction event.
// The set of implementations is closed.
type Event interface {
	// Type returns the wire type tag of the event.
	Type() string
	isEvent()
}

// Disconnected marks the end of a session. It is synthesized locally when
// the transport fails or closes and is never accepted from a client.
type Disconnected struct{}

// ParametersChanged reports the client's current location.
type ParametersChanged struct {
	Query   map[string]string
	Params  []string
	Headers map[string]string
}

// OnClick reports a click on a Button or a Checkbox.
type OnClick struct {
	ID   string
	Name string
}

// OnTextChanged reports an edit of a TextInput.
type OnTextChanged struct {
	ID    string
	Name  string
	Value string
}

// OnKeyDown reports a key press inside a TextInput.
type OnKeyDown struct {
	ID      string
	Keycode string
}

func (Disconnected) Type() string      { return TypeDisconnected }
func (ParametersChanged) Type() string { return TypeParametersChanged }
func (OnClick) Type() string           { return TypeOnClick }
func (OnTextChanged) Type() string     { return TypeOnTextChanged }
func (OnKeyDown) Type() string         { return TypeOnKeyDown }

func (Disconnected) isEvent()      {}
func (ParametersChanged) isEvent() {}
func (OnClick) isEvent()           {}
func (OnTextChanged) isEvent()     {}
func (OnKeyDown) isEvent()         {}

// eventJSON is the wire representation of every client event.
type eventJSON struct {
	Type    string            `json:"type"`
	ID      string            `json:"id,omitempty"`
	Name    string            `json:"name,omitempty"`
	Value   *string           `json:"value,omitempty"`
	Keycode string            `json:"keycode,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
	Params  []string          `json:"params,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// EncodeEvents encodes events as one inbound frame. It is the client side
// of DecodeEvents. Disconnected cannot be encoded.
func EncodeEvents(events []Event) ([]byte, error) {
	elems := make([]eventJSON, len(events))
	for i, ev := range events {
		switch e := ev.(type) {
		case OnClick:
			elems[i] = eventJSON{Type: TypeOnClick, ID: e.ID, Name: e.Name}
		case OnTextChanged:
			value := e.Value
			elems[i] = eventJSON{Type: TypeOnTextChanged, ID: e.ID, Name: e.Name, Value: &value}
		case OnKeyDown:
			elems[i] = eventJSON{Type: TypeOnKeyDown, ID: e.ID, Keycode: e.Keycode}
		case ParametersChanged:
			elems[i] = eventJSON{
				Type:    TypeParametersChanged,
				Query:   e.Query,
				Params:  e.Params,
				Headers: e.Headers,
			}
		case Disconnected:
			return nil, fmt.Errorf("protocol: encode event %d: %w", i, ErrUnexpectedDisconnected)
		default:
			return nil, fmt.Errorf("protocol: encode event %d: %w: %T", i, ErrUnknownType, ev)
		}
	}
	return json.Marshal(elems)
}

// DecodeEvents decodes an inbound frame using the default limits.
// Any error means the whole frame must be dropped; it is always a
// *DecodeError.
func DecodeEvents(data []byte) ([]Event, error) {
	return DecodeEventsWithLimits(data, nil)
}

// DecodeEventsWithLimits decodes an inbound frame. A nil limits uses the
// defaults.
func DecodeEventsWithLimits(data []byte, limits *Limits) ([]Event, error) {
	b := newBudget(limits)
	elems, err := splitFrame(data, b)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(elems))
	for i, raw := range elems {
		ev, err := decodeEvent(raw)
		if err != nil {
			return nil, &DecodeError{Index: i, Type: typeOf(raw), Err: err}
		}
		events = append(events, ev)
	}
	return events, nil
}

func decodeEvent(data json.RawMessage) (Event, error) {
	var e eventJSON
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}

	switch e.Type {
	case TypeOnClick:
		return OnClick{ID: e.ID, Name: e.Name}, nil
	case TypeOnTextChanged:
		ev := OnTextChanged{ID: e.ID, Name: e.Name}
		if e.Value != nil {
			ev.Value = *e.Value
		}
		return ev, nil
	case TypeOnKeyDown:
		return OnKeyDown{ID: e.ID, Keycode: e.Keycode}, nil
	case TypeParametersChanged:
		return ParametersChanged{Query: e.Query, Params: e.Params, Headers: e.Headers}, nil
	case TypeDisconnected:
		return nil, ErrUnexpectedDisconnected
	case "":
		return nil, fmt.Errorf("%w: type", ErrMissingField)
	default:
		return nil, fmt.Errorf("%w: event %q", ErrUnknownType, e.Type)
	}
}
