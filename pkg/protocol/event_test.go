package protocol

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeEvents(t *testing.T) {
	data := `[
		{"type":"onClick","id":"1","name":"add"},
		{"type":"onTextChanged","id":"2","name":"new","value":"milk"},
		{"type":"onKeyDown","id":"2","name":"new","keycode":"Enter"},
		{"type":"parametersChanged","query":{"q":"1"},"params":["todo"],"headers":{"host":"x"}}
	]`

	got, err := DecodeEvents([]byte(data))
	if err != nil {
		t.Fatalf("DecodeEvents() error = %v", err)
	}

	want := []Event{
		OnClick{ID: "1", Name: "add"},
		OnTextChanged{ID: "2", Name: "new", Value: "milk"},
		OnKeyDown{ID: "2", Keycode: "Enter"},
		ParametersChanged{
			Query:   map[string]string{"q": "1"},
			Params:  []string{"todo"},
			Headers: map[string]string{"host": "x"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeEvents() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeEventsEmptyFrame(t *testing.T) {
	got, err := DecodeEvents([]byte(`[]`))
	if err != nil {
		t.Fatalf("DecodeEvents([]) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("DecodeEvents([]) = %v, want empty", got)
	}
}

func TestDecodeEventsErrors(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantErr   error
		wantIndex int
		wantType  string
	}{
		{"disconnected from client", `[{"type":"onClick"},{"type":"disconnected"}]`, ErrUnexpectedDisconnected, 1, "disconnected"},
		{"unknown type", `[{"type":"onHover","id":"x"}]`, ErrUnknownType, 0, "onHover"},
		{"missing type", `[{"id":"x"}]`, ErrMissingField, 0, ""},
		{"wrong field type", `[{"type":"onClick","id":5}]`, nil, 0, "onClick"},
		{"garbage", `not json`, nil, -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := DecodeEvents([]byte(tt.data))
			if err == nil {
				t.Fatal("DecodeEvents() expected error")
			}
			if events != nil {
				t.Errorf("DecodeEvents() events = %v, want nil on error", events)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeEvents() error = %v, want %v", err, tt.wantErr)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("DecodeEvents() error = %T, want *DecodeError", err)
			}
			if de.Index != tt.wantIndex {
				t.Errorf("DecodeError.Index = %d, want %d", de.Index, tt.wantIndex)
			}
			if de.Type != tt.wantType {
				t.Errorf("DecodeError.Type = %q, want %q", de.Type, tt.wantType)
			}
		})
	}
}

func TestEncodeEvents(t *testing.T) {
	events := []Event{
		OnClick{ID: "1", Name: "toggle"},
		OnTextChanged{ID: "2", Name: "new"},
		OnKeyDown{ID: "2", Keycode: "Enter"},
		ParametersChanged{Params: []string{"a"}},
	}

	data, err := EncodeEvents(events)
	if err != nil {
		t.Fatalf("EncodeEvents() error = %v", err)
	}
	want := `[{"type":"onClick","id":"1","name":"toggle"},` +
		`{"type":"onTextChanged","id":"2","name":"new","value":""},` +
		`{"type":"onKeyDown","id":"2","keycode":"Enter"},` +
		`{"type":"parametersChanged","params":["a"]}]`
	if string(data) != want {
		t.Errorf("EncodeEvents() = %s, want %s", data, want)
	}

	if _, err := EncodeEvents([]Event{Disconnected{}}); !errors.Is(err, ErrUnexpectedDisconnected) {
		t.Errorf("EncodeEvents(Disconnected) error = %v, want ErrUnexpectedDisconnected", err)
	}
}

func TestEventType(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{Disconnected{}, "disconnected"},
		{ParametersChanged{}, "parametersChanged"},
		{OnClick{}, "onClick"},
		{OnTextChanged{}, "onTextChanged"},
		{OnKeyDown{}, "onKeyDown"},
	}
	for _, tt := range tests {
		if got := tt.event.Type(); got != tt.want {
			t.Errorf("%T.Type() = %q, want %q", tt.event, got, tt.want)
		}
	}
}
