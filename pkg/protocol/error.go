package protocol

import (
	"errors"
	"fmt"
)

// Decoding errors.
var (
	// ErrUnknownType is returned for an element whose "type" is not part of
	// the protocol.
	ErrUnknownType = errors.New("protocol: unknown type")

	// ErrMaxDepthExceeded is returned when an Item tree is nested deeper
	// than the configured limit.
	ErrMaxDepthExceeded = errors.New("protocol: maximum nesting depth exceeded")

	// ErrTooManyElements is returned when a frame carries more elements
	// than the configured limit.
	ErrTooManyElements = errors.New("protocol: too many elements in frame")

	// ErrUnexpectedDisconnected is returned when a client sends a
	// "disconnected" event. That event is only ever synthesized locally.
	ErrUnexpectedDisconnected = errors.New("protocol: disconnected is not a client event")

	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("protocol: missing field")

	// ErrNilItem is returned when encoding a nil Item.
	ErrNilItem = errors.New("protocol: nil item")
)

// DecodeError describes why an inbound or outbound frame could not be
// decoded. Index is the position of the offending element inside the frame,
// or -1 when the frame itself is malformed.
type DecodeError struct {
	Index int
	Type  string
	Err   error
}

// Error returns the error message.
func (e *DecodeError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("protocol: malformed frame: %v", e.Err)
	case e.Type == "":
		return fmt.Sprintf("protocol: element %d: %v", e.Index, e.Err)
	default:
		return fmt.Sprintf("protocol: element %d (%s): %v", e.Index, e.Type, e.Err)
	}
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
