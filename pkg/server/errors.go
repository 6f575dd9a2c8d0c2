package server

import (
	"errors"
	"fmt"
)

// Sentinel errors for session and dispatcher conditions.
var (
	// ErrSessionClosed is returned when a command is sent to a session that
	// has disconnected.
	ErrSessionClosed = errors.New("server: session closed")

	// ErrDispatcherClosed is returned by Accept and Next after Close.
	ErrDispatcherClosed = errors.New("server: dispatcher closed")

	// ErrAcceptQueueFull is returned by Accept when too many sessions are
	// waiting to be registered. The caller owns the transport and should
	// close it.
	ErrAcceptQueueFull = errors.New("server: accept queue full")

	// ErrMailboxFull is returned when a session mailbox overflows. The
	// session is disconnected.
	ErrMailboxFull = errors.New("server: session mailbox full")

	// ErrNilItem is returned by Render for a nil tree.
	ErrNilItem = errors.New("server: nil item")

	// ErrNilTransport is returned by Accept for a nil transport.
	ErrNilTransport = errors.New("server: nil transport")
)

// SessionError wraps an error with session context for debugging.
type SessionError struct {
	SessionID uint64
	Op        string // Operation that failed
	Err       error  // Underlying error
}

// Error returns the error message with session context.
func (e *SessionError) Error() string {
	if e.SessionID == 0 {
		return fmt.Sprintf("server: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("server: session %d: %s: %v", e.SessionID, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// NewSessionError creates a new SessionError.
func NewSessionError(sessionID uint64, op string, err error) *SessionError {
	return &SessionError{
		SessionID: sessionID,
		Op:        op,
		Err:       err,
	}
}
