package server

import (
	"errors"
	"testing"
)

func TestSessionError(t *testing.T) {
	base := errors.New("broken pipe")

	tests := []struct {
		name string
		err  *SessionError
		want string
	}{
		{"with session", NewSessionError(7, "render", base), "server: session 7: render: broken pipe"},
		{"without session", NewSessionError(0, "accept", base), "server: accept: broken pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, base) {
				t.Error("errors.Is(err, base) = false")
			}
		})
	}

	var se *SessionError
	wrapped := error(NewSessionError(3, "navigate", ErrSessionClosed))
	if !errors.As(wrapped, &se) || se.SessionID != 3 {
		t.Errorf("errors.As() = %v, want session 3", se)
	}
}
