package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Transport is a bidirectional message channel to one client.
//
// ReadMessage is only called from the session reader goroutine and
// WriteMessage only from the session actor goroutine. Close may be called
// from any goroutine, more than once, and must unblock a pending
// ReadMessage.
type Transport interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

// Pinger is implemented by transports that support heartbeats. Ping may be
// called concurrently with ReadMessage.
type Pinger interface {
	Ping() error
}

// WebSocketTransport adapts a gorilla websocket connection to Transport.
// Frames are sent as text messages.
type WebSocketTransport struct {
	conn   *websocket.Conn
	config *SessionConfig

	closeOnce sync.Once
	closeErr  error
}

// NewWebSocketTransport wraps conn. It applies the read limit, the read
// deadline and a pong handler that extends the deadline. A nil config uses
// DefaultSessionConfig().
func NewWebSocketTransport(conn *websocket.Conn, config *SessionConfig) *WebSocketTransport {
	if config == nil {
		config = DefaultSessionConfig()
	}

	t := &WebSocketTransport{conn: conn, config: config}

	if config.MaxMessageSize > 0 {
		conn.SetReadLimit(config.MaxMessageSize)
	}
	if config.ReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(config.ReadTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(config.ReadTimeout))
		})
	}

	return t
}

// ReadMessage reads the next text or binary message.
func (t *WebSocketTransport) ReadMessage() ([]byte, error) {
	_, msg, err := t.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if t.config.ReadTimeout > 0 {
		t.conn.SetReadDeadline(time.Now().Add(t.config.ReadTimeout))
	}
	return msg, nil
}

// WriteMessage writes data as one text message.
func (t *WebSocketTransport) WriteMessage(data []byte) error {
	if t.config.WriteTimeout > 0 {
		t.conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
	}
	return t.conn.WriteMessage(websocket.TextMessage, data)
}

// Ping sends a ping control frame.
func (t *WebSocketTransport) Ping() error {
	return t.conn.WriteControl(websocket.PingMessage, nil, t.controlDeadline())
}

// Close sends a normal closure frame and closes the connection.
func (t *WebSocketTransport) Close() error {
	return t.CloseWithReason(websocket.CloseNormalClosure, "")
}

// CloseWithReason sends a close frame with the given code and text, then
// closes the connection. Only the first call has an effect.
func (t *WebSocketTransport) CloseWithReason(code int, text string) error {
	t.closeOnce.Do(func() {
		// The peer may already be gone; the close frame is best effort.
		_ = t.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(code, text),
			t.controlDeadline(),
		)
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}

func (t *WebSocketTransport) controlDeadline() time.Time {
	d := t.config.WriteTimeout
	if d <= 0 {
		d = time.Second
	}
	return time.Now().Add(d)
}
