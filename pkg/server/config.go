package server

import (
	"net/http"
	"net/url"
	"time"
)

// SessionConfig holds configuration for individual sessions.
type SessionConfig struct {
	// Timeouts

	// ReadTimeout is the maximum time to wait for a message or pong from
	// the client. Zero disables the deadline.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a frame.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings. Zero disables
	// heartbeats. Only transports implementing Pinger are pinged.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// Limits

	// MaxMessageSize is the maximum size of an inbound frame.
	// Default: 64KB.
	MaxMessageSize int64

	// MaxPendingCommands bounds the session mailbox. A session whose
	// mailbox overflows is disconnected. Zero means unbounded.
	// Default: 1024.
	MaxPendingCommands int
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:        60 * time.Second,
		WriteTimeout:       10 * time.Second,
		HeartbeatInterval:  30 * time.Second,
		MaxMessageSize:     64 * 1024, // 64KB
		MaxPendingCommands: 1024,
	}
}

// Clone returns a copy of the SessionConfig.
func (c *SessionConfig) Clone() *SessionConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// WithHeartbeatInterval sets the heartbeat interval and returns the config
// for chaining.
func (c *SessionConfig) WithHeartbeatInterval(d time.Duration) *SessionConfig {
	c.HeartbeatInterval = d
	return c
}

// WithMaxPendingCommands sets the mailbox bound and returns the config for
// chaining.
func (c *SessionConfig) WithMaxPendingCommands(n int) *SessionConfig {
	c.MaxPendingCommands = n
	return c
}

// DispatcherConfig holds configuration for a Dispatcher.
type DispatcherConfig struct {
	// AcceptQueue is the capacity of the queue of accepted sessions waiting
	// to be registered by Next. Accept fails once it is full.
	// Default: 100.
	AcceptQueue int

	// EventBuffer is the capacity of the shared event channel. Session
	// readers block while it is full.
	// Default: 256.
	EventBuffer int

	// Session is the configuration applied to every accepted session.
	// Default: DefaultSessionConfig().
	Session *SessionConfig
}

// DefaultDispatcherConfig returns a DispatcherConfig with sensible defaults.
func DefaultDispatcherConfig() *DispatcherConfig {
	return &DispatcherConfig{
		AcceptQueue: 100,
		EventBuffer: 256,
		Session:     DefaultSessionConfig(),
	}
}

// Clone returns a copy of the DispatcherConfig.
func (c *DispatcherConfig) Clone() *DispatcherConfig {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Session = c.Session.Clone()
	return &clone
}

// WithAcceptQueue sets the accept queue capacity and returns the config for
// chaining.
func (c *DispatcherConfig) WithAcceptQueue(n int) *DispatcherConfig {
	c.AcceptQueue = n
	return c
}

// WithEventBuffer sets the event buffer capacity and returns the config for
// chaining.
func (c *DispatcherConfig) WithEventBuffer(n int) *DispatcherConfig {
	c.EventBuffer = n
	return c
}

// WithSessionConfig sets the session configuration and returns the config
// for chaining.
func (c *DispatcherConfig) WithSessionConfig(sc *SessionConfig) *DispatcherConfig {
	c.Session = sc
	return c
}

// normalize returns a copy of c with zero values replaced by defaults.
func (c *DispatcherConfig) normalize() *DispatcherConfig {
	def := DefaultDispatcherConfig()
	if c == nil {
		return def
	}
	out := c.Clone()
	if out.AcceptQueue <= 0 {
		out.AcceptQueue = def.AcceptQueue
	}
	if out.EventBuffer <= 0 {
		out.EventBuffer = def.EventBuffer
	}
	if out.Session == nil {
		out.Session = def.Session
	}
	return out
}

// ServerConfig holds configuration for the HTTP upgrade layer.
type ServerConfig struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// Path is the URL path the websocket handler is mounted on.
	// Default: "/ui".
	Path string

	// WebSocket buffer sizes

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// EnableCompression negotiates per-message compression.
	// Default: false.
	EnableCompression bool

	// CheckOrigin is called to validate the request origin.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:         ":8080",
		Path:            "/ui",
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     SameOriginCheck,
		ShutdownTimeout: 30 * time.Second,
	}
}

// SameOriginCheck accepts requests without an Origin header and requests
// whose Origin host matches the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := r.Host
	if host == "" {
		return false
	}

	return originURL.Host == host
}

// AllowedOrigins returns an origin check that accepts same-origin requests
// and requests whose Origin is one of origins (scheme and host, e.g.
// "https://app.example.com"). The single entry "*" accepts every origin.
func AllowedOrigins(origins ...string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		if SameOriginCheck(r) {
			return true
		}
		return allowed[r.Header.Get("Origin")]
	}
}

// Clone returns a copy of the ServerConfig.
func (c *ServerConfig) Clone() *ServerConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// WithAddress sets the server address and returns the config for chaining.
func (c *ServerConfig) WithAddress(addr string) *ServerConfig {
	c.Address = addr
	return c
}

// WithPath sets the websocket path and returns the config for chaining.
func (c *ServerConfig) WithPath(path string) *ServerConfig {
	c.Path = path
	return c
}

// WithCheckOrigin sets the origin check and returns the config for chaining.
func (c *ServerConfig) WithCheckOrigin(fn func(r *http.Request) bool) *ServerConfig {
	c.CheckOrigin = fn
	return c
}
