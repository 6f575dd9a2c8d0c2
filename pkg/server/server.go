package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// Server is the HTTP front of a Dispatcher. It upgrades requests on the
// configured path to websocket sessions and serves a health endpoint.
// Extra routes can be mounted through Router.
type Server struct {
	config     *ServerConfig
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	middlewares []func(http.Handler) http.Handler
}

// WithMiddleware installs HTTP middleware on the router ahead of every
// route, after the request id and panic recovery middleware.
func WithMiddleware(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(o *serverOptions) {
		o.middlewares = append(o.middlewares, mw...)
	}
}

// New creates a Server feeding accepted connections into d. A nil config
// uses DefaultServerConfig(); zero fields are filled with defaults.
func New(config *ServerConfig, d *Dispatcher, opts ...ServerOption) *Server {
	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	defaults := DefaultServerConfig()
	if config == nil {
		config = defaults
	} else {
		config = config.Clone()
		if config.Address == "" {
			config.Address = defaults.Address
		}
		if config.Path == "" {
			config.Path = defaults.Path
		}
		if config.ReadBufferSize == 0 {
			config.ReadBufferSize = defaults.ReadBufferSize
		}
		if config.WriteBufferSize == 0 {
			config.WriteBufferSize = defaults.WriteBufferSize
		}
		if config.CheckOrigin == nil {
			config.CheckOrigin = defaults.CheckOrigin
		}
		if config.ShutdownTimeout == 0 {
			config.ShutdownTimeout = defaults.ShutdownTimeout
		}
	}

	s := &Server{
		config:     config,
		dispatcher: d,
		upgrader: websocket.Upgrader{
			ReadBufferSize:    config.ReadBufferSize,
			WriteBufferSize:   config.WriteBufferSize,
			CheckOrigin:       config.CheckOrigin,
			EnableCompression: config.EnableCompression,
		},
		logger: d.base.With("component", "server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if len(o.middlewares) > 0 {
		r.Use(o.middlewares...)
	}
	r.Get(config.Path, s.HandleWebSocket)
	r.Get("/healthz", s.handleHealth)
	s.router = r

	return s
}

// Router returns the router so that callers can mount extra routes.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HandleWebSocket upgrades the request and hands the connection to the
// Dispatcher. When the accept queue is full the connection is closed with
// a try-again-later status.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		s.logger.Warn("websocket upgrade failed",
			"error", err,
			"request_id", middleware.GetReqID(r.Context()))
		return
	}

	t := NewWebSocketTransport(conn, s.dispatcher.Config().Session)

	writer, err := s.dispatcher.Accept(t)
	if err != nil {
		code := websocket.CloseTryAgainLater
		if errors.Is(err, ErrDispatcherClosed) {
			code = websocket.CloseGoingAway
		}
		t.CloseWithReason(code, err.Error())
		return
	}

	s.logger.Debug("connection accepted",
		"session_id", writer.ID(),
		"remote_addr", r.RemoteAddr,
		"request_id", middleware.GetReqID(r.Context()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String(), "path", s.config.Path)
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes the Dispatcher, which disconnects every session, then
// shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.dispatcher.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Config returns the server configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}

// Dispatcher returns the Dispatcher fed by this server.
func (s *Server) Dispatcher() *Dispatcher {
	return s.dispatcher
}
