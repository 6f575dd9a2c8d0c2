package server

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/monolith/pkg/protocol"
	"github.com/vango-dev/monolith/pkg/vdom"
)

// State is the lifecycle state of a session.
type State int32

const (
	// StateConnecting: accepted but not yet registered by the Dispatcher.
	StateConnecting State = iota
	// StateActive: registered, reading events and writing frames.
	StateActive
	// StateDisconnected: terminal.
	StateDisconnected
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "Connecting"
	case StateActive:
		return "Active"
	case StateDisconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

type commandKind uint8

const (
	cmdRender commandKind = iota + 1
	cmdNavigate
)

// command is one entry of the session mailbox.
type command struct {
	kind commandKind
	item vdom.Item
	url  string
}

// envelope tags an event with the session that produced it.
type envelope struct {
	session *session
	event   protocol.Event
}

// session is the actor owning one connection. lastTree is only touched by
// the actor goroutine; the mailbox is the only state shared with Writers.
type session struct {
	id        uint64
	transport Transport
	config    *SessionConfig
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer
	writer    *Writer

	state atomic.Int32

	mu      sync.Mutex
	queue   []command
	closed  bool
	signal  chan struct{} // Capacity 1; poked when queue grows
	started bool

	quit      chan struct{} // Closed on shutdown
	closeOnce sync.Once
	reason    string // Set once inside closeOnce

	lastTree vdom.Item // Actor-owned
}

func newSession(id uint64, t Transport, config *SessionConfig, logger *slog.Logger, metrics *Metrics, tracer trace.Tracer) *session {
	s := &session{
		id:        id,
		transport: t,
		config:    config,
		logger:    logger.With("session_id", id),
		metrics:   metrics,
		tracer:    tracer,
		signal:    make(chan struct{}, 1),
		quit:      make(chan struct{}),
	}
	s.writer = &Writer{s: s}
	return s
}

// start moves the session to Active and launches its reader and actor.
// Events are pushed to out; stop is closed when the Dispatcher shuts down.
func (s *session) start(out chan<- envelope, stop <-chan struct{}) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.state.CompareAndSwap(int32(StateConnecting), int32(StateActive))
	s.logger.Debug("session started")

	go s.run()
	go s.readLoop(out, stop)
}

// enqueue appends cmd to the mailbox.
func (s *session) enqueue(cmd command) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if limit := s.config.MaxPendingCommands; limit > 0 && len(s.queue) >= limit {
		s.mu.Unlock()
		s.logger.Warn("session mailbox overflow", "pending", limit)
		s.shutdown(ReasonMailboxFull)
		return ErrMailboxFull
	}
	s.queue = append(s.queue, cmd)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
	return nil
}

// dequeue blocks until a command is available, a heartbeat is due or the
// session shuts down.
func (s *session) dequeue(heartbeat <-chan time.Time) (command, bool) {
	for {
		select {
		case <-s.quit:
			return command{}, false
		default:
		}

		s.mu.Lock()
		if len(s.queue) > 0 {
			cmd := s.queue[0]
			s.queue[0] = command{}
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return cmd, true
		}
		s.mu.Unlock()

		select {
		case <-s.signal:
		case <-heartbeat:
			if err := s.ping(); err != nil {
				s.logger.Debug("heartbeat failed", "error", err)
				s.shutdown(ReasonWriteError)
				return command{}, false
			}
		case <-s.quit:
			return command{}, false
		}
	}
}

// run is the actor loop: it executes commands serially so that frames leave
// in the order Render and Navigate were called.
func (s *session) run() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("session panic",
				"panic", r,
				"stack", string(debug.Stack()))
			s.shutdown(ReasonPanic)
		}
	}()

	var heartbeat <-chan time.Time
	if _, ok := s.transport.(Pinger); ok && s.config.HeartbeatInterval > 0 {
		ticker := time.NewTicker(s.config.HeartbeatInterval)
		defer ticker.Stop()
		heartbeat = ticker.C
	}

	for {
		cmd, ok := s.dequeue(heartbeat)
		if !ok {
			return
		}

		var err error
		switch cmd.kind {
		case cmdRender:
			err = s.render(cmd.item)
		case cmdNavigate:
			err = s.navigate(cmd.url)
		}
		if err != nil {
			s.logger.Warn("write failed", "error", err)
			s.shutdown(ReasonWriteError)
			return
		}
	}
}

// render diffs item against the last tree sent and writes the patches as
// one frame. A render that changes nothing writes nothing.
func (s *session) render(item vdom.Item) error {
	start := time.Now()
	nodes := vdom.Count(item)
	_, span := s.tracer.Start(context.Background(), "monolith.session.render",
		trace.WithAttributes(
			attribute.Int64("monolith.session_id", int64(s.id)),
			attribute.Int("monolith.tree_nodes", nodes),
			attribute.Int("monolith.tree_depth", vdom.Depth(item)),
		))
	defer span.End()

	patches := vdom.Diff(s.lastTree, item)
	span.SetAttributes(attribute.Int("monolith.patch_count", len(patches)))
	if len(patches) == 0 {
		s.metrics.noopRender()
		return nil
	}

	frame, err := protocol.EncodePatches(patches)
	if err != nil {
		// The tree is malformed; keep the previous one so the next render
		// diffs against what the client actually has.
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("encode patches", "error", err)
		return nil
	}

	s.lastTree = item

	if err := s.transport.WriteMessage(frame); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return NewSessionError(s.id, "render", err)
	}

	s.metrics.frameSent(len(patches))
	s.metrics.observeRender(time.Since(start).Seconds())
	s.logger.Debug("frame sent", "patches", len(patches), "nodes", nodes, "bytes", len(frame))
	return nil
}

func (s *session) navigate(url string) error {
	_, span := s.tracer.Start(context.Background(), "monolith.session.navigate",
		trace.WithAttributes(
			attribute.Int64("monolith.session_id", int64(s.id)),
			attribute.String("monolith.url", url),
		))
	defer span.End()

	frame, err := protocol.EncodePatches([]vdom.Patch{vdom.Navigate{URL: url}})
	if err != nil {
		return NewSessionError(s.id, "navigate", err)
	}
	if err := s.transport.WriteMessage(frame); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return NewSessionError(s.id, "navigate", err)
	}
	s.metrics.frameSent(1)
	return nil
}

func (s *session) ping() error {
	p, ok := s.transport.(Pinger)
	if !ok {
		return nil
	}
	return p.Ping()
}

// readLoop decodes inbound frames and forwards their events in order. When
// the transport fails it emits Disconnected exactly once, after every event
// read before the failure.
func (s *session) readLoop(out chan<- envelope, stop <-chan struct{}) {
	reason := s.readFrames(out, stop)
	s.shutdown(reason)

	if reason == ReasonDispatcherClosed {
		return
	}
	select {
	case out <- envelope{session: s, event: protocol.Disconnected{}}:
	case <-stop:
	}
}

// readFrames runs until the transport fails or the Dispatcher stops and
// returns the disconnect reason.
func (s *session) readFrames(out chan<- envelope, stop <-chan struct{}) (reason string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("reader panic",
				"panic", r,
				"stack", string(debug.Stack()))
			reason = ReasonPanic
		}
	}()

	for {
		msg, err := s.transport.ReadMessage()
		if err != nil {
			select {
			case <-s.quit:
				// Closed locally; keep the reason recorded by shutdown.
				return s.closeReason()
			default:
			}
			s.logger.Debug("read failed", "error", err)
			return ReasonReadError
		}

		events, err := protocol.DecodeEvents(msg)
		if err != nil {
			s.metrics.decodeError()
			s.logger.Warn("dropping malformed frame", "error", err, "bytes", len(msg))
			continue
		}

		for _, ev := range events {
			select {
			case out <- envelope{session: s, event: ev}:
			case <-stop:
				return ReasonDispatcherClosed
			}
		}
	}
}

// shutdown closes the mailbox and the transport. Only the first call has an
// effect; it records why the session ended.
func (s *session) shutdown(reason string) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.queue = nil
		s.reason = reason
		s.mu.Unlock()

		s.state.Store(int32(StateDisconnected))
		close(s.quit)

		if err := s.transport.Close(); err != nil {
			s.logger.Debug("transport close", "error", err)
		}

		s.metrics.disconnect(reason)
		s.logger.Info("session closed", "reason", reason)
	})
}

func (s *session) closeReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Writer is the handle used to drive one session. It is safe for
// concurrent use and may be shared freely; every method only enqueues into
// the session mailbox.
type Writer struct {
	s *session
}

// ID returns the session id. Ids are allocated from 1 and never reused.
func (w *Writer) ID() uint64 {
	return w.s.id
}

// State returns the current lifecycle state.
func (w *Writer) State() State {
	return State(w.s.state.Load())
}

// Render schedules item as the new UI tree. The session diffs it against
// the last tree it sent and writes the patches as one frame. Frames leave
// in Render call order; rendering an unchanged tree writes nothing.
//
// Render returns ErrSessionClosed once the session has disconnected and
// ErrMailboxFull if the mailbox overflowed, which disconnects the session.
func (w *Writer) Render(item vdom.Item) error {
	if item == nil {
		return ErrNilItem
	}
	return w.s.enqueue(command{kind: cmdRender, item: item})
}

// Navigate asks the client to change its location to url.
func (w *Writer) Navigate(url string) error {
	return w.s.enqueue(command{kind: cmdNavigate, url: url})
}

// Close disconnects the session. Pending commands are discarded. The
// Dispatcher still yields Disconnected for a registered session.
func (w *Writer) Close() error {
	w.s.shutdown(ReasonClosed)
	return nil
}

// Done returns a channel that is closed once the session is disconnected.
func (w *Writer) Done() <-chan struct{} {
	return w.s.quit
}

// String returns a short description for logs.
func (w *Writer) String() string {
	return fmt.Sprintf("session %d (%s)", w.s.id, w.State())
}
