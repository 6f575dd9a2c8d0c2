package server

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/monolith/pkg/protocol"
)

// TracerName is the instrumentation name of the tracer used for session
// spans.
const TracerName = "github.com/vango-dev/monolith/pkg/server"

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMetrics sets the Prometheus collectors. Default: none.
func WithMetrics(m *Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithTracerProvider sets the tracer provider used for render and navigate
// spans. Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) DispatcherOption {
	return func(d *Dispatcher) {
		if tp != nil {
			d.tracer = tp.Tracer(TracerName)
		}
	}
}

// Dispatcher accepts sessions and multiplexes their events into a single
// stream. Every session reader pushes into one shared channel; Next is the
// only consumer.
//
// Events of one session are yielded in the order its transport produced
// them. No order is defined between sessions.
type Dispatcher struct {
	config        *DispatcherConfig
	base          *slog.Logger
	logger        *slog.Logger
	sessionLogger *slog.Logger
	metrics       *Metrics
	tracer        trace.Tracer

	nextID atomic.Uint64

	accept chan *session
	events chan envelope
	quit   chan struct{}

	mu      sync.Mutex
	closed  bool
	writers map[uint64]*Writer
}

// NewDispatcher creates a Dispatcher. A nil config uses
// DefaultDispatcherConfig().
func NewDispatcher(config *DispatcherConfig, opts ...DispatcherOption) *Dispatcher {
	config = config.normalize()

	d := &Dispatcher{
		config:  config,
		logger:  slog.Default(),
		tracer:  otel.Tracer(TracerName),
		accept:  make(chan *session, config.AcceptQueue),
		events:  make(chan envelope, config.EventBuffer),
		quit:    make(chan struct{}),
		writers: make(map[uint64]*Writer),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.base = d.logger
	d.sessionLogger = d.base.With("component", "session")
	d.logger = d.base.With("component", "dispatcher")

	return d
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() *DispatcherConfig {
	return d.config
}

// Accept creates a session for t and queues it for registration by Next.
// The returned Writer may be used right away; commands are executed once
// the session is registered.
//
// If the accept queue is full Accept returns ErrAcceptQueueFull and the
// caller keeps ownership of t.
func (d *Dispatcher) Accept(t Transport) (*Writer, error) {
	if t == nil {
		return nil, ErrNilTransport
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrDispatcherClosed
	}

	id := d.nextID.Add(1)
	s := newSession(id, t, d.config.Session, d.sessionLogger, d.metrics, d.tracer)

	select {
	case d.accept <- s:
		s.logger.Debug("session accepted")
		return s.writer, nil
	default:
		d.metrics.acceptRejectedInc()
		d.logger.Warn("accept queue full", "capacity", cap(d.accept))
		return nil, ErrAcceptQueueFull
	}
}

// Next blocks until any registered session produces an event and returns
// the event together with that session's Writer. Sessions waiting in the
// accept queue are registered and started here.
//
// A Disconnected event is yielded exactly once per session; its Writer is
// removed from the registry before Next returns.
//
// Next returns ctx.Err() when ctx is done and ErrDispatcherClosed after
// Close. It must not be called concurrently.
func (d *Dispatcher) Next(ctx context.Context) (*Writer, protocol.Event, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()

		case <-d.quit:
			return nil, nil, ErrDispatcherClosed

		case s := <-d.accept:
			d.register(s)

		case env := <-d.events:
			if _, ok := env.event.(protocol.Disconnected); ok {
				d.unregister(env.session)
			}
			d.metrics.event(env.event.Type())
			return env.session.writer, env.event, nil
		}
	}
}

func (d *Dispatcher) register(s *session) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		s.shutdown(ReasonDispatcherClosed)
		return
	}
	d.writers[s.id] = s.writer
	d.mu.Unlock()

	d.metrics.sessionRegistered()
	s.start(d.events, d.quit)
}

func (d *Dispatcher) unregister(s *session) {
	d.mu.Lock()
	_, ok := d.writers[s.id]
	delete(d.writers, s.id)
	d.mu.Unlock()

	if ok {
		d.metrics.sessionRemoved()
	}
}

// Writer returns the Writer of a registered session.
func (d *Dispatcher) Writer(id uint64) (*Writer, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.writers[id]
	return w, ok
}

// Writers returns a snapshot of the registered sessions ordered by id.
func (d *Dispatcher) Writers() []*Writer {
	d.mu.Lock()
	out := make([]*Writer, 0, len(d.writers))
	for _, w := range d.writers {
		out = append(out, w)
	}
	d.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len returns the number of registered sessions.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.writers)
}

// Close disconnects every registered and pending session and makes Accept
// and Next fail with ErrDispatcherClosed. No further events are yielded.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.quit)

	var sessions []*session
	for _, w := range d.writers {
		sessions = append(sessions, w.s)
		d.metrics.sessionRemoved()
	}
drain:
	for {
		select {
		case s := <-d.accept:
			sessions = append(sessions, s)
		default:
			break drain
		}
	}
	d.writers = make(map[uint64]*Writer)
	d.mu.Unlock()

	for _, s := range sessions {
		s.shutdown(ReasonDispatcherClosed)
	}
	d.logger.Info("dispatcher closed", "sessions", len(sessions))
	return nil
}
