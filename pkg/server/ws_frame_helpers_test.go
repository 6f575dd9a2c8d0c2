package server

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vango-dev/monolith/pkg/protocol"
	"github.com/vango-dev/monolith/pkg/vtest"
)

const testTimeout = 2 * time.Second

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDispatcher(t *testing.T, config *DispatcherConfig, opts ...DispatcherOption) *Dispatcher {
	t.Helper()
	opts = append([]DispatcherOption{WithLogger(discardLogger())}, opts...)
	d := NewDispatcher(config, opts...)
	t.Cleanup(func() { d.Close() })
	return d
}

// nextEvent calls d.Next with a timeout and fails the test on error.
func nextEvent(t *testing.T, d *Dispatcher) (*Writer, protocol.Event) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	w, ev, err := d.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	return w, ev
}

// connect accepts a pipe-backed session and registers it by having the
// client announce its parameters, the way a browser does on load.
func connect(t *testing.T, d *Dispatcher) (*Writer, *vtest.MirrorClient) {
	t.Helper()
	serverEnd, clientEnd := vtest.Pipe()
	w, err := d.Accept(serverEnd)
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	client := vtest.NewMirrorClient(clientEnd)
	if err := client.Send(protocol.ParametersChanged{Params: []string{"test"}}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	got, ev := nextEvent(t, d)
	if got != w {
		t.Fatalf("Next() writer = %v, want %v", got, w)
	}
	if _, ok := ev.(protocol.ParametersChanged); !ok {
		t.Fatalf("Next() event = %T, want ParametersChanged", ev)
	}
	return w, client
}

// readFrame reads and applies one frame with a timeout.
func readFrame(t *testing.T, client *vtest.MirrorClient) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	if _, err := client.Next(ctx); err != nil {
		t.Fatalf("client.Next() error = %v", err)
	}
}

func waitDone(t *testing.T, w *Writer) {
	t.Helper()
	select {
	case <-w.Done():
	case <-time.After(testTimeout):
		t.Fatalf("timed out waiting for %v to disconnect", w)
	}
}
