package vtest

import (
	"context"
	"errors"
	"io"
	"sync"
)

// PipeBuffer is the number of messages each direction of a Pipe buffers
// before Write blocks.
const PipeBuffer = 64

// ErrClosed is returned by Write on a closed pipe.
var ErrClosed = errors.New("vtest: pipe closed")

// Conn is one end of an in-memory message pipe. It satisfies
// server.Transport.
type Conn struct {
	in   <-chan []byte
	out  chan<- []byte
	pipe *pipe
}

type pipe struct {
	done chan struct{}
	once sync.Once
}

// Pipe returns two connected ends. A message written on one end is read on
// the other, in order. Closing either end closes both; messages written
// before Close are still read before io.EOF.
func Pipe() (*Conn, *Conn) {
	ab := make(chan []byte, PipeBuffer)
	ba := make(chan []byte, PipeBuffer)
	p := &pipe{done: make(chan struct{})}
	return &Conn{in: ba, out: ab, pipe: p}, &Conn{in: ab, out: ba, pipe: p}
}

// ReadMessage blocks until a message arrives or the pipe is closed and
// drained, in which case it returns io.EOF.
func (c *Conn) ReadMessage() ([]byte, error) {
	return c.Read(context.Background())
}

// Read is ReadMessage with a context.
func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	select {
	case msg := <-c.in:
		return msg, nil
	case <-c.pipe.done:
		select {
		case msg := <-c.in:
			return msg, nil
		default:
			return nil, io.EOF
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// WriteMessage sends a copy of data to the other end.
func (c *Conn) WriteMessage(data []byte) error {
	return c.Write(context.Background(), data)
}

// Write is WriteMessage with a context.
func (c *Conn) Write(ctx context.Context, data []byte) error {
	select {
	case <-c.pipe.done:
		return ErrClosed
	default:
	}

	msg := make([]byte, len(data))
	copy(msg, data)

	select {
	case c.out <- msg:
		return nil
	case <-c.pipe.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes both ends. It is safe to call more than once.
func (c *Conn) Close() error {
	c.pipe.once.Do(func() { close(c.pipe.done) })
	return nil
}

// Closed returns a channel that is closed once the pipe is closed.
func (c *Conn) Closed() <-chan struct{} {
	return c.pipe.done
}
