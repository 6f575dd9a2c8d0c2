package vtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/monolith/pkg/protocol"
	"github.com/vango-dev/monolith/pkg/vdom"
)

// MirrorClient plays the client side of a session. It keeps its own copy of
// the UI tree and applies every patch frame it reads to it.
type MirrorClient struct {
	conn     *Conn
	tree     vdom.Item
	location string
	frames   int
}

// NewMirrorClient creates a client on the client end of a Pipe.
func NewMirrorClient(conn *Conn) *MirrorClient {
	return &MirrorClient{conn: conn}
}

// Next reads one frame, applies it to the mirrored tree and returns its
// patches.
func (c *MirrorClient) Next(ctx context.Context) ([]vdom.Patch, error) {
	msg, err := c.conn.Read(ctx)
	if err != nil {
		return nil, err
	}

	patches, err := protocol.DecodePatches(msg)
	if err != nil {
		return nil, fmt.Errorf("vtest: decode frame %d: %w", c.frames, err)
	}

	tree, err := vdom.Apply(c.tree, patches)
	if err != nil {
		return nil, fmt.Errorf("vtest: apply frame %d: %w", c.frames, err)
	}
	for _, p := range patches {
		if nav, ok := p.(vdom.Navigate); ok {
			c.location = nav.URL
		}
	}

	c.tree = tree
	c.frames++
	return patches, nil
}

// Send encodes events as one frame and writes it.
func (c *MirrorClient) Send(events ...protocol.Event) error {
	data, err := protocol.EncodeEvents(events)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(data)
}

// SendRaw writes data as one frame without validation.
func (c *MirrorClient) SendRaw(data []byte) error {
	return c.conn.WriteMessage(data)
}

// Tree returns the mirrored tree, nil before the first frame.
func (c *MirrorClient) Tree() vdom.Item {
	return c.tree
}

// Location returns the URL of the last navigate instruction received.
func (c *MirrorClient) Location() string {
	return c.location
}

// Frames returns the number of frames applied so far.
func (c *MirrorClient) Frames() int {
	return c.frames
}

// Close closes the pipe, which disconnects the session.
func (c *MirrorClient) Close() error {
	return c.conn.Close()
}

// ExpectTree fails the test if the client's mirrored tree differs from want.
func ExpectTree(t testing.TB, c *MirrorClient, want vdom.Item) {
	t.Helper()
	if !vdom.Equal(c.Tree(), want) {
		t.Errorf("mirrored tree mismatch (-want +got):\n%s", cmp.Diff(want, c.Tree()))
	}
}

// ExpectPatches fails the test if got differs from want.
func ExpectPatches(t testing.TB, got, want []vdom.Patch) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("patches mismatch (-want +got):\n%s", diff)
	}
}

// ExpectNoFrame fails the test if a frame arrives before ctx is done.
func ExpectNoFrame(ctx context.Context, t testing.TB, c *MirrorClient) {
	t.Helper()
	msg, err := c.conn.Read(ctx)
	if err == nil {
		t.Errorf("unexpected frame: %s", msg)
	}
}
