package vtest_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/vango-dev/monolith/pkg/protocol"
	"github.com/vango-dev/monolith/pkg/vdom"
	"github.com/vango-dev/monolith/pkg/vtest"
)

func TestPipeOrder(t *testing.T) {
	a, b := vtest.Pipe()

	for _, m := range []string{"1", "2", "3"} {
		if err := a.WriteMessage([]byte(m)); err != nil {
			t.Fatalf("WriteMessage(%s) error = %v", m, err)
		}
	}
	a.Close()

	for _, want := range []string{"1", "2", "3"} {
		got, err := b.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		if string(got) != want {
			t.Errorf("ReadMessage() = %s, want %s", got, want)
		}
	}

	if _, err := b.ReadMessage(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadMessage() after drain error = %v, want io.EOF", err)
	}
	if err := b.WriteMessage([]byte("x")); !errors.Is(err, vtest.ErrClosed) {
		t.Errorf("WriteMessage() after close error = %v, want ErrClosed", err)
	}
}

func TestPipeCopiesMessages(t *testing.T) {
	a, b := vtest.Pipe()
	buf := []byte("abc")
	a.WriteMessage(buf)
	buf[0] = 'z'

	got, _ := b.ReadMessage()
	if string(got) != "abc" {
		t.Errorf("ReadMessage() = %s, want abc", got)
	}
}

func TestPipeReadContext(t *testing.T) {
	_, b := vtest.Pipe()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := b.Read(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Read() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestMirrorClient(t *testing.T) {
	serverEnd, clientEnd := vtest.Pipe()
	client := vtest.NewMirrorClient(clientEnd)
	ctx := context.Background()

	first := vdom.View{Children: []vdom.Item{vdom.Text{Text: "1"}, vdom.Text{Text: "2"}}}
	second := vdom.View{Children: []vdom.Item{vdom.Text{Text: "0"}, vdom.Text{Text: "1"}}}

	for _, patches := range [][]vdom.Patch{
		vdom.Diff(nil, first),
		vdom.Diff(first, second),
		{vdom.Navigate{URL: "/done"}},
	} {
		frame, err := protocol.EncodePatches(patches)
		if err != nil {
			t.Fatalf("EncodePatches() error = %v", err)
		}
		serverEnd.WriteMessage(frame)
	}

	if _, err := client.Next(ctx); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	vtest.ExpectTree(t, client, first)

	patches, err := client.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	vtest.ExpectPatches(t, patches, vdom.Diff(first, second))
	vtest.ExpectTree(t, client, second)

	if _, err := client.Next(ctx); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if client.Location() != "/done" {
		t.Errorf("Location() = %q, want /done", client.Location())
	}
	vtest.ExpectTree(t, client, second)
	if client.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", client.Frames())
	}
}

func TestMirrorClientSend(t *testing.T) {
	serverEnd, clientEnd := vtest.Pipe()
	client := vtest.NewMirrorClient(clientEnd)

	if err := client.Send(protocol.OnClick{ID: "1", Name: "x"}, protocol.OnKeyDown{ID: "2", Keycode: "Enter"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	msg, err := serverEnd.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	events, err := protocol.DecodeEvents(msg)
	if err != nil {
		t.Fatalf("DecodeEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if _, ok := events[1].(protocol.OnKeyDown); !ok {
		t.Errorf("events[1] = %T, want OnKeyDown", events[1])
	}
}

func TestMirrorClientRejectsBadFrame(t *testing.T) {
	serverEnd, clientEnd := vtest.Pipe()
	client := vtest.NewMirrorClient(clientEnd)

	serverEnd.WriteMessage([]byte(`[{"type":"removeInx","path":[],"inx":0}]`))
	if _, err := client.Next(context.Background()); !errors.Is(err, vdom.ErrInvalidPath) && !errors.Is(err, vdom.ErrNotView) {
		t.Errorf("Next() error = %v, want an apply error", err)
	}
}
