package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/monolith/pkg/protocol"
	"github.com/vango-dev/monolith/pkg/server"
	"github.com/vango-dev/monolith/pkg/vdom"
	"github.com/vango-dev/monolith/pkg/vtest"
)

func titles(todos []todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.title
	}
	return out
}

func TestTodoList(t *testing.T) {
	l := newTodoList()
	if l.add("   ") {
		t.Error("add(blank) = true")
	}
	l.add("milk")
	l.add(" eggs ")
	l.add("bread")

	if !l.toggle(2) {
		t.Fatal("toggle(2) = false")
	}
	if l.toggle(42) || l.remove(42) {
		t.Error("unknown id reported as changed")
	}

	tests := []struct {
		filter string
		want   []string
	}{
		{filterAll, []string{"milk", "eggs", "bread"}},
		{filterActive, []string{"milk", "bread"}},
		{filterDone, []string{"eggs"}},
	}
	for _, tt := range tests {
		if !l.setFilter(tt.filter) {
			t.Fatalf("setFilter(%q) = false", tt.filter)
		}
		if diff := cmp.Diff(tt.want, titles(l.visible())); diff != "" {
			t.Errorf("visible(%s) mismatch (-want +got):\n%s", tt.filter, diff)
		}
	}
	if l.setFilter("bogus") || l.filter != filterDone {
		t.Error("setFilter(bogus) changed the filter")
	}

	if l.remaining() != 2 {
		t.Errorf("remaining() = %d, want 2", l.remaining())
	}
	l.clearDone()
	l.remove(1)
	l.setFilter(filterAll)
	if diff := cmp.Diff([]string{"bread"}, titles(l.visible())); diff != "" {
		t.Errorf("after clear and remove (-want +got):\n%s", diff)
	}
}

func TestTodoUpdate(t *testing.T) {
	l := newTodoList()

	steps := []struct {
		name         string
		event        protocol.Event
		wantRender   bool
		wantLocation string
	}{
		{"load", protocol.ParametersChanged{Query: map[string]string{"filter": "active"}}, true, ""},
		{"type", protocol.OnTextChanged{ID: idNewTodo, Value: "milk"}, false, ""},
		{"other key", protocol.OnKeyDown{ID: idNewTodo, Keycode: "a"}, false, ""},
		{"enter", protocol.OnKeyDown{ID: idNewTodo, Keycode: keyEnter}, true, ""},
		{"enter on empty draft", protocol.OnKeyDown{ID: idNewTodo, Keycode: keyEnter}, false, ""},
		{"toggle", protocol.OnClick{ID: "1", Name: nameToggle}, true, ""},
		{"toggle bad id", protocol.OnClick{ID: "x", Name: nameToggle}, false, ""},
		{"same filter", protocol.OnClick{ID: filterActive, Name: nameFilter}, false, ""},
		{"filter", protocol.OnClick{ID: filterDone, Name: nameFilter}, true, "/?filter=done"},
		{"clear", protocol.OnClick{ID: nameClear, Name: nameClear}, true, ""},
		{"unknown click", protocol.OnClick{ID: "1", Name: "zap"}, false, ""},
	}

	for _, s := range steps {
		render, location := l.update(s.event)
		if render != s.wantRender || location != s.wantLocation {
			t.Errorf("%s: update() = %v, %q; want %v, %q", s.name, render, location, s.wantRender, s.wantLocation)
		}
	}

	if len(l.items) != 0 {
		t.Errorf("items = %v, want none after clear", l.items)
	}
	if l.draft != "" {
		t.Errorf("draft = %q, want cleared", l.draft)
	}
}

func TestTodoView(t *testing.T) {
	l := newTodoList()
	l.add("milk")
	l.add("eggs")
	l.toggle(1)

	want := vdom.View{Children: []vdom.Item{
		vdom.Text{Text: "todos"},
		vdom.TextInput{ID: "new", Name: "new", Placeholder: "What needs to be done?"},
		vdom.View{Children: []vdom.Item{
			vdom.View{Children: []vdom.Item{
				vdom.Checkbox{ID: "1", Name: "toggle", Checked: true},
				vdom.Text{Text: "milk"},
				vdom.Button{ID: "1", Name: "delete", Title: "×"},
			}},
			vdom.View{Children: []vdom.Item{
				vdom.Checkbox{ID: "2", Name: "toggle"},
				vdom.Text{Text: "eggs"},
				vdom.Button{ID: "2", Name: "delete", Title: "×"},
			}},
		}},
		vdom.View{Children: []vdom.Item{
			vdom.Text{Text: "1 item left"},
			vdom.Button{ID: "all", Name: "filter", Title: "[all]"},
			vdom.Button{ID: "active", Name: "filter", Title: "active"},
			vdom.Button{ID: "done", Name: "filter", Title: "done"},
			vdom.Button{ID: "clear", Name: "clear", Title: "Clear completed"},
		}},
	}}

	if diff := cmp.Diff(want, l.view()); diff != "" {
		t.Errorf("view() mismatch (-want +got):\n%s", diff)
	}
}

func TestTodoViewDeleteIsMinimal(t *testing.T) {
	l := newTodoList()
	l.add("a")
	l.add("b")
	l.add("c")
	before := l.view()

	l.remove(2)
	patches := vdom.Diff(before, l.view())

	want := []vdom.Patch{
		vdom.RemoveInx{Path: vdom.Path{2}, Inx: 1},
		vdom.Replace{Path: vdom.Path{3, 0}, Item: vdom.Text{Text: "2 items left"}},
	}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}
}

func TestTodoApp(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := server.NewDispatcher(nil, server.WithLogger(logger))
	defer d.Close()

	app := newTodoApp(d, logger)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	serverEnd, clientEnd := vtest.Pipe()
	if _, err := d.Accept(serverEnd); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	client := vtest.NewMirrorClient(clientEnd)

	next := func() {
		t.Helper()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := client.Next(ctx); err != nil {
			t.Fatalf("client.Next() error = %v", err)
		}
	}

	client.Send(protocol.ParametersChanged{})
	next()

	client.Send(
		protocol.OnTextChanged{ID: idNewTodo, Value: "milk"},
		protocol.OnKeyDown{ID: idNewTodo, Keycode: keyEnter},
	)
	next()

	want := newTodoList()
	want.add("milk")
	vtest.ExpectTree(t, client, want.view())

	client.Send(protocol.OnClick{ID: filterDone, Name: nameFilter})
	next()
	next()
	if client.Location() != "/?filter=done" {
		t.Errorf("Location() = %q, want /?filter=done", client.Location())
	}
	want.setFilter(filterDone)
	vtest.ExpectTree(t, client, want.view())

	client.Close()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
