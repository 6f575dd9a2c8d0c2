package main

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vango-dev/monolith/pkg/protocol"
	"github.com/vango-dev/monolith/pkg/server"
	"github.com/vango-dev/monolith/pkg/vdom"
)

// Filters accepted in the "filter" query parameter.
const (
	filterAll    = "all"
	filterActive = "active"
	filterDone   = "done"
)

// Element ids and names used by the todo view.
const (
	idNewTodo = "new"

	nameToggle = "toggle"
	nameDelete = "delete"
	nameFilter = "filter"
	nameClear  = "clear"

	keyEnter = "Enter"
)

type todo struct {
	id    int
	title string
	done  bool
}

// todoList is the state of one session. It is only touched by the app loop.
type todoList struct {
	items  []todo
	nextID int
	draft  string
	filter string
}

func newTodoList() *todoList {
	return &todoList{nextID: 1, filter: filterAll}
}

func (l *todoList) add(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	l.items = append(l.items, todo{id: l.nextID, title: title})
	l.nextID++
	return true
}

func (l *todoList) index(id int) int {
	for i, t := range l.items {
		if t.id == id {
			return i
		}
	}
	return -1
}

func (l *todoList) toggle(id int) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.items[i].done = !l.items[i].done
	return true
}

func (l *todoList) remove(id int) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}

func (l *todoList) clearDone() {
	kept := l.items[:0]
	for _, t := range l.items {
		if !t.done {
			kept = append(kept, t)
		}
	}
	l.items = kept
}

func (l *todoList) setFilter(f string) bool {
	switch f {
	case filterAll, filterActive, filterDone:
		l.filter = f
		return true
	}
	return false
}

func (l *todoList) visible() []todo {
	var out []todo
	for _, t := range l.items {
		switch {
		case l.filter == filterActive && t.done:
		case l.filter == filterDone && !t.done:
		default:
			out = append(out, t)
		}
	}
	return out
}

func (l *todoList) remaining() int {
	n := 0
	for _, t := range l.items {
		if !t.done {
			n++
		}
	}
	return n
}

// view renders the whole page. Rows are identified by the todo id so the
// differ only touches rows that changed.
func (l *todoList) view() vdom.View {
	rows := vdom.Map(l.visible(), func(_ int, t todo) vdom.Item {
		id := strconv.Itoa(t.id)
		return vdom.NewView(
			vdom.Checkbox{ID: id, Name: nameToggle, Checked: t.done},
			t.title,
			vdom.Button{ID: id, Name: nameDelete, Title: "×"},
		)
	})

	left := "items left"
	if l.remaining() == 1 {
		left = "item left"
	}

	filters := make([]vdom.Item, 0, 3)
	for _, f := range []string{filterAll, filterActive, filterDone} {
		title := f
		if f == l.filter {
			title = "[" + f + "]"
		}
		filters = append(filters, vdom.Button{ID: f, Name: nameFilter, Title: title})
	}

	var clearButton vdom.Item
	if len(l.items) > l.remaining() {
		clearButton = vdom.Button{ID: nameClear, Name: nameClear, Title: "Clear completed"}
	}

	return vdom.NewView(
		vdom.Text{Text: "todos"},
		vdom.TextInput{ID: idNewTodo, Name: idNewTodo, Placeholder: "What needs to be done?", Value: l.draft},
		vdom.View{Children: rows},
		vdom.NewView(
			vdom.Textf("%d %s", l.remaining(), left),
			filters,
			clearButton,
		),
	)
}

// update applies ev to the list. It returns whether the view must be
// rendered again and, for filter changes, the location to navigate to.
func (l *todoList) update(ev protocol.Event) (render bool, location string) {
	switch ev := ev.(type) {
	case protocol.ParametersChanged:
		if f, ok := ev.Query["filter"]; ok {
			l.setFilter(f)
		}
		return true, ""

	case protocol.OnTextChanged:
		if ev.ID == idNewTodo {
			l.draft = ev.Value
		}
		// The client already shows what was typed.
		return false, ""

	case protocol.OnKeyDown:
		if ev.ID != idNewTodo || ev.Keycode != keyEnter {
			return false, ""
		}
		if !l.add(l.draft) {
			return false, ""
		}
		l.draft = ""
		return true, ""

	case protocol.OnClick:
		switch ev.Name {
		case nameToggle, nameDelete:
			id, err := strconv.Atoi(ev.ID)
			if err != nil {
				return false, ""
			}
			if ev.Name == nameToggle {
				return l.toggle(id), ""
			}
			return l.remove(id), ""
		case nameFilter:
			if l.filter == ev.ID || !l.setFilter(ev.ID) {
				return false, ""
			}
			return true, "/?filter=" + ev.ID
		case nameClear:
			l.clearDone()
			return true, ""
		}
	}
	return false, ""
}

// todoApp drives every session of the demo from a single loop on
// Dispatcher.Next.
type todoApp struct {
	d      *server.Dispatcher
	logger *slog.Logger
	lists  map[uint64]*todoList
}

func newTodoApp(d *server.Dispatcher, logger *slog.Logger) *todoApp {
	return &todoApp{
		d:      d,
		logger: logger.With("component", "todo"),
		lists:  make(map[uint64]*todoList),
	}
}

// Run handles events until ctx is done or the dispatcher is closed.
func (a *todoApp) Run(ctx context.Context) error {
	for {
		w, ev, err := a.d.Next(ctx)
		if err != nil {
			if errors.Is(err, server.ErrDispatcherClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		a.handle(w, ev)
	}
}

func (a *todoApp) handle(w *server.Writer, ev protocol.Event) {
	if _, ok := ev.(protocol.Disconnected); ok {
		delete(a.lists, w.ID())
		a.logger.Debug("session gone", "session_id", w.ID(), "sessions", len(a.lists))
		return
	}

	l, ok := a.lists[w.ID()]
	if !ok {
		l = newTodoList()
		a.lists[w.ID()] = l
	}

	render, location := l.update(ev)
	if location != "" {
		if err := w.Navigate(location); err != nil {
			a.logger.Debug("navigate", "session_id", w.ID(), "error", err)
			return
		}
	}
	if render {
		if err := w.Render(l.view()); err != nil {
			a.logger.Debug("render", "session_id", w.ID(), "error", err)
		}
	}
}
