package vdom

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func texts(ss ...string) []Item {
	out := make([]Item, len(ss))
	for i, s := range ss {
		out[i] = Text{Text: s}
	}
	return out
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		prev Item
		next Item
		want []Patch
	}{
		{
			name: "initial render",
			prev: nil,
			next: View{Children: texts("a")},
			want: []Patch{Replace{Path: Path{}, Item: View{Children: texts("a")}}},
		},
		{
			name: "text change",
			prev: Text{Text: "Hello"},
			next: Text{Text: "Hello World"},
			want: []Patch{Replace{Path: Path{}, Item: Text{Text: "Hello World"}}},
		},
		{
			name: "add front",
			prev: View{Children: texts("1", "2", "3")},
			next: View{Children: texts("0", "1", "2", "3")},
			want: []Patch{AddFront{Path: Path{}, Item: Text{Text: "0"}}},
		},
		{
			name: "remove middle",
			prev: View{Children: texts("1", "2", "3")},
			next: View{Children: texts("1", "3")},
			want: []Patch{RemoveInx{Path: Path{}, Inx: 1}},
		},
		{
			name: "insert back",
			prev: View{Children: texts("1", "2", "3")},
			next: View{Children: texts("1", "2", "3", "4")},
			want: []Patch{InsertAt{Path: Path{}, Inx: 2, Item: Text{Text: "4"}}},
		},
		{
			name: "kind change",
			prev: Button{ID: "b", Name: "go", Title: "Go"},
			next: Text{Text: "Hello"},
			want: []Patch{Replace{Path: Path{}, Item: Text{Text: "Hello"}}},
		},
		{
			name: "view to leaf",
			prev: View{Children: texts("1")},
			next: Text{Text: "1"},
			want: []Patch{Replace{Path: Path{}, Item: Text{Text: "1"}}},
		},
		{
			name: "nested replace",
			prev: View{Children: []Item{View{Children: texts("a")}}},
			next: View{Children: []Item{View{Children: texts("b")}}},
			want: []Patch{Replace{Path: Path{0, 0}, Item: Text{Text: "b"}}},
		},
		{
			name: "nested replace second child",
			prev: View{Children: []Item{Text{Text: "x"}, View{Children: texts("a", "b")}}},
			next: View{Children: []Item{Text{Text: "x"}, View{Children: texts("a", "c")}}},
			want: []Patch{Replace{Path: Path{1, 1}, Item: Text{Text: "c"}}},
		},
		{
			name: "checkbox toggled",
			prev: View{Children: []Item{Checkbox{ID: "1", Name: "done"}}},
			next: View{Children: []Item{Checkbox{ID: "1", Name: "done", Checked: true}}},
			want: []Patch{Replace{Path: Path{0}, Item: Checkbox{ID: "1", Name: "done", Checked: true}}},
		},
		{
			name: "to empty view",
			prev: View{Children: texts("1", "2")},
			next: View{},
			want: []Patch{RemoveInx{Path: Path{}, Inx: 0}, RemoveInx{Path: Path{}, Inx: 1}},
		},
		{
			name: "equal trees",
			prev: View{Children: []Item{Text{Text: "1"}, TextInput{ID: "i", Value: "v"}}},
			next: View{Children: []Item{Text{Text: "1"}, TextInput{ID: "i", Value: "v"}}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.prev, tt.next)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}

			applied, err := Apply(tt.prev, got)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if !Equal(applied, tt.next) {
				t.Errorf("Apply(prev, Diff(prev, next)) = %#v, want %#v", applied, tt.next)
			}
		})
	}
}

func TestDiffIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		tree := randomTree(r, 3)
		if patches := Diff(tree, tree); len(patches) != 0 {
			t.Fatalf("Diff(x, x) = %v, want no patches", patches)
		}
	}
}

func TestDiffRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		prev := randomTree(r, 3)
		next := randomTree(r, 3)
		if r.Intn(4) == 0 {
			next = mutate(r, prev)
		}

		patches := Diff(prev, next)
		got, err := Apply(prev, patches)
		if err != nil {
			t.Fatalf("iteration %d: Apply() error = %v", i, err)
		}
		if !Equal(got, next) {
			t.Fatalf("iteration %d: round trip mismatch\nprev: %#v\nnext: %#v\ngot:  %#v\npatches: %#v",
				i, prev, next, got, patches)
		}
	}
}

func TestDiffDoesNotAliasPaths(t *testing.T) {
	prev := View{Children: []Item{
		View{Children: texts("a", "b")},
		View{Children: texts("c", "d")},
	}}
	next := View{Children: []Item{
		View{Children: texts("x", "b")},
		View{Children: texts("c", "y")},
	}}

	patches := Diff(prev, next)
	want := []Patch{
		Replace{Path: Path{0, 0}, Item: Text{Text: "x"}},
		Replace{Path: Path{1, 1}, Item: Text{Text: "y"}},
	}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}
}

// randomTree builds a small tree from a narrow alphabet so that siblings
// collide often.
func randomTree(r *rand.Rand, depth int) Item {
	if depth == 0 || r.Intn(3) == 0 {
		switch r.Intn(4) {
		case 0:
			return Button{ID: string(rune('a' + r.Intn(3))), Title: "t"}
		case 1:
			return Checkbox{ID: "c", Checked: r.Intn(2) == 0}
		default:
			return Text{Text: string(rune('a' + r.Intn(4)))}
		}
	}
	n := r.Intn(6)
	children := make([]Item, n)
	for i := range children {
		children[i] = randomTree(r, depth-1)
	}
	return View{Children: children}
}

// mutate returns a copy of item with one random local change.
func mutate(r *rand.Rand, item Item) Item {
	v, ok := item.(View)
	if !ok || len(v.Children) == 0 {
		return randomTree(r, 1)
	}
	children := append([]Item(nil), v.Children...)
	i := r.Intn(len(children))
	switch r.Intn(3) {
	case 0:
		children[i] = mutate(r, children[i])
	case 1:
		children = append(children[:i], children[i+1:]...)
	default:
		children = append(children[:i], append([]Item{randomTree(r, 1)}, children[i:]...)...)
	}
	return View{Children: children}
}
