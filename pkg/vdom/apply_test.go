package vdom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApply(t *testing.T) {
	base := View{Children: texts("a", "b", "c")}

	tests := []struct {
		name    string
		prev    Item
		patches []Patch
		want    Item
	}{
		{
			name:    "root replace from nothing",
			prev:    nil,
			patches: []Patch{Replace{Path: Path{}, Item: Text{Text: "hi"}}},
			want:    Text{Text: "hi"},
		},
		{
			name: "several add front keep batch order",
			prev: base,
			patches: []Patch{
				AddFront{Path: Path{}, Item: Text{Text: "x"}},
				AddFront{Path: Path{}, Item: Text{Text: "y"}},
			},
			want: View{Children: texts("x", "y", "a", "b", "c")},
		},
		{
			name: "insert at anchors on old index",
			prev: base,
			patches: []Patch{
				RemoveInx{Path: Path{}, Inx: 0},
				InsertAt{Path: Path{}, Inx: 1, Item: Text{Text: "x"}},
				InsertAt{Path: Path{}, Inx: 1, Item: Text{Text: "y"}},
			},
			want: View{Children: texts("b", "x", "y", "c")},
		},
		{
			name: "insert after removed anchor",
			prev: base,
			patches: []Patch{
				InsertAt{Path: Path{}, Inx: 2, Item: Text{Text: "d"}},
				RemoveInx{Path: Path{}, Inx: 2},
			},
			want: View{Children: texts("a", "b", "d")},
		},
		{
			name: "add back",
			prev: base,
			patches: []Patch{
				AddBack{Path: Path{}, Item: Text{Text: "z"}},
				RemoveInx{Path: Path{}, Inx: 1},
			},
			want: View{Children: texts("a", "c", "z")},
		},
		{
			name: "nested replace after sibling removal",
			prev: View{Children: []Item{Text{Text: "a"}, View{Children: texts("b")}}},
			patches: []Patch{
				RemoveInx{Path: Path{}, Inx: 0},
				Replace{Path: Path{1, 0}, Item: Text{Text: "c"}},
			},
			want: View{Children: []Item{View{Children: texts("c")}}},
		},
		{
			name:    "navigate leaves tree untouched",
			prev:    base,
			patches: []Patch{Navigate{URL: "/next"}},
			want:    base,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.prev, tt.patches)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	prev := View{Children: []Item{View{Children: texts("a")}, Text{Text: "b"}}}
	snapshot := View{Children: []Item{View{Children: texts("a")}, Text{Text: "b"}}}

	_, err := Apply(prev, []Patch{
		Replace{Path: Path{0, 0}, Item: Text{Text: "z"}},
		RemoveInx{Path: Path{}, Inx: 1},
		AddFront{Path: Path{0}, Item: Text{Text: "y"}},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if diff := cmp.Diff(snapshot, prev); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
}

func TestApplyErrors(t *testing.T) {
	base := View{Children: []Item{Text{Text: "a"}, View{}}}

	tests := []struct {
		name    string
		patches []Patch
		wantErr error
		wantIdx int
	}{
		{"path out of range", []Patch{Replace{Path: Path{5}, Item: Text{}}}, ErrInvalidPath, 0},
		{"path through leaf", []Patch{Replace{Path: Path{0, 0}, Item: Text{}}}, ErrInvalidPath, 0},
		{"add to leaf", []Patch{AddBack{Path: Path{0}, Item: Text{}}}, ErrNotView, 0},
		{"remove out of range", []Patch{RemoveInx{Path: Path{1}, Inx: 0}}, ErrIndexOutOfRange, 0},
		{"negative insert", []Patch{
			Navigate{URL: "/"},
			InsertAt{Path: Path{}, Inx: -1, Item: Text{}},
		}, ErrIndexOutOfRange, 1},
		{"nil item", []Patch{AddFront{Path: Path{}}}, ErrNilItem, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(base, tt.patches)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
			}
			var applyErr *ApplyError
			if !errors.As(err, &applyErr) {
				t.Fatalf("Apply() error = %T, want *ApplyError", err)
			}
			if applyErr.Index != tt.wantIdx {
				t.Errorf("ApplyError.Index = %d, want %d", applyErr.Index, tt.wantIdx)
			}
		})
	}
}
