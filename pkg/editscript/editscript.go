// Package editscript computes minimum edit scripts between two sequences.
//
// The solver fills a Wagner–Fischer table whose recurrence only counts
// insertions and removals. Substitutions are discovered while walking the
// table back from the bottom-right corner, which lets callers treat a
// replaced element as "the same slot, different content" and recurse into
// it instead of removing and re-inserting it.
//
// All indices in a script refer to positions in the old sequence:
//
//	InsertFirst(x)   x goes before old[0]
//	InsertAt(i, x)   x goes right after old[i]
//	RemoveAt(i)      old[i] is dropped
//	ReplaceAt(i, x)  old[i] becomes x
//
// Several inserts with the same anchor keep their script order.
package editscript

// OpKind is the type of an edit operation.
type OpKind uint8

const (
	InsertFirst OpKind = iota + 1 // Insert before the first old element
	InsertAt                      // Insert after old element Index
	RemoveAt                      // Remove old element Index
	ReplaceAt                     // Replace old element Index with Item
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case InsertFirst:
		return "InsertFirst"
	case InsertAt:
		return "InsertAt"
	case RemoveAt:
		return "RemoveAt"
	case ReplaceAt:
		return "ReplaceAt"
	default:
		return "Unknown"
	}
}

// Op is a single edit operation.
// Index is unused for InsertFirst and Item is unused for RemoveAt.
type Op[T any] struct {
	Kind  OpKind
	Index int
	Item  T
}

// Compute returns the edit script turning old into new for comparable
// element types.
func Compute[T comparable](old, new []T) []Op[T] {
	return ComputeFunc(old, new, func(a, b T) bool { return a == b })
}

// ComputeFunc returns the edit script turning old into new, using eq to
// compare elements. The result is ordered by ascending old index.
func ComputeFunc[T any](old, new []T, eq func(a, b T) bool) []Op[T] {
	m, n := len(old), len(new)

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
		dp[i][0] = i
	}
	for j := 0; j <= n; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if eq(old[i-1], new[j-1]) {
				dp[i][j] = dp[i-1][j-1]
			} else {
				dp[i][j] = min(dp[i-1][j], dp[i][j-1]) + 1
			}
		}
	}

	var ops []Op[T]
	i, j := m, n
	for i > 0 || j > 0 {
		switch {
		case i == 0:
			ops = append(ops, Op[T]{Kind: InsertFirst, Item: new[j-1]})
			j--
			continue
		case j == 0:
			ops = append(ops, Op[T]{Kind: RemoveAt, Index: i - 1})
			i--
			continue
		case eq(old[i-1], new[j-1]):
			i--
			j--
			continue
		}

		diag := dp[i-1][j-1]
		top := dp[i-1][j]
		left := dp[i][j-1]

		switch {
		case diag < top && diag < left:
			ops = append(ops, Op[T]{Kind: ReplaceAt, Index: i - 1, Item: new[j-1]})
			i--
			j--
		case top < left:
			ops = append(ops, Op[T]{Kind: RemoveAt, Index: i - 1})
			i--
		default:
			ops = append(ops, Op[T]{Kind: InsertAt, Index: i - 1, Item: new[j-1]})
			j--
		}
	}

	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	return ops
}

// Apply applies a script produced by Compute or ComputeFunc to old and
// returns the resulting sequence. old is not modified. Operations whose
// index falls outside old are ignored.
func Apply[T any](old []T, ops []Op[T]) []T {
	type slot struct {
		item    T
		removed bool
		after   []T
	}

	var front []T
	slots := make([]slot, len(old))
	for i, v := range old {
		slots[i].item = v
	}

	for _, op := range ops {
		if op.Kind != InsertFirst && (op.Index < 0 || op.Index >= len(slots)) {
			continue
		}
		switch op.Kind {
		case InsertFirst:
			front = append(front, op.Item)
		case InsertAt:
			slots[op.Index].after = append(slots[op.Index].after, op.Item)
		case RemoveAt:
			slots[op.Index].removed = true
		case ReplaceAt:
			slots[op.Index].item = op.Item
		}
	}

	out := make([]T, 0, len(front)+len(old))
	out = append(out, front...)
	for _, s := range slots {
		if !s.removed {
			out = append(out, s.item)
		}
		out = append(out, s.after...)
	}
	return out
}
