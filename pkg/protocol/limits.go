package protocol

// Decoding limits. They bound the work a single inbound frame can cause.
const (
	// MaxItemDepth limits the nesting depth of decoded Item trees.
	MaxItemDepth = 256

	// MaxFrameElements limits the number of top-level elements plus nested
	// items in one frame.
	MaxFrameElements = 4096
)

// Limits allows configuring custom decoding limits.
// Use DefaultLimits() for sensible defaults.
type Limits struct {
	// ItemDepth is the maximum Item tree depth.
	ItemDepth int

	// FrameElements is the maximum number of elements in a frame.
	FrameElements int
}

// DefaultLimits returns the default decoding limits.
func DefaultLimits() *Limits {
	return &Limits{
		ItemDepth:     MaxItemDepth,
		FrameElements: MaxFrameElements,
	}
}

// normalize fills zero fields with defaults.
func (l *Limits) normalize() *Limits {
	if l == nil {
		return DefaultLimits()
	}
	out := *l
	if out.ItemDepth <= 0 {
		out.ItemDepth = MaxItemDepth
	}
	if out.FrameElements <= 0 {
		out.FrameElements = MaxFrameElements
	}
	return &out
}

// budget tracks depth and element usage while one frame is decoded.
type budget struct {
	depth    int
	maxDepth int
	elements int
	maxElems int
}

func newBudget(l *Limits) *budget {
	l = l.normalize()
	return &budget{maxDepth: l.ItemDepth, maxElems: l.FrameElements}
}

// enter increments the depth and returns an error if the limit would be
// exceeded. The depth is only incremented on success.
func (b *budget) enter() error {
	if b.depth >= b.maxDepth {
		return ErrMaxDepthExceeded
	}
	b.depth++
	return nil
}

// leave decrements the depth.
func (b *budget) leave() {
	b.depth--
}

// take accounts for n more elements.
func (b *budget) take(n int) error {
	b.elements += n
	if b.elements > b.maxElems {
		return ErrTooManyElements
	}
	return nil
}
