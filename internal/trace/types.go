package trace

import (
	"fmt"
	"slices"
)

// NoIndex marks an optional highlight index that does not apply.
const NoIndex = -1

// Kind names a highlight variant. It is also the wire tag.
type Kind string

const (
	KindNone      Kind = "none"
	KindCompare   Kind = "compare"
	KindMerge     Kind = "merge"
	KindPartition Kind = "partition"
	KindFlash     Kind = "flash"
)

// Highlight describes what a frame draws attention to. The set of variants is
// closed: None, Compare, Merge, Partition and Flash.
type Highlight interface {
	Kind() Kind
	// Contains reports whether index i is inside the highlighted region.
	Contains(i int) bool
	highlight()
}

// None highlights nothing.
type None struct{}

// Compare is an adjacent comparison of I and J. Swapped is set on the frame
// recorded after the two were exchanged.
type Compare struct {
	I, J    int
	Swapped bool
}

// Merge is one element placement while merging [L..M] with [M+1..R].
// ReadLeft/ReadRight hold the source index of the element taken (NoIndex
// when that side was not read) and WriteAt the destination.
type Merge struct {
	L, M, R   int
	ReadLeft  int
	ReadRight int
	WriteAt   int
}

// Partition is a Lomuto step over [L..R] with the pivot at Pivot (always R).
// Probe is the scanned index; Exchange is the index swapped with the probe,
// or with the pivot for the final placement. Both are optional.
type Partition struct {
	L, R     int
	Pivot    int
	Probe    int
	Exchange int
}

// Flash marks [L..R] as sorted.
type Flash struct {
	L, R int
}

func (None) Kind() Kind      { return KindNone }
func (Compare) Kind() Kind   { return KindCompare }
func (Merge) Kind() Kind     { return KindMerge }
func (Partition) Kind() Kind { return KindPartition }
func (Flash) Kind() Kind     { return KindFlash }

func (None) Contains(int) bool        { return false }
func (h Compare) Contains(i int) bool { return i == h.I || i == h.J }
func (h Merge) Contains(i int) bool   { return i >= h.L && i <= h.R }
func (h Partition) Contains(i int) bool {
	return i >= h.L && i <= h.R
}
func (h Flash) Contains(i int) bool { return i >= h.L && i <= h.R }

func (None) highlight()      {}
func (Compare) highlight()   {}
func (Merge) highlight()     {}
func (Partition) highlight() {}
func (Flash) highlight()     {}

func (h Compare) String() string {
	if h.Swapped {
		return fmt.Sprintf("swap(%d,%d)", h.I, h.J)
	}
	return fmt.Sprintf("compare(%d,%d)", h.I, h.J)
}

func (h Merge) String() string {
	return fmt.Sprintf("merge[%d,%d,%d] write=%d", h.L, h.M, h.R, h.WriteAt)
}

func (h Partition) String() string {
	return fmt.Sprintf("partition[%d,%d] pivot=%d probe=%d exchange=%d", h.L, h.R, h.Pivot, h.Probe, h.Exchange)
}

func (h Flash) String() string { return fmt.Sprintf("flash[%d,%d]", h.L, h.R) }
func (None) String() string    { return "none" }

// Frame is an immutable snapshot taken at one observable instant.
type Frame struct {
	Array       []float64
	Comparisons int
	Swaps       int
	Highlight   Highlight
}

// IsExchange reports whether the frame records an exchange of two elements.
func (f Frame) IsExchange() bool {
	switch h := f.Highlight.(type) {
	case Compare:
		return h.Swapped
	case Partition:
		return h.Exchange >= 0
	}
	return false
}

// Equal reports structural equality of array contents and highlight.
// Counters are ignored.
func (f Frame) Equal(other Frame) bool {
	return slices.Equal(f.Array, other.Array) && f.Highlight == other.Highlight
}

// Clone returns a frame with its own copy of Array.
func (f Frame) Clone() Frame {
	f.Array = slices.Clone(f.Array)
	if f.Highlight == nil {
		f.Highlight = None{}
	}
	return f
}

// Trace is the full output of one algorithm run.
type Trace struct {
	Algorithm       string
	Frames          []Frame
	TimeComplexity  string
	ExecutionTimeMs float64
	// Permutation[k] is the input index of the element that ends at position k.
	Permutation []int
}

// Last returns the final frame. Trace must be non-empty.
func (t *Trace) Last() Frame {
	return t.Frames[len(t.Frames)-1]
}

// Validate checks the invariants every consumer relies on.
func (t *Trace) Validate() error {
	if t == nil || len(t.Frames) == 0 {
		return &MalformedError{Frame: -1, Reason: "no frames"}
	}

	n := len(t.Frames[0].Array)
	if n == 0 {
		return &MalformedError{Frame: 0, Reason: "empty array"}
	}

	prev := Frame{}
	for i, f := range t.Frames {
		if len(f.Array) != n {
			return &MalformedError{Frame: i, Reason: fmt.Sprintf("array length %d, want %d", len(f.Array), n)}
		}
		if f.Highlight == nil {
			return &MalformedError{Frame: i, Reason: "missing highlight"}
		}
		if f.Comparisons < 0 || f.Swaps < 0 {
			return &MalformedError{Frame: i, Reason: "negative counter"}
		}
		if i > 0 && (f.Comparisons < prev.Comparisons || f.Swaps < prev.Swaps) {
			return &MalformedError{Frame: i, Reason: "counters decreased"}
		}
		prev = f
	}
	return nil
}
