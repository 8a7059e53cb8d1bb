package sorts

import (
	"slices"

	"github.com/san-kum/algoviz/internal/trace"
)

// recorder owns the working array during a run and snapshots it into frames.
// origin tracks which input position each slot currently holds.
type recorder struct {
	arr         []float64
	origin      []int
	comparisons int
	swaps       int
	frames      []trace.Frame
}

func newRecorder(input []float64) *recorder {
	origin := make([]int, len(input))
	for i := range origin {
		origin[i] = i
	}
	r := &recorder{
		arr:    slices.Clone(input),
		origin: origin,
		frames: make([]trace.Frame, 0, 4*len(input)+1),
	}
	r.emit(trace.None{})
	return r
}

func (r *recorder) emit(h trace.Highlight) {
	r.frames = append(r.frames, trace.Frame{
		Array:       slices.Clone(r.arr),
		Comparisons: r.comparisons,
		Swaps:       r.swaps,
		Highlight:   h,
	})
}

// less counts one comparison and reports a[i] < a[j].
func (r *recorder) less(i, j int) bool {
	r.comparisons++
	return r.arr[i] < r.arr[j]
}

// exchange swaps two slots and counts it.
func (r *recorder) exchange(i, j int) {
	r.arr[i], r.arr[j] = r.arr[j], r.arr[i]
	r.origin[i], r.origin[j] = r.origin[j], r.origin[i]
	r.swaps++
}
