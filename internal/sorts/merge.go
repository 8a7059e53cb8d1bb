package sorts

import (
	"slices"

	"github.com/san-kum/algoviz/internal/trace"
)

// MergeSort is top-down recursive merge sort. It records no swaps.
//
// While merging, the region [l..r] always reads as placed ++ left-rest ++
// right-rest, so every frame holds a permutation of the input.
type MergeSort struct{}

func NewMergeSort() *MergeSort { return &MergeSort{} }

func (m *MergeSort) Kind() Kind { return Merge }

func (m *MergeSort) Info() Info {
	return Info{
		Name:    "Merge Sort",
		Best:    "O(n log n)",
		Average: "O(n log n)",
		Worst:   "O(n log n)",
		Space:   "O(n)",
		Stable:  true,
		InPlace: false,
	}
}

func (m *MergeSort) TimeComplexity() string { return "O(n log n)" }

func (m *MergeSort) run(r *recorder) {
	m.sort(r, 0, len(r.arr)-1)
}

func (m *MergeSort) sort(r *recorder, l, h int) {
	if l >= h {
		return
	}
	mid := (l + h) / 2
	m.sort(r, l, mid)
	m.sort(r, mid+1, h)
	m.merge(r, l, mid, h)
}

func (m *MergeSort) merge(r *recorder, l, mid, h int) {
	left := slices.Clone(r.arr[l : mid+1])
	right := slices.Clone(r.arr[mid+1 : h+1])
	leftOrigin := slices.Clone(r.origin[l : mid+1])
	rightOrigin := slices.Clone(r.origin[mid+1 : h+1])

	i, j, k := 0, 0, l

	place := func(fromLeft bool) {
		readLeft, readRight := trace.NoIndex, trace.NoIndex
		if fromLeft {
			r.arr[k], r.origin[k] = left[i], leftOrigin[i]
			readLeft = l + i
			i++
		} else {
			r.arr[k], r.origin[k] = right[j], rightOrigin[j]
			readRight = mid + 1 + j
			j++
		}
		k++

		rest := k
		rest += copy(r.arr[rest:], left[i:])
		copy(r.origin[k:], leftOrigin[i:])
		copy(r.arr[rest:h+1], right[j:])
		copy(r.origin[rest:h+1], rightOrigin[j:])

		r.emit(trace.Merge{
			L:         l,
			M:         mid,
			R:         h,
			ReadLeft:  readLeft,
			ReadRight: readRight,
			WriteAt:   k - 1,
		})
	}

	for i < len(left) && j < len(right) {
		r.comparisons++
		// left wins ties
		place(!(right[j] < left[i]))
	}
	for i < len(left) {
		place(true)
	}
	for j < len(right) {
		place(false)
	}
}
