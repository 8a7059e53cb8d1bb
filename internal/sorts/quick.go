package sorts

import "github.com/san-kum/algoviz/internal/trace"

// QuickSort uses the Lomuto partition scheme with the last element of each
// region as pivot, recursing on [l, p-1] and [p+1, r].
//
// An exchange of a slot with itself moves nothing and is neither counted nor
// recorded.
type QuickSort struct{}

func NewQuickSort() *QuickSort { return &QuickSort{} }

func (q *QuickSort) Kind() Kind { return Quick }

func (q *QuickSort) Info() Info {
	return Info{
		Name:    "Quick Sort",
		Best:    "O(n log n)",
		Average: "O(n log n)",
		Worst:   "O(n^2)",
		Space:   "O(log n)",
		Stable:  false,
		InPlace: true,
	}
}

func (q *QuickSort) TimeComplexity() string { return "O(n log n)" }

func (q *QuickSort) run(r *recorder) {
	q.sort(r, 0, len(r.arr)-1)
}

func (q *QuickSort) sort(r *recorder, l, h int) {
	if l >= h {
		return
	}
	p := q.partition(r, l, h)
	q.sort(r, l, p-1)
	q.sort(r, p+1, h)
}

func (q *QuickSort) partition(r *recorder, l, h int) int {
	i := l - 1
	for j := l; j < h; j++ {
		below := r.less(j, h)
		r.emit(trace.Partition{L: l, R: h, Pivot: h, Probe: j, Exchange: trace.NoIndex})
		if !below {
			continue
		}
		i++
		r.exchange(i, j)
		r.emit(trace.Partition{L: l, R: h, Pivot: h, Probe: j, Exchange: i})
	}

	p := i + 1
	r.exchange(p, h)
	r.emit(trace.Partition{L: l, R: h, Pivot: h, Probe: trace.NoIndex, Exchange: p})
	return p
}
