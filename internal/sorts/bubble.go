package sorts

import "github.com/san-kum/algoviz/internal/trace"

// BubbleSort is the classic adjacent exchange sort without early exit:
// n-1 passes, each one shorter than the last.
type BubbleSort struct{}

func NewBubbleSort() *BubbleSort { return &BubbleSort{} }

func (b *BubbleSort) Kind() Kind { return Bubble }

func (b *BubbleSort) Info() Info {
	return Info{
		Name:    "Bubble Sort",
		Best:    "O(n)",
		Average: "O(n^2)",
		Worst:   "O(n^2)",
		Space:   "O(1)",
		Stable:  true,
		InPlace: true,
	}
}

func (b *BubbleSort) TimeComplexity() string { return "O(n^2)" }

func (b *BubbleSort) run(r *recorder) {
	n := len(r.arr)
	for pass := 0; pass < n-1; pass++ {
		for j := 0; j < n-pass-1; j++ {
			// strict: equal neighbours never move
			out := r.less(j+1, j)
			r.emit(trace.Compare{I: j, J: j + 1})
			if out {
				r.exchange(j, j+1)
				r.emit(trace.Compare{I: j, J: j + 1, Swapped: true})
			}
		}
	}
}
