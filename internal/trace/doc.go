// Package trace defines the replayable record of a sorting run.
//
// A [Trace] is an ordered, non-empty sequence of [Frame] values, each a full
// snapshot of the working array plus its running counters and a [Highlight]
// describing what the algorithm was looking at:
//
//   - [None]: nothing in particular (initial frame)
//   - [Compare]: adjacent comparison, optionally followed by an exchange
//   - [Merge]: element placed during a merge of [L..M] and [M+1..R]
//   - [Partition]: Lomuto probe or exchange inside [L..R]
//   - [Flash]: terminal "sorted" flash applied by the player
//
// Frames are immutable once produced. Consumers copy Array before touching it.
//
// # Example
//
//	tr, _ := sorts.Generate([]float64{5, 3, 4, 1, 2}, sorts.Bubble, 200)
//	res := trace.Optimize(tr.Frames, trace.DefaultMaxFrames)
//	for _, f := range res.Frames {
//		fmt.Println(f.Array, f.Highlight)
//	}
package trace
