package trace

// DefaultMaxFrames caps the number of frames handed to a player.
const DefaultMaxFrames = 5000

// OptimizeResult is the playback-ready frame sequence.
type OptimizeResult struct {
	Frames []Frame
	// Dropped counts consecutive duplicates that were collapsed, including
	// those past the cap.
	Dropped int
	// Cut counts distinct frames removed by the cap.
	Cut int
	// Truncated is set when the cap cut the sequence short.
	Truncated bool
	// Raw is the input length. Raw == len(Frames) + Dropped + Cut.
	Raw int
}

// Optimize collapses consecutive frames with identical array contents and
// highlight, keeping the first occurrence, then caps the result at maxFrames.
// A non-positive maxFrames disables the cap. The input is not modified and the
// returned frames share their arrays with it.
func Optimize(frames []Frame, maxFrames int) OptimizeResult {
	res := OptimizeResult{Raw: len(frames)}
	if len(frames) == 0 {
		return res
	}

	out := make([]Frame, 0, min(len(frames), capHint(maxFrames, len(frames))))
	for i, f := range frames {
		if i > 0 && f.Equal(frames[i-1]) {
			res.Dropped++
			continue
		}
		if maxFrames > 0 && len(out) >= maxFrames {
			res.Truncated = true
			res.Cut++
			continue
		}
		out = append(out, f)
	}
	res.Frames = out
	return res
}

func capHint(maxFrames, n int) int {
	if maxFrames <= 0 {
		return n
	}
	return maxFrames
}
