package engine

import (
	"errors"
	"time"

	"github.com/san-kum/algoviz/internal/sorts"
	"github.com/san-kum/algoviz/internal/trace"
)

var (
	// ErrNotPaused indicates a step or scrub outside the Paused state.
	ErrNotPaused = errors.New("engine: playback is not paused")

	// ErrFrameOutOfRange indicates a scrub target outside the frame sequence.
	ErrFrameOutOfRange = errors.New("engine: frame index out of range")

	// ErrNothingToResume indicates Continue without preserved frames left to play.
	ErrNothingToResume = errors.New("engine: no preserved frames to resume")

	// ErrNothingToRetry indicates Retry before any Start.
	ErrNothingToRetry = errors.New("engine: no previous input to retry")
)

type State int

const (
	Idle State = iota
	Loading
	Running
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// ViewState is a copy of what the engine currently shows.
// Frames is shared with the engine and must not be modified.
type ViewState struct {
	State           State
	Algorithm       sorts.Kind
	Input           []float64
	Frames          []trace.Frame
	Index           int
	Array           []float64
	Comparisons     int
	Swaps           int
	Highlight       trace.Highlight
	TimeComplexity  string
	ExecutionTimeMs float64
	Error           string
	Warning         string
	Speed           time.Duration
}

// Running reports an active playback, paused or not.
func (v ViewState) Running() bool { return v.State == Running || v.State == Paused }

func (v ViewState) Paused() bool   { return v.State == Paused }
func (v ViewState) Loading() bool  { return v.State == Loading }
func (v ViewState) Finished() bool { return v.State == Finished }
func (v ViewState) Active() bool   { return v.State == Loading || v.Running() }

// Progress is the playback position in [0, 1].
func (v ViewState) Progress() float64 {
	if len(v.Frames) <= 1 {
		if v.State == Finished {
			return 1
		}
		return 0
	}
	return float64(v.Index) / float64(len(v.Frames)-1)
}
