package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/sorts"
	"github.com/san-kum/algoviz/internal/trace"
)

// Runner fetches a trace for input. Implementations must return promptly
// once ctx is canceled.
type Runner interface {
	RunTrace(ctx context.Context, input []float64, kind sorts.Kind) (*trace.Trace, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, input []float64, kind sorts.Kind) (*trace.Trace, error)

func (f RunnerFunc) RunTrace(ctx context.Context, input []float64, kind sorts.Kind) (*trace.Trace, error) {
	return f(ctx, input, kind)
}

const (
	DefaultSpeed          = 50 * time.Millisecond
	DefaultMinSpeed       = 10 * time.Millisecond
	DefaultMaxSpeed       = 200 * time.Millisecond
	DefaultMinDelay       = 10 * time.Millisecond
	DefaultSwapMultiplier = 2.0
	DefaultFlashDuration  = 500 * time.Millisecond
)

type Options struct {
	Name           string
	Algorithm      sorts.Kind
	Speed          time.Duration
	MinSpeed       time.Duration
	MaxSpeed       time.Duration
	MinDelay       time.Duration
	SwapMultiplier float64
	FlashDuration  time.Duration
	MaxFrames      int
	Logger         *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Name:           "primary",
		Algorithm:      sorts.Bubble,
		Speed:          DefaultSpeed,
		MinSpeed:       DefaultMinSpeed,
		MaxSpeed:       DefaultMaxSpeed,
		MinDelay:       DefaultMinDelay,
		SwapMultiplier: DefaultSwapMultiplier,
		FlashDuration:  DefaultFlashDuration,
		MaxFrames:      trace.DefaultMaxFrames,
	}
}

type Engine struct {
	runner Runner
	opts   Options
	log    *slog.Logger

	mu      sync.Mutex
	view    ViewState
	cursor  int
	session uint64
	cancel  context.CancelFunc
	resume  chan struct{}
	done    chan struct{}
	last    []float64
}

func New(runner Runner, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Algorithm == "" {
		opts.Algorithm = sorts.Bubble
	}
	if opts.MaxSpeed > 0 && opts.MaxSpeed < opts.MinSpeed {
		opts.MaxSpeed = opts.MinSpeed
	}

	done := make(chan struct{})
	close(done)

	e := &Engine{
		runner: runner,
		opts:   opts,
		log:    opts.Logger.With("engine", opts.Name),
		cursor: -1,
		done:   done,
	}
	e.view = ViewState{
		State:     Idle,
		Algorithm: opts.Algorithm,
		Highlight: trace.None{},
		Speed:     e.clampSpeed(opts.Speed),
	}
	return e
}

func (e *Engine) Name() string { return e.opts.Name }

// Snapshot returns a copy of the current view.
func (e *Engine) Snapshot() ViewState {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := e.view
	v.Array = slices.Clone(e.view.Array)
	v.Input = slices.Clone(e.view.Input)
	return v
}

// Done is closed when the current playback session ends for any reason.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// SetSpeed sets the base per-frame delay, clamped to the configured range.
// It takes effect from the next frame.
func (e *Engine) SetSpeed(d time.Duration) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.Speed = e.clampSpeed(d)
	return e.view.Speed
}

func (e *Engine) clampSpeed(d time.Duration) time.Duration {
	if d < e.opts.MinSpeed {
		d = e.opts.MinSpeed
	}
	if e.opts.MaxSpeed > 0 && d > e.opts.MaxSpeed {
		d = e.opts.MaxSpeed
	}
	return d
}

// SetAlgorithm switches the algorithm for the next Start, discarding any
// current playback.
func (e *Engine) SetAlgorithm(kind sorts.Kind) {
	e.Stop()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.Algorithm = kind
	e.view.TimeComplexity = ""
}

// Start fetches a trace for input and plays it on a new goroutine. It
// returns trace.ErrAlreadyRunning, doing nothing, while a playback is
// loading or running. Canceling ctx aborts the session like Stop.
func (e *Engine) Start(ctx context.Context, input []float64) error {
	e.mu.Lock()
	if e.view.Active() {
		e.mu.Unlock()
		return trace.ErrAlreadyRunning
	}

	sctx, id, done := e.beginLocked(ctx)
	e.last = slices.Clone(input)
	e.view = ViewState{
		State:     Loading,
		Algorithm: e.view.Algorithm,
		Input:     slices.Clone(input),
		Array:     slices.Clone(input),
		Highlight: trace.None{},
		Speed:     e.view.Speed,
	}
	e.cursor = -1
	kind := e.view.Algorithm
	e.mu.Unlock()

	e.log.Info("playback starting", "algorithm", kind, "length", len(input))
	go e.load(sctx, id, done, slices.Clone(input), kind)
	return nil
}

// Retry starts again with the input of the last Start.
func (e *Engine) Retry(ctx context.Context) error {
	e.mu.Lock()
	input := e.last
	e.mu.Unlock()
	if input == nil {
		return ErrNothingToRetry
	}
	return e.Start(ctx, input)
}

// Continue resumes playback of preserved frames after the current index
// without fetching again.
func (e *Engine) Continue(ctx context.Context) error {
	e.mu.Lock()
	if e.view.Active() {
		e.mu.Unlock()
		return trace.ErrAlreadyRunning
	}
	if len(e.view.Frames) == 0 || e.cursor >= len(e.view.Frames)-1 {
		e.mu.Unlock()
		return ErrNothingToResume
	}

	sctx, id, done := e.beginLocked(ctx)
	e.view.State = Running
	e.view.Error = ""
	e.mu.Unlock()

	go func() {
		defer close(done)
		e.play(sctx, id)
	}()
	return nil
}

// Load installs an already fetched trace and parks it paused at index, ready
// for stepping, scrubbing or resuming.
func (e *Engine) Load(ctx context.Context, t *trace.Trace, index int) error {
	if err := t.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	if e.view.Active() {
		e.mu.Unlock()
		return trace.ErrAlreadyRunning
	}

	res := e.optimize(t)
	index = max(0, min(index, len(res.Frames)-1))

	sctx, id, done := e.beginLocked(ctx)
	e.view = ViewState{
		State:           Paused,
		Algorithm:       e.view.Algorithm,
		Input:           slices.Clone(t.Frames[0].Array),
		Frames:          res.Frames,
		Highlight:       trace.None{},
		TimeComplexity:  t.TimeComplexity,
		ExecutionTimeMs: t.ExecutionTimeMs,
		Warning:         truncationWarning(res),
		Speed:           e.view.Speed,
	}
	if k, err := sorts.ParseKind(t.Algorithm); err == nil {
		e.view.Algorithm = k
	}
	e.last = slices.Clone(e.view.Input)
	e.resume = make(chan struct{})
	e.applyLocked(index)
	e.mu.Unlock()

	go func() {
		defer close(done)
		e.play(sctx, id)
	}()
	return nil
}

// beginLocked opens a new session and returns its context, id and done
// channel.
func (e *Engine) beginLocked(parent context.Context) (context.Context, uint64, chan struct{}) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	e.session++
	e.cancel = cancel
	e.resume = nil
	e.done = make(chan struct{})
	return ctx, e.session, e.done
}

func (e *Engine) load(ctx context.Context, id uint64, done chan struct{}, input []float64, kind sorts.Kind) {
	defer close(done)

	tr, err := e.runner.RunTrace(ctx, input, kind)

	e.mu.Lock()
	if id != e.session {
		// stopped or superseded: whatever arrived is stale
		e.mu.Unlock()
		return
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		e.endLocked(false)
		e.mu.Unlock()
		metrics.ObservePlayback(e.opts.Name, metrics.OutcomeCanceled)
		return
	}
	if err == nil {
		err = tr.Validate()
	}
	if err == nil && len(tr.Frames[0].Array) != len(input) {
		err = &trace.MalformedError{Frame: 0, Reason: fmt.Sprintf("array length %d, want %d", len(tr.Frames[0].Array), len(input))}
	}
	if err != nil {
		e.failLocked(err)
		e.mu.Unlock()
		e.log.Error("trace fetch failed", "error", err)
		metrics.ObservePlayback(e.opts.Name, metrics.OutcomeFailed)
		return
	}

	res := e.optimize(tr)
	e.view.Frames = res.Frames
	e.view.Warning = truncationWarning(res)
	e.view.TimeComplexity = tr.TimeComplexity
	e.view.ExecutionTimeMs = tr.ExecutionTimeMs
	e.view.State = Running
	e.mu.Unlock()

	e.play(ctx, id)
}

func (e *Engine) optimize(t *trace.Trace) trace.OptimizeResult {
	res := trace.Optimize(t.Frames, e.opts.MaxFrames)
	if res.Truncated {
		e.log.Warn("frame sequence truncated", "raw", res.Raw, "kept", len(res.Frames), "cut", res.Cut, "max", e.opts.MaxFrames)
	}
	metrics.ObserveOptimize(res.Dropped, res.Cut)
	return res
}

func truncationWarning(res trace.OptimizeResult) string {
	if !res.Truncated {
		return ""
	}
	return fmt.Sprintf("Large animation detected (%d frames). Playback was limited to %d frames.", res.Raw, len(res.Frames))
}

// play applies frames from cursor+1 to the end, then flashes and finishes.
func (e *Engine) play(ctx context.Context, id uint64) {
	for {
		if err := e.waitResume(ctx); err != nil {
			e.abandon(id)
			return
		}

		e.mu.Lock()
		if id != e.session || ctx.Err() != nil {
			e.mu.Unlock()
			e.abandon(id)
			return
		}
		if e.resume != nil {
			// paused again between wake-up and lock
			e.mu.Unlock()
			continue
		}
		next := e.cursor + 1
		if next >= len(e.view.Frames) {
			e.mu.Unlock()
			break
		}
		e.applyLocked(next)
		delay := e.delayLocked(e.view.Frames[next])
		e.mu.Unlock()

		if err := sleep(ctx, delay); err != nil {
			e.abandon(id)
			return
		}
	}

	e.mu.Lock()
	if id != e.session {
		e.mu.Unlock()
		return
	}
	n := len(e.view.Array)
	e.view.Highlight = trace.Flash{L: 0, R: n - 1}
	e.mu.Unlock()

	if err := sleep(ctx, e.opts.FlashDuration); err != nil {
		e.abandon(id)
		return
	}

	e.mu.Lock()
	if id != e.session {
		e.mu.Unlock()
		return
	}
	e.view.Highlight = trace.None{}
	e.view.State = Finished
	e.resume = nil
	e.cancel()
	frames := len(e.view.Frames)
	e.mu.Unlock()

	e.log.Info("playback finished", "frames", frames)
	metrics.ObservePlayback(e.opts.Name, metrics.OutcomeFinished)
}

func (e *Engine) waitResume(ctx context.Context) error {
	for {
		e.mu.Lock()
		ch := e.resume
		e.mu.Unlock()
		if ch == nil {
			return nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// abandon handles a session whose context ended. Stop has already reset the
// view when it bumped the session; otherwise the parent context was canceled
// and the view is reset here.
func (e *Engine) abandon(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id != e.session {
		return
	}
	e.endLocked(false)
	metrics.ObservePlayback(e.opts.Name, metrics.OutcomeCanceled)
}

func (e *Engine) delayLocked(f trace.Frame) time.Duration {
	d := e.view.Speed
	if f.IsExchange() {
		d += time.Duration(float64(e.view.Speed) * e.opts.SwapMultiplier)
	}
	return max(d, e.opts.MinDelay)
}

// applyLocked copies frame i into the view. The frame itself is never
// modified, so applying it again yields the same view.
func (e *Engine) applyLocked(i int) {
	f := e.view.Frames[i]
	e.cursor = i
	e.view.Index = i
	e.view.Array = slices.Clone(f.Array)
	e.view.Comparisons = f.Comparisons
	e.view.Swaps = f.Swaps
	e.view.Highlight = f.Highlight
	if e.view.Highlight == nil {
		e.view.Highlight = trace.None{}
	}
}

// TogglePause suspends or resumes a running playback. It reports whether
// anything changed.
func (e *Engine) TogglePause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.view.State {
	case Running:
		e.view.State = Paused
		e.resume = make(chan struct{})
		return true
	case Paused:
		e.view.State = Running
		close(e.resume)
		e.resume = nil
		return true
	}
	return false
}

// Pause suspends playback if it is running.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	running := e.view.State == Running
	e.mu.Unlock()
	return running && e.TogglePause()
}

// Resume continues a paused playback.
func (e *Engine) Resume() bool {
	e.mu.Lock()
	paused := e.view.State == Paused
	e.mu.Unlock()
	return paused && e.TogglePause()
}

// StepForward applies the next frame while paused. No-op at the last frame.
func (e *Engine) StepForward() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.view.State != Paused || e.cursor >= len(e.view.Frames)-1 {
		return false
	}
	e.applyLocked(e.cursor + 1)
	return true
}

// StepBackward applies the previous frame while paused. No-op at frame 0.
func (e *Engine) StepBackward() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.view.State != Paused || e.cursor <= 0 {
		return false
	}
	e.applyLocked(e.cursor - 1)
	return true
}

// ScrubTo applies frame index while paused.
func (e *Engine) ScrubTo(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.view.State != Paused {
		return ErrNotPaused
	}
	if index < 0 || index >= len(e.view.Frames) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrFrameOutOfRange, index, len(e.view.Frames)-1)
	}
	e.applyLocked(index)
	return nil
}

// Stop cancels any fetch or playback and returns to Idle with no frames.
func (e *Engine) Stop() {
	e.stop(false)
}

// StopPreserving is Stop that keeps the fetched frames and position so a
// later Continue can pick up where playback left off.
func (e *Engine) StopPreserving() {
	e.stop(true)
}

func (e *Engine) stop(preserve bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.session++
	e.endLocked(preserve)
}

// endLocked returns the view to Idle.
func (e *Engine) endLocked(preserve bool) {
	e.view.State = Idle
	e.view.Error = ""
	e.view.Warning = ""
	e.view.Highlight = trace.None{}
	e.resume = nil
	if !preserve {
		e.view.Frames = nil
		e.view.Index = 0
		e.view.TimeComplexity = ""
		e.cursor = -1
	}
}

func (e *Engine) failLocked(err error) {
	e.endLocked(false)
	e.view.Error = userMessage(err)
}

// userMessage turns a fetch failure into text for the error field.
func userMessage(err error) string {
	switch {
	case errors.Is(err, trace.ErrTransport):
		return "Failed to run algorithm. Check the connection and retry."
	case errors.Is(err, trace.ErrInvalidTrace):
		return "Invalid response from backend: " + err.Error()
	case errors.Is(err, trace.ErrInvalidInput):
		return err.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Failed to run algorithm."
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
