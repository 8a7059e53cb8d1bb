package engine

import (
	"context"
	"errors"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/algoviz/internal/sorts"
)

// Pair drives two independent engines over the same input for side by side
// comparison. The engines share no state; Pair only fans out control calls.
type Pair struct {
	Left  *Engine
	Right *Engine
}

func NewPair(runner Runner, opts Options, left, right sorts.Kind) *Pair {
	lo, ro := opts, opts
	lo.Name, lo.Algorithm = "left", left
	ro.Name, ro.Algorithm = "right", right
	return &Pair{
		Left:  New(runner, lo),
		Right: New(runner, ro),
	}
}

// Start starts both engines on their own copy of input. If one side is
// already running the other is still started.
func (p *Pair) Start(ctx context.Context, input []float64) error {
	return errors.Join(
		p.Left.Start(ctx, slices.Clone(input)),
		p.Right.Start(ctx, slices.Clone(input)),
	)
}

func (p *Pair) TogglePause() {
	p.Left.TogglePause()
	p.Right.TogglePause()
}

func (p *Pair) Stop() {
	p.Left.Stop()
	p.Right.Stop()
}

func (p *Pair) SetSpeed(d time.Duration) time.Duration {
	p.Left.SetSpeed(d)
	return p.Right.SetSpeed(d)
}

// Wait blocks until both current sessions end or ctx is done.
func (p *Pair) Wait(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, e := range []*Engine{p.Left, p.Right} {
		done := e.Done()
		g.Go(func() error {
			select {
			case <-done:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	return g.Wait()
}
