// Package runner produces traces for the playback engine, either in process
// or from an HTTP backend.
package runner

import (
	"context"
	"time"

	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/sorts"
	"github.com/san-kum/algoviz/internal/trace"
)

// Local generates traces in process.
type Local struct {
	MaxArrayLength int
	registry       *sorts.Registry
}

func NewLocal(maxArrayLength int) *Local {
	return &Local{
		MaxArrayLength: maxArrayLength,
		registry:       sorts.NewRegistry(),
	}
}

// RunTrace runs the generator on its own goroutine so a canceled ctx
// returns immediately. The abandoned run completes in the background.
func (l *Local) RunTrace(ctx context.Context, input []float64, kind sorts.Kind) (*trace.Trace, error) {
	type result struct {
		tr  *trace.Trace
		err error
	}
	ch := make(chan result, 1)

	go func() {
		start := time.Now()
		tr, err := l.registry.Generate(input, kind, l.MaxArrayLength)
		frames := 0
		if tr != nil {
			frames = len(tr.Frames)
		}
		metrics.ObserveGeneration(string(kind), frames, time.Since(start), err)
		ch <- result{tr, err}
	}()

	select {
	case r := <-ch:
		return r.tr, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
