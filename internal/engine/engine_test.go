package engine_test

import (
	"context"
	"errors"
	"slices"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/algoviz/internal/engine"
	"github.com/san-kum/algoviz/internal/sorts"
	"github.com/san-kum/algoviz/internal/trace"
)

var worked = []float64{5, 3, 4, 1, 2}

func local() engine.Runner {
	return engine.RunnerFunc(func(_ context.Context, input []float64, kind sorts.Kind) (*trace.Trace, error) {
		return sorts.Generate(input, kind, 0)
	})
}

// gated blocks until release is closed, ignoring cancellation, to model a
// response that arrives after the caller gave up.
func gated(release <-chan struct{}) engine.Runner {
	return engine.RunnerFunc(func(_ context.Context, input []float64, kind sorts.Kind) (*trace.Trace, error) {
		<-release
		return sorts.Generate(input, kind, 0)
	})
}

func fastOptions(kind sorts.Kind) engine.Options {
	opts := engine.DefaultOptions()
	opts.Algorithm = kind
	opts.Speed = time.Millisecond
	opts.MinSpeed = time.Millisecond
	opts.MinDelay = 0
	opts.FlashDuration = time.Millisecond
	return opts
}

func slowOptions(kind sorts.Kind) engine.Options {
	opts := fastOptions(kind)
	opts.Speed = 20 * time.Millisecond
	return opts
}

func waitDone(e *engine.Engine) {
	Eventually(e.Done()).WithTimeout(5 * time.Second).Should(BeClosed())
}

var _ = Describe("Engine", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("playback", func() {
		It("plays the bubble sort trace to the sorted array", func() {
			e := engine.New(local(), fastOptions(sorts.Bubble))
			Expect(e.Start(ctx, worked)).To(Succeed())
			waitDone(e)

			v := e.Snapshot()
			Expect(v.State).To(Equal(engine.Finished))
			Expect(v.Array).To(Equal([]float64{1, 2, 3, 4, 5}))
			Expect(v.Comparisons).To(Equal(10))
			Expect(v.Swaps).To(Equal(8))
			Expect(v.Highlight).To(Equal(trace.Highlight(trace.None{})))
			Expect(v.TimeComplexity).To(Equal("O(n^2)"))
			Expect(v.Index).To(Equal(len(v.Frames) - 1))
			Expect(v.Progress()).To(BeNumerically("==", 1))
		})

		It("finishes every algorithm with a sorted array", func() {
			for _, kind := range sorts.Kinds() {
				e := engine.New(local(), fastOptions(kind))
				Expect(e.Start(ctx, []float64{9, 1, 8, 2, 7, 3})).To(Succeed())
				waitDone(e)
				Expect(e.Snapshot().Array).To(Equal([]float64{1, 2, 3, 7, 8, 9}), string(kind))
			}
		})

		It("flashes the whole array before finishing", func() {
			opts := fastOptions(sorts.Merge)
			opts.FlashDuration = 300 * time.Millisecond
			e := engine.New(local(), opts)
			Expect(e.Start(ctx, worked)).To(Succeed())

			Eventually(func() trace.Highlight { return e.Snapshot().Highlight }).
				WithTimeout(2 * time.Second).
				Should(Equal(trace.Highlight(trace.Flash{L: 0, R: 4})))
			Expect(e.Snapshot().State).To(Equal(engine.Running))

			waitDone(e)
			Expect(e.Snapshot().Highlight).To(Equal(trace.Highlight(trace.None{})))
		})

		It("rejects a second start while active", func() {
			e := engine.New(local(), slowOptions(sorts.Bubble))
			Expect(e.Start(ctx, worked)).To(Succeed())
			Expect(e.Start(ctx, []float64{1})).To(MatchError(trace.ErrAlreadyRunning))
			Expect(e.Snapshot().Input).To(Equal(worked))
			e.Stop()
		})

		It("does not modify the caller's input", func() {
			in := slices.Clone(worked)
			e := engine.New(local(), fastOptions(sorts.Quick))
			Expect(e.Start(ctx, in)).To(Succeed())
			waitDone(e)
			Expect(in).To(Equal(worked))
		})

		It("warns when the frame cap truncates playback", func() {
			opts := fastOptions(sorts.Bubble)
			opts.MaxFrames = 3
			e := engine.New(local(), opts)
			Expect(e.Start(ctx, worked)).To(Succeed())
			waitDone(e)

			v := e.Snapshot()
			Expect(v.Frames).To(HaveLen(3))
			Expect(v.Warning).To(ContainSubstring("19 frames"))
			Expect(v.State).To(Equal(engine.Finished))
		})
	})

	Describe("pause and stepping", func() {
		var e *engine.Engine

		BeforeEach(func() {
			e = engine.New(local(), slowOptions(sorts.Bubble))
			Expect(e.Start(ctx, worked)).To(Succeed())
			Eventually(func() engine.State { return e.Snapshot().State }).Should(Equal(engine.Running))
			Expect(e.TogglePause()).To(BeTrue())
		})

		AfterEach(func() {
			e.Stop()
		})

		It("holds the index while paused", func() {
			idx := e.Snapshot().Index
			Consistently(func() int { return e.Snapshot().Index }).
				WithTimeout(100 * time.Millisecond).
				Should(Equal(idx))
		})

		It("steps within bounds only", func() {
			Expect(e.ScrubTo(0)).To(Succeed())
			Expect(e.StepBackward()).To(BeFalse())
			Expect(e.Snapshot().Index).To(Equal(0))

			Expect(e.StepForward()).To(BeTrue())
			v := e.Snapshot()
			Expect(v.Index).To(Equal(1))
			Expect(v.Highlight).To(Equal(trace.Highlight(trace.Compare{I: 0, J: 1})))

			last := len(v.Frames) - 1
			Expect(e.ScrubTo(last)).To(Succeed())
			Expect(e.StepForward()).To(BeFalse())
			Expect(e.Snapshot().Index).To(Equal(last))
		})

		It("applies a frame idempotently", func() {
			Expect(e.ScrubTo(2)).To(Succeed())
			first := e.Snapshot()
			Expect(e.ScrubTo(2)).To(Succeed())
			Expect(e.Snapshot()).To(Equal(first))

			Expect(first.Array).To(Equal([]float64{3, 5, 4, 1, 2}))
			Expect(first.Swaps).To(Equal(1))
		})

		It("does not let view changes leak into frames", func() {
			Expect(e.ScrubTo(0)).To(Succeed())
			v := e.Snapshot()
			v.Array[0] = 99
			Expect(e.ScrubTo(0)).To(Succeed())
			Expect(e.Snapshot().Array).To(Equal(worked))
		})

		It("rejects a scrub out of range", func() {
			Expect(e.ScrubTo(-1)).To(MatchError(engine.ErrFrameOutOfRange))
			Expect(e.ScrubTo(1000)).To(MatchError(engine.ErrFrameOutOfRange))
		})

		It("resumes to completion", func() {
			Expect(e.TogglePause()).To(BeTrue())
			Expect(e.SetSpeed(0)).To(Equal(time.Millisecond))
			waitDone(e)
			Expect(e.Snapshot().State).To(Equal(engine.Finished))
		})
	})

	It("ignores pause while idle", func() {
		e := engine.New(local(), fastOptions(sorts.Bubble))
		before := e.Snapshot()

		Expect(e.TogglePause()).To(BeFalse())
		Expect(e.Pause()).To(BeFalse())
		Expect(e.Resume()).To(BeFalse())
		Expect(e.StepForward()).To(BeFalse())
		Expect(e.Snapshot()).To(Equal(before))
	})

	It("ignores pause while loading", func() {
		release := make(chan struct{})
		e := engine.New(gated(release), fastOptions(sorts.Bubble))
		Expect(e.Start(ctx, worked)).To(Succeed())
		Expect(e.Snapshot().State).To(Equal(engine.Loading))

		Expect(e.TogglePause()).To(BeFalse())
		Expect(e.Pause()).To(BeFalse())
		Expect(e.Resume()).To(BeFalse())
		Expect(e.Snapshot().State).To(Equal(engine.Loading))

		close(release)
		waitDone(e)
		Expect(e.Snapshot().State).To(Equal(engine.Finished))
	})

	It("ignores steps and scrubs while running", func() {
		e := engine.New(local(), slowOptions(sorts.Bubble))
		Expect(e.Start(ctx, worked)).To(Succeed())
		Eventually(func() engine.State { return e.Snapshot().State }).Should(Equal(engine.Running))

		Expect(e.StepForward()).To(BeFalse())
		Expect(e.ScrubTo(0)).To(MatchError(engine.ErrNotPaused))
		e.Stop()
	})

	Describe("stop and cancellation", func() {
		It("returns to idle with no frames", func() {
			e := engine.New(local(), slowOptions(sorts.Merge))
			Expect(e.Start(ctx, worked)).To(Succeed())
			Eventually(func() engine.State { return e.Snapshot().State }).Should(Equal(engine.Running))

			e.Stop()
			v := e.Snapshot()
			Expect(v.State).To(Equal(engine.Idle))
			Expect(v.Frames).To(BeEmpty())
			Expect(v.Index).To(Equal(0))
			Expect(v.Highlight).To(Equal(trace.Highlight(trace.None{})))

			waitDone(e)
			Consistently(func() engine.State { return e.Snapshot().State }).
				WithTimeout(100 * time.Millisecond).
				Should(Equal(engine.Idle))
		})

		It("drops a response that arrives after stop", func() {
			release := make(chan struct{})
			e := engine.New(gated(release), fastOptions(sorts.Bubble))
			Expect(e.Start(ctx, worked)).To(Succeed())
			Expect(e.Snapshot().State).To(Equal(engine.Loading))

			e.Stop()
			close(release)
			waitDone(e)

			Consistently(func() engine.ViewState { return e.Snapshot() }).
				WithTimeout(100 * time.Millisecond).
				Should(SatisfyAll(
					HaveField("State", engine.Idle),
					HaveField("Frames", BeEmpty()),
					HaveField("Error", BeEmpty()),
				))
		})

		It("accepts a new start right after stop", func() {
			release := make(chan struct{})
			e := engine.New(gated(release), fastOptions(sorts.Bubble))
			Expect(e.Start(ctx, worked)).To(Succeed())
			e.Stop()

			Expect(e.Start(ctx, []float64{2, 1})).To(Succeed())
			close(release)
			waitDone(e)
			Expect(e.Snapshot().Array).To(Equal([]float64{1, 2}))
		})

		It("returns to idle when the caller's context is canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			e := engine.New(local(), slowOptions(sorts.Bubble))
			Expect(e.Start(cctx, worked)).To(Succeed())
			Eventually(func() engine.State { return e.Snapshot().State }).Should(Equal(engine.Running))

			cancel()
			waitDone(e)
			v := e.Snapshot()
			Expect(v.State).To(Equal(engine.Idle))
			Expect(v.Error).To(BeEmpty())
		})

		It("keeps frames with StopPreserving and continues from there", func() {
			e := engine.New(local(), slowOptions(sorts.Bubble))
			Expect(e.Start(ctx, worked)).To(Succeed())
			Eventually(func() int { return e.Snapshot().Index }).Should(BeNumerically(">=", 2))

			e.StopPreserving()
			v := e.Snapshot()
			Expect(v.State).To(Equal(engine.Idle))
			Expect(v.Frames).NotTo(BeEmpty())

			e.SetSpeed(time.Millisecond)
			Expect(e.Continue(ctx)).To(Succeed())
			waitDone(e)
			Expect(e.Snapshot().Array).To(Equal([]float64{1, 2, 3, 4, 5}))

			Expect(e.Continue(ctx)).To(MatchError(engine.ErrNothingToResume))
		})
	})

	Describe("failures", func() {
		It("reports a runner error and returns to idle", func() {
			failing := engine.RunnerFunc(func(context.Context, []float64, sorts.Kind) (*trace.Trace, error) {
				return nil, &trace.TransportError{Status: 500}
			})
			e := engine.New(failing, fastOptions(sorts.Bubble))
			Expect(e.Start(ctx, worked)).To(Succeed())
			waitDone(e)

			v := e.Snapshot()
			Expect(v.State).To(Equal(engine.Idle))
			Expect(v.Error).NotTo(BeEmpty())
			Expect(v.Frames).To(BeEmpty())
		})

		It("rejects a trace whose arrays do not match the input length", func() {
			short := engine.RunnerFunc(func(_ context.Context, _ []float64, kind sorts.Kind) (*trace.Trace, error) {
				return sorts.Generate([]float64{2, 1}, kind, 0)
			})
			e := engine.New(short, fastOptions(sorts.Bubble))
			Expect(e.Start(ctx, worked)).To(Succeed())
			waitDone(e)
			Expect(e.Snapshot().Error).To(ContainSubstring("Invalid response"))
		})

		It("clears the error on the next start", func() {
			fail := true
			flaky := engine.RunnerFunc(func(_ context.Context, input []float64, kind sorts.Kind) (*trace.Trace, error) {
				if fail {
					return nil, errors.New("boom")
				}
				return sorts.Generate(input, kind, 0)
			})
			e := engine.New(flaky, fastOptions(sorts.Bubble))
			Expect(e.Start(ctx, worked)).To(Succeed())
			waitDone(e)
			Expect(e.Snapshot().Error).To(Equal("boom"))

			fail = false
			Expect(e.Retry(ctx)).To(Succeed())
			waitDone(e)
			v := e.Snapshot()
			Expect(v.Error).To(BeEmpty())
			Expect(v.State).To(Equal(engine.Finished))
		})

		It("has nothing to retry before the first start", func() {
			e := engine.New(local(), fastOptions(sorts.Bubble))
			Expect(e.Retry(ctx)).To(MatchError(engine.ErrNothingToRetry))
		})
	})

	Describe("Load", func() {
		It("parks a stored trace paused at the given frame", func() {
			tr, err := sorts.Generate(worked, sorts.Quick, 0)
			Expect(err).NotTo(HaveOccurred())

			e := engine.New(local(), fastOptions(sorts.Bubble))
			Expect(e.Load(ctx, tr, 2)).To(Succeed())

			v := e.Snapshot()
			Expect(v.State).To(Equal(engine.Paused))
			Expect(v.Algorithm).To(Equal(sorts.Quick))
			Expect(v.Index).To(Equal(2))
			Expect(v.Input).To(Equal(worked))

			Expect(e.StepBackward()).To(BeTrue())
			Expect(e.TogglePause()).To(BeTrue())
			waitDone(e)
			Expect(e.Snapshot().Array).To(Equal([]float64{1, 2, 3, 4, 5}))
		})

		It("rejects an invalid trace", func() {
			e := engine.New(local(), fastOptions(sorts.Bubble))
			Expect(e.Load(ctx, &trace.Trace{}, 0)).To(MatchError(trace.ErrInvalidTrace))
		})
	})

	Describe("settings", func() {
		It("clamps speed", func() {
			opts := engine.DefaultOptions()
			e := engine.New(local(), opts)
			Expect(e.SetSpeed(time.Second)).To(Equal(engine.DefaultMaxSpeed))
			Expect(e.SetSpeed(0)).To(Equal(engine.DefaultMinSpeed))
			Expect(e.Snapshot().Speed).To(Equal(engine.DefaultMinSpeed))
		})

		It("switches algorithm and stops playback", func() {
			e := engine.New(local(), slowOptions(sorts.Bubble))
			Expect(e.Start(ctx, worked)).To(Succeed())
			e.SetAlgorithm(sorts.Merge)

			v := e.Snapshot()
			Expect(v.State).To(Equal(engine.Idle))
			Expect(v.Algorithm).To(Equal(sorts.Merge))
		})
	})
})

var _ = Describe("Pair", func() {
	It("runs both algorithms independently on the same input", func() {
		p := engine.NewPair(local(), fastOptions(sorts.Bubble), sorts.Bubble, sorts.Merge)
		Expect(p.Start(context.Background(), worked)).To(Succeed())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		Expect(p.Wait(ctx)).To(Succeed())

		l, r := p.Left.Snapshot(), p.Right.Snapshot()
		Expect(l.Array).To(Equal(r.Array))
		Expect(l.TimeComplexity).To(Equal("O(n^2)"))
		Expect(r.TimeComplexity).To(Equal("O(n log n)"))
		Expect(l.Frames).NotTo(HaveLen(len(r.Frames)))
	})

	It("stops both sides", func() {
		p := engine.NewPair(local(), slowOptions(sorts.Bubble), sorts.Quick, sorts.Merge)
		Expect(p.Start(context.Background(), worked)).To(Succeed())
		p.Stop()
		Expect(p.Left.Snapshot().State).To(Equal(engine.Idle))
		Expect(p.Right.Snapshot().State).To(Equal(engine.Idle))
	})
})
