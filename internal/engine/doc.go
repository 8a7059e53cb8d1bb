// Package engine plays a sorting trace back as a single evolving view.
//
// An [Engine] fetches a trace through a [Runner], removes consecutive
// duplicate frames and then applies frames one at a time to its [ViewState],
// waiting a speed-derived delay between them. While paused it accepts
// single steps and scrubbing. States:
//
//	Idle -> Loading -> Running <-> Paused -> Finished
//	Loading/Running/Paused -- Stop, cancel, failure --> Idle
//
// # Example
//
//	e := engine.New(runner.NewLocal(200), engine.DefaultOptions())
//	_ = e.Start(ctx, []float64{5, 3, 4, 1, 2})
//	<-e.Done()
//	fmt.Println(e.Snapshot().Array)
//
// # Thread Safety
//
// All Engine methods may be called from any goroutine. At most one playback
// is active per Engine; a second Start returns [trace.ErrAlreadyRunning].
// Two engines share nothing, see [Pair] for compare mode.
package engine
