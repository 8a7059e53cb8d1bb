package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// tracesGenerated counts generator runs by algorithm and result
	tracesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "algoviz_traces_generated_total",
		Help: "Total traces generated by algorithm and result",
	}, []string{"algorithm", "result"})

	// traceFrames tracks raw frames per generated trace
	traceFrames = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "algoviz_trace_frames",
		Help:    "Raw frames per generated trace",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 to ~16k
	}, []string{"algorithm"})

	// traceDuration tracks generation latency
	traceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "algoviz_trace_duration_seconds",
		Help:    "Trace generation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	}, []string{"algorithm"})

	// playbackSessions counts finished playback sessions by outcome
	playbackSessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "algoviz_playback_sessions_total",
		Help: "Playback sessions by engine and outcome",
	}, []string{"engine", "outcome"})

	// framesDropped counts frames removed by dedup or truncation
	framesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "algoviz_frames_dropped_total",
		Help: "Frames removed before playback by reason",
	}, []string{"reason"})
)

// Playback outcomes.
const (
	OutcomeFinished = "finished"
	OutcomeCanceled = "canceled"
	OutcomeFailed   = "failed"
)

// ObserveGeneration records one generator call.
func ObserveGeneration(algorithm string, frames int, elapsed time.Duration, err error) {
	if err != nil {
		tracesGenerated.WithLabelValues(algorithm, "error").Inc()
		return
	}
	tracesGenerated.WithLabelValues(algorithm, "ok").Inc()
	traceFrames.WithLabelValues(algorithm).Observe(float64(frames))
	traceDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
}

// ObservePlayback records how a playback session ended.
func ObservePlayback(engine, outcome string) {
	playbackSessions.WithLabelValues(engine, outcome).Inc()
}

// ObserveOptimize records frames removed before playback: duplicates
// collapsed anywhere in the sequence and distinct frames cut by the cap.
func ObserveOptimize(duplicates, truncated int) {
	if duplicates > 0 {
		framesDropped.WithLabelValues("duplicate").Add(float64(duplicates))
	}
	if truncated > 0 {
		framesDropped.WithLabelValues("truncated").Add(float64(truncated))
	}
}
