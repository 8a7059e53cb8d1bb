package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/sorts"
	"github.com/san-kum/algoviz/internal/trace"
)

// AlgorithmEntry describes one algorithm in GET /api/algorithms.
type AlgorithmEntry struct {
	Kind           sorts.Kind `json:"kind"`
	Route          string     `json:"route"`
	TimeComplexity string     `json:"timeComplexity"`
	Info           sorts.Info `json:"info"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "AlgoVisual Backend Running")
}

func (s *Server) handleAlgorithms(c *gin.Context) {
	kinds := s.registry.List()
	out := make([]AlgorithmEntry, 0, len(kinds))
	for _, k := range kinds {
		algo, err := s.registry.Get(k)
		if err != nil {
			continue
		}
		out = append(out, AlgorithmEntry{
			Kind:           k,
			Route:          "/api/" + k.Route(),
			TimeComplexity: algo.TimeComplexity(),
			Info:           algo.Info(),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSortByName(c *gin.Context) {
	kind, err := sorts.ParseKind(c.Param("algorithm"))
	if err != nil {
		c.JSON(http.StatusNotFound, trace.ErrorResponse{Error: err.Error(), Code: trace.CodeUnknownAlgorithm})
		return
	}
	s.sort(c, kind)
}

func (s *Server) handleSort(kind sorts.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.sort(c, kind)
	}
}

func (s *Server) sort(c *gin.Context, kind sorts.Kind) {
	var req trace.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, trace.ErrorResponse{Error: "invalid request body: " + err.Error(), Code: trace.CodeInvalidInput})
		return
	}
	if req.Array == nil {
		c.JSON(http.StatusBadRequest, trace.ErrorResponse{Error: "Invalid input: array is required", Code: trace.CodeInvalidInput})
		return
	}

	tr, err := s.registry.Generate(req.Array, kind, s.cfg.MaxArrayLength)
	if err != nil {
		metrics.ObserveGeneration(string(kind), 0, 0, err)
		var ie *trace.InputError
		if errors.As(err, &ie) {
			c.JSON(http.StatusBadRequest, trace.ErrorResponse{Error: ie.Reason, Code: trace.CodeInvalidInput})
			return
		}
		s.log.Error("trace generation failed", "algorithm", kind, "error", err)
		c.JSON(http.StatusInternalServerError, trace.ErrorResponse{Error: "internal error", Code: trace.CodeInternal})
		return
	}
	metrics.ObserveGeneration(string(kind), len(tr.Frames), durationMs(tr.ExecutionTimeMs), nil)

	if s.cfg.Recorder != nil {
		if id, err := s.cfg.Recorder.Save(tr); err != nil {
			s.log.Warn("failed to record trace", "algorithm", kind, "error", err)
		} else {
			c.Header("X-Trace-Id", id)
		}
	}

	s.log.Debug("trace generated", "algorithm", kind, "length", len(req.Array), "frames", len(tr.Frames))
	c.JSON(http.StatusOK, trace.NewResponse(tr))
}

func durationMs(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
