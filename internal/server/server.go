// Package server exposes trace generation over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/algoviz/internal/sorts"
	"github.com/san-kum/algoviz/internal/trace"
)

const (
	DefaultAddr     = ":3001"
	shutdownTimeout = 5 * time.Second
)

// Recorder persists generated traces. storage.Store satisfies it.
type Recorder interface {
	Save(t *trace.Trace) (string, error)
}

type Config struct {
	Addr           string
	MaxArrayLength int
	// AllowOrigin is sent as Access-Control-Allow-Origin. Empty means "*".
	AllowOrigin string
	// Recorder, when set, receives every successful trace.
	Recorder Recorder
	Logger   *slog.Logger
}

type Server struct {
	cfg      Config
	log      *slog.Logger
	registry *sorts.Registry
	router   *gin.Engine
}

func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxArrayLength <= 0 {
		cfg.MaxArrayLength = sorts.DefaultMaxArrayLength
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		log:      cfg.Logger.With("component", "server"),
		registry: sorts.NewRegistry(),
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLogger(s.log), cors(cfg.AllowOrigin))
	s.setupRoutes(router)
	s.router = router
	return s
}

func (s *Server) setupRoutes(router *gin.Engine) {
	router.GET("/", s.handleRoot)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/algorithms", s.handleAlgorithms)
		api.POST("/sort/:algorithm", s.handleSortByName)
		for _, kind := range s.registry.List() {
			api.POST("/"+kind.Route(), s.handleSort(kind))
		}
	}
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
