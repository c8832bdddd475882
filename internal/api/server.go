// Package api serves molecule depictions over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/H1W0XXX/molview/internal/config"
	"github.com/H1W0XXX/molview/internal/metrics"
)

// Server wires the gin engine to an http.Server.
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	engine  *gin.Engine
	srv     *http.Server
}

// NewServer builds the router. m may be nil, which disables the metrics
// route and request counters.
func NewServer(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *Server {
	if !cfg.Metrics.Enabled {
		m = nil
	}
	s := &Server{cfg: cfg, logger: logger, metrics: m}
	s.engine = s.newRouter()
	s.srv = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) newRouter() *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery(), requestID(), accessLog(s.logger, s.metrics))

	h := &handler{render: s.cfg.Render, logger: s.logger, metrics: s.metrics}
	e.GET(s.cfg.Server.Route, h.molView)
	e.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		e.GET(s.cfg.Metrics.Path, gin.WrapH(s.metrics.Handler()))
	}
	return e
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.srv.Addr), zap.String("route", s.cfg.Server.Route))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
