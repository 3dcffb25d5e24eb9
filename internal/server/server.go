// Package server runs the discovery HTTP API and its background workers.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samujjwal/rental-sub006/config"
	"github.com/samujjwal/rental-sub006/ecode"
	"github.com/samujjwal/rental-sub006/listing/handler"
	"github.com/samujjwal/rental-sub006/logging/logger"
	"github.com/samujjwal/rental-sub006/net/resp"
)

// Server represents the application server.
type Server struct {
	config     *config.Config
	logger     *logger.Logger
	components *Components
	engine     *gin.Engine
}

// New creates a server over already built components.
func New(cfg *config.Config, l *logger.Logger, c *Components) *Server {
	if cfg.RunMode != "" {
		gin.SetMode(cfg.RunMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{config: cfg, logger: l, components: c}
	s.engine = s.router()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(traceMiddleware())
	r.Use(recoveryMiddleware(s.logger))
	r.Use(loggerMiddleware(s.logger))

	r.NoRoute(func(c *gin.Context) {
		resp.Fail(c.Writer, &resp.Exception{Status: http.StatusNotFound, Code: ecode.NotFound, Message: "route not found"})
	})

	var ix handler.Indexer
	if s.components.Indexer != nil {
		ix = s.components.Indexer
	}
	h := handler.New(s.components.Service, ix, s.components.Collector, s.logger).
		WithInternalToken(s.config.Server.InternalToken)
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

// Run starts the background workers and serves HTTP until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := s.components
	if c.Indexer != nil {
		if err := c.Indexer.EnsureIndex(ctx); err != nil {
			s.logger.Warn(ctx, "failed to ensure listing index", "error", err)
		}
	}
	if c.Scheduler != nil {
		if err := c.Scheduler.Start(ctx); err != nil {
			return err
		}
	}
	if c.Subscriber != nil {
		go func() {
			if err := c.Subscriber.Run(ctx, c.Dispatcher.Handle); err != nil {
				s.logger.Error(ctx, "listing event subscriber stopped", "error", err)
			}
		}()
	}

	sc := s.config.Server
	srv := &http.Server{
		Addr:         sc.Addr(),
		Handler:      s.engine,
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		IdleTimeout:  sc.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting server", "addr", srv.Addr, "backend", c.Service.Backend())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(context.Background(), "Shutting down server...")
	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout(sc))
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(context.Background(), "Server forced to shutdown", "error", err)
		return err
	}
	s.logger.Info(context.Background(), "Server exited")
	return nil
}

func shutdownTimeout(sc *config.Server) time.Duration {
	if sc.ShutdownTimeout > 0 {
		return sc.ShutdownTimeout
	}
	return 10 * time.Second
}
