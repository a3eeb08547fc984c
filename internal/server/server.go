// Package server serves the cache root as a static document root on the
// loopback interface, so the mirrored page can be browsed offline.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/webmirror/internal/logger"
)

// Server timeouts.
const (
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// Server is the local static file server for the cache root.
type Server struct {
	httpServer *http.Server
	log        logger.Interface
}

// New creates a server bound to 127.0.0.1:port serving docRoot. The
// document root is passed in explicitly; the process working directory is
// never touched. Request logging is deliberately silent, matching the
// serving contract of a kiosk mirror.
func New(log logger.Interface, gatherer prometheus.Gatherer, docRoot string, port int) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(docRoot))))

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("127.0.0.1:%d", port),
			Handler:      engine,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
		log: log,
	}
}

// Addr returns the address the server binds to.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler exposes the routing handler, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving on a background goroutine and returns a channel
// carrying any serve error.
func (s *Server) Start() <-chan error {
	errChan := make(chan error, 1)

	go func() {
		s.log.Info("static server started", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	return errChan
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown static server: %w", err)
	}

	s.log.Info("static server stopped")
	return nil
}
