// Package web exposes tree loading and cloning over a JSON HTTP API.
//
// Each browser gets a session cookie; the page tree it loads is kept in
// the session store and later clone requests select from that tree.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/confclone/internal/logger"
)

// Server is the HTTP server for the web API.
type Server struct {
	ports  *Ports
	engine *gin.Engine
}

// NewServer creates a web server with all routes registered.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	engine := gin.New()
	// Handlers pass *gin.Context to the services; this makes it carry the
	// request's cancellation.
	engine.ContextWithFallback = true
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{
		ports:  ports,
		engine: engine,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	v1 := s.engine.Group("/api/v1", sessionMiddleware())
	{
		v1.POST("/tree/load", s.handleLoadTree)
		v1.GET("/tree", s.handleGetTree)
		v1.POST("/clone", s.handleClone)

		if s.ports.Runs != nil {
			v1.GET("/runs", s.handleListRuns)
			v1.GET("/runs/:id", s.handleGetRun)
		}
		if s.ports.Pages != nil {
			v1.GET("/pages/:id/preview", s.handlePreview)
		}
	}
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("web API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// requestLogger logs each request at debug level.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
