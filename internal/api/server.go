package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"abkit/internal"
	"abkit/internal/config"
	"abkit/internal/errors"

	"github.com/gin-gonic/gin"
)

// Server exposes the proportion statistics over JSON/HTTP.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	logger   *internal.Logger
	defaults defaults
}

type defaults struct {
	alpha float64
	power float64
}

// NewServer builds a server with routes and middleware installed.
func NewServer(cfg *config.Config, logger *internal.Logger) *Server {
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router: gin.New(),
		config: cfg,
		logger: logger.With("api"),
		defaults: defaults{
			alpha: cfg.Analysis.DefaultAlpha,
			power: cfg.Analysis.DefaultPower,
		},
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.fail(c, errors.InternalError(fmt.Sprintf("unexpected failure: %v", recovered)))
	}))
	s.router.Use(requestID())
	s.router.Use(requestLogger(s.logger))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/v1")
	v1.POST("/sample-size", s.handleSampleSize)
	v1.POST("/ztest", s.handleZTest)
	v1.POST("/cohens-h", s.handleCohensH)
	v1.POST("/mde", s.handleMDE)

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody("NOT_FOUND", "no route for "+c.Request.Method+" "+c.Request.URL.Path))
	})
}

// Run serves until ctx is cancelled, then shuts down within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.Server.Addr(),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down (timeout %s)", s.config.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
