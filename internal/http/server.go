// Package http provides the HTTP API for notesd.
package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/metrics"
	"github.com/fyrsmithlabs/notesd/internal/notes"
)

// Server provides HTTP endpoints for notesd.
type Server struct {
	echo     *echo.Echo
	services Services
	logger   *zap.Logger
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host    string
	Port    int
	Version string
}

// Services bundles the domain services the API exposes. Counts is
// optional; without it the status endpoint reports unknown counts.
type Services struct {
	Notes      notes.NoteService
	Items      notes.ItemService
	Tags       notes.TagService
	Categories notes.CategoryService
	Extract    notes.ExtractService
	Counts     StatusCountsFunc
}

// NewServer creates a new HTTP server.
func NewServer(services Services, logger *zap.Logger, cfg *Config) (*Server, error) {
	if services.Notes == nil {
		return nil, fmt.Errorf("note service cannot be nil")
	}
	if services.Items == nil {
		return nil, fmt.Errorf("item service cannot be nil")
	}
	if services.Tags == nil {
		return nil, fmt.Errorf("tag service cannot be nil")
	}
	if services.Categories == nil {
		return nil, fmt.Errorf("category service cannot be nil")
	}
	if services.Extract == nil {
		return nil, fmt.Errorf("extract service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8080,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			// The route template keeps metric cardinality bounded.
			method := c.Request().Method
			path := c.Path()
			metrics.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
			metrics.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

			return err
		}
	})

	s := &Server{
		echo:     e,
		services: services,
		logger:   logger,
		config:   cfg,
	}

	e.HTTPErrorHandler = s.handleEchoError

	// Register routes
	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	// Health check and metrics
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API v1 routes
	v1 := s.echo.Group("/api/v1")
	v1.GET("/status", s.handleStatus)

	v1.GET("/notes", s.handleListNotes)
	v1.POST("/notes", s.handleCreateNote)
	v1.GET("/notes/search", s.handleSearchNotes)
	v1.GET("/notes/:id", s.handleGetNote)
	v1.PUT("/notes/:id", s.handleReplaceNote)
	v1.PATCH("/notes/:id", s.handleUpdateNote)
	v1.DELETE("/notes/:id", s.handleDeleteNote)

	v1.GET("/action-items", s.handleListItems)
	v1.POST("/action-items", s.handleCreateItem)
	v1.GET("/action-items/:id", s.handleGetItem)
	v1.PUT("/action-items/:id/complete", s.handleCompleteItem)
	v1.PATCH("/action-items/:id", s.handleUpdateItem)
	v1.DELETE("/action-items/:id", s.handleDeleteItem)

	v1.GET("/tags", s.handleListTags)
	v1.POST("/tags", s.handleCreateTag)
	v1.GET("/tags/:id", s.handleGetTag)
	v1.PUT("/tags/:id", s.handleReplaceTag)
	v1.PATCH("/tags/:id", s.handleUpdateTag)
	v1.DELETE("/tags/:id", s.handleDeleteTag)

	v1.GET("/categories", s.handleListCategories)
	v1.POST("/categories", s.handleCreateCategory)
	v1.GET("/categories/:id", s.handleGetCategory)
	v1.PUT("/categories/:id", s.handleReplaceCategory)
	v1.PATCH("/categories/:id", s.handleUpdateCategory)
	v1.DELETE("/categories/:id", s.handleDeleteCategory)

	v1.POST("/extract", s.handleExtract)
	v1.POST("/extract/llm", s.handleExtractLLM)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// bind decodes the request body, treating malformed input as a
// validation failure.
func (s *Server) bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		s.logger.Warn("invalid request body",
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
		return notes.Validationf("invalid request body")
	}
	return nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, notes.Validationf("id must be an integer")
	}
	return id, nil
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
