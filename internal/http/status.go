package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StatusResponse is the response body for GET /api/v1/status.
type StatusResponse struct {
	Status  string       `json:"status"`
	Version string       `json:"version,omitempty"`
	Counts  StatusCounts `json:"counts"`
}

// StatusCounts contains count information for stored resources. A count
// of -1 means it could not be determined.
type StatusCounts struct {
	Notes       int64 `json:"notes"`
	ActionItems int64 `json:"action_items"`
	Tags        int64 `json:"tags"`
	Categories  int64 `json:"categories"`
}

// StatusCountsFunc supplies entity counts for the status endpoint.
type StatusCountsFunc func(ctx context.Context) (StatusCounts, error)

func unknownCounts() StatusCounts {
	return StatusCounts{Notes: -1, ActionItems: -1, Tags: -1, Categories: -1}
}

// handleStatus reports service health, version, and entity counts.
func (s *Server) handleStatus(c echo.Context) error {
	resp := StatusResponse{
		Status:  "ok",
		Version: s.config.Version,
		Counts:  unknownCounts(),
	}

	if s.services.Counts != nil {
		counts, err := s.services.Counts(c.Request().Context())
		if err != nil {
			s.logger.Warn("failed to count entities", zap.Error(err))
		} else {
			resp.Counts = counts
		}
	}

	return c.JSON(http.StatusOK, resp)
}
