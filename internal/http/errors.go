package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/notes"
	apiv1 "github.com/fyrsmithlabs/notesd/pkg/api/v1"
)

// Fault details never leak to clients. 5xx bodies carry these fixed
// messages instead.
const (
	internalErrorMessage    = "An internal server error occurred"
	unavailableErrorMessage = "Database service temporarily unavailable"
)

// writeError maps a service error onto the API error body.
func (s *Server) writeError(c echo.Context, err error) error {
	var status int
	var code, message string

	switch {
	case errors.Is(err, notes.ErrNotFound):
		status, code, message = http.StatusNotFound, apiv1.CodeNotFound, err.Error()
	case errors.Is(err, notes.ErrConflict):
		status, code, message = http.StatusConflict, apiv1.CodeDuplicate, err.Error()
	case errors.Is(err, notes.ErrValidation):
		status, code, message = http.StatusUnprocessableEntity, apiv1.CodeValidationFailed, err.Error()
	case errors.Is(err, notes.ErrUnavailable):
		status, code, message = http.StatusServiceUnavailable, apiv1.CodeUnavailable, unavailableErrorMessage
	default:
		status, code, message = http.StatusInternalServerError, apiv1.CodeInternal, internalErrorMessage
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
	}

	return c.JSON(status, apiv1.ErrorResponse{ErrorCode: code, Message: message})
}

// handleEchoError renders router-level errors (unknown routes, method
// mismatches, panics) in the same body shape as service errors.
func (s *Server) handleEchoError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := internalErrorMessage

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}

	var code string
	switch status {
	case http.StatusNotFound:
		code = apiv1.CodeNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = apiv1.CodeValidationFailed
	default:
		code = apiv1.CodeInternal
		if status == http.StatusInternalServerError {
			message = internalErrorMessage
			s.logger.Error("request failed",
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err))
		}
	}

	if jsonErr := c.JSON(status, apiv1.ErrorResponse{ErrorCode: code, Message: message}); jsonErr != nil {
		s.logger.Error("failed to write error response", zap.Error(jsonErr))
	}
}
