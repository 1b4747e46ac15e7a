package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/notesd/internal/notes"
)

// ExtractRequest is the request body for the extract endpoints.
type ExtractRequest struct {
	Text     string `json:"text"`
	SaveNote bool   `json:"save_note"`
}

// ExtractItem is one persisted action item in an extract response.
type ExtractItem struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// ExtractResponse is the response body for the extract endpoints.
type ExtractResponse struct {
	NoteID *int64        `json:"note_id"`
	Items  []ExtractItem `json:"items"`
}

// handleExtract extracts and persists action items with the configured
// extractor.
func (s *Server) handleExtract(c echo.Context) error {
	var req ExtractRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	result, err := s.services.Extract.Extract(c.Request().Context(), req.Text, req.SaveNote)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toExtractResponse(result))
}

// handleExtractLLM extracts and persists action items with the language
// model extractor.
func (s *Server) handleExtractLLM(c echo.Context) error {
	var req ExtractRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	result, err := s.services.Extract.ExtractLLM(c.Request().Context(), req.Text, req.SaveNote)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toExtractResponse(result))
}

func toExtractResponse(result *notes.ExtractResult) ExtractResponse {
	items := make([]ExtractItem, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, ExtractItem{ID: item.ID, Text: item.Description})
	}
	return ExtractResponse{NoteID: result.NoteID, Items: items}
}
