package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/notesd/internal/notes"
)

// CreateItemRequest is the request body for POST /api/v1/action-items.
type CreateItemRequest struct {
	Description string `json:"description"`
}

// handleListItems returns action items filtered by completed and
// note_id.
func (s *Server) handleListItems(c echo.Context) error {
	opts, err := listOptions(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var filter notes.ItemFilter
	if filter.Completed, err = queryBool(c, "completed"); err != nil {
		return s.writeError(c, err)
	}
	if filter.NoteID, err = queryInt(c, "note_id"); err != nil {
		return s.writeError(c, err)
	}

	found, err := s.services.Items.List(c.Request().Context(), filter, opts)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, found)
}

// handleCreateItem stores a new action item.
func (s *Server) handleCreateItem(c echo.Context) error {
	var req CreateItemRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	item, err := s.services.Items.Create(c.Request().Context(), req.Description)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// handleGetItem returns one action item.
func (s *Server) handleGetItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	item, err := s.services.Items.Get(c.Request().Context(), id)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// handleCompleteItem marks an action item as done.
func (s *Server) handleCompleteItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	item, err := s.services.Items.Complete(c.Request().Context(), id)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// handleUpdateItem applies a partial update to an action item.
func (s *Server) handleUpdateItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req notes.UpdateItemRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	item, err := s.services.Items.Update(c.Request().Context(), id, req)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// handleDeleteItem removes an action item.
func (s *Server) handleDeleteItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	if err := s.services.Items.Delete(c.Request().Context(), id); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
