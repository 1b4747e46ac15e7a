package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/notesd/internal/notes"
)

// handleListTags returns tags, paginated and sorted.
func (s *Server) handleListTags(c echo.Context) error {
	opts, err := listOptions(c)
	if err != nil {
		return s.writeError(c, err)
	}

	found, err := s.services.Tags.List(c.Request().Context(), opts)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, found)
}

// handleCreateTag stores a new tag.
func (s *Server) handleCreateTag(c echo.Context) error {
	var req notes.TagRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	tag, err := s.services.Tags.Create(c.Request().Context(), req)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, tag)
}

// handleGetTag returns one tag.
func (s *Server) handleGetTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	tag, err := s.services.Tags.Get(c.Request().Context(), id)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, tag)
}

// handleReplaceTag overwrites a tag in full.
func (s *Server) handleReplaceTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req notes.TagRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	tag, err := s.services.Tags.Replace(c.Request().Context(), id, req)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, tag)
}

// handleUpdateTag applies a partial update to a tag.
func (s *Server) handleUpdateTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req notes.UpdateTagRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	tag, err := s.services.Tags.Update(c.Request().Context(), id, req)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, tag)
}

// handleDeleteTag removes a tag.
func (s *Server) handleDeleteTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	if err := s.services.Tags.Delete(c.Request().Context(), id); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
