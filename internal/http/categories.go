package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/notesd/internal/notes"
)

// handleListCategories returns categories, paginated and sorted.
func (s *Server) handleListCategories(c echo.Context) error {
	opts, err := listOptions(c)
	if err != nil {
		return s.writeError(c, err)
	}

	found, err := s.services.Categories.List(c.Request().Context(), opts)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, found)
}

// handleCreateCategory stores a new category.
func (s *Server) handleCreateCategory(c echo.Context) error {
	var req notes.CategoryRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	category, err := s.services.Categories.Create(c.Request().Context(), req)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// handleGetCategory returns one category.
func (s *Server) handleGetCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	category, err := s.services.Categories.Get(c.Request().Context(), id)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// handleReplaceCategory overwrites a category in full.
func (s *Server) handleReplaceCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req notes.CategoryRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	category, err := s.services.Categories.Replace(c.Request().Context(), id, req)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// handleUpdateCategory applies a partial update to a category.
func (s *Server) handleUpdateCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req notes.UpdateCategoryRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	category, err := s.services.Categories.Update(c.Request().Context(), id, req)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// handleDeleteCategory removes a category. Its notes survive without a
// category.
func (s *Server) handleDeleteCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	if err := s.services.Categories.Delete(c.Request().Context(), id); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
