package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/notesd/internal/notes"
)

// handleListNotes returns notes filtered by q, category_id, and tag_id.
func (s *Server) handleListNotes(c echo.Context) error {
	opts, err := listOptions(c)
	if err != nil {
		return s.writeError(c, err)
	}

	filter := notes.NoteFilter{Query: c.QueryParam("q")}
	if filter.CategoryID, err = queryInt(c, "category_id"); err != nil {
		return s.writeError(c, err)
	}
	if filter.TagID, err = queryInt(c, "tag_id"); err != nil {
		return s.writeError(c, err)
	}

	found, err := s.services.Notes.List(c.Request().Context(), filter, opts)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, found)
}

// handleCreateNote stores a new note.
func (s *Server) handleCreateNote(c echo.Context) error {
	var req notes.CreateNoteRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	note, err := s.services.Notes.Create(c.Request().Context(), req)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, note)
}

// handleSearchNotes runs a paginated full-text search.
func (s *Server) handleSearchNotes(c echo.Context) error {
	req := notes.SearchRequest{
		Query: c.QueryParam("q"),
		Sort:  c.QueryParam("sort"),
	}

	page, err := queryInt(c, "page")
	if err != nil {
		return s.writeError(c, err)
	}
	if page != nil {
		req.Page = int(*page)
	}
	size, err := queryInt(c, "page_size")
	if err != nil {
		return s.writeError(c, err)
	}
	if size != nil {
		req.PageSize = int(*size)
	}

	result, err := s.services.Notes.Search(c.Request().Context(), req)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// handleGetNote returns one note with its relations.
func (s *Server) handleGetNote(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	note, err := s.services.Notes.Get(c.Request().Context(), id)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, note)
}

// handleReplaceNote overwrites a note in full.
func (s *Server) handleReplaceNote(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req notes.CreateNoteRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	note, err := s.services.Notes.Replace(c.Request().Context(), id, req)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, note)
}

// handleUpdateNote applies a partial update to a note.
func (s *Server) handleUpdateNote(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req notes.UpdateNoteRequest
	if err := s.bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	note, err := s.services.Notes.Update(c.Request().Context(), id, req)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, note)
}

// handleDeleteNote removes a note.
func (s *Server) handleDeleteNote(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	if err := s.services.Notes.Delete(c.Request().Context(), id); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
