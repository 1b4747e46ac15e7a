package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/notesd/internal/notes"
	apiv1 "github.com/fyrsmithlabs/notesd/pkg/api/v1"
)

func tagURL(id int64) string {
	return fmt.Sprintf("/api/v1/tags/%d", id)
}

func createTestTag(t *testing.T, server *Server, body map[string]any) notes.Tag {
	t.Helper()
	rec := doRequest(t, server, http.MethodPost, "/api/v1/tags", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tag notes.Tag
	decodeBody(t, rec, &tag)
	return tag
}

func TestCreateTag(t *testing.T) {
	server := setupTestServer(t)

	tag := createTestTag(t, server, map[string]any{"name": "work", "color": "#FF0000"})
	assert.NotZero(t, tag.ID)
	assert.Equal(t, "work", tag.Name)
	require.NotNil(t, tag.Color)
	assert.Equal(t, "#FF0000", *tag.Color)

	t.Run("serializes missing color as null", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/tags", map[string]any{"name": "plain"})
		require.Equal(t, http.StatusCreated, rec.Code)

		var raw map[string]any
		decodeBody(t, rec, &raw)
		assert.Contains(t, raw, "color")
		assert.Nil(t, raw["color"])
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/tags", map[string]any{"name": "WORK"})
		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp apiv1.ErrorResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, apiv1.CodeDuplicate, resp.ErrorCode)
		assert.Equal(t, "Tag with name 'WORK' already exists", resp.Message)
	})
}

func TestReplaceTag(t *testing.T) {
	server := setupTestServer(t)

	tag := createTestTag(t, server, map[string]any{"name": "reading", "color": "#AA0000"})

	// PUT without a color clears it.
	rec := doRequest(t, server, http.MethodPut, tagURL(tag.ID), map[string]any{"name": "books"})
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	decodeBody(t, rec, &raw)
	assert.Equal(t, "books", raw["name"])
	assert.Nil(t, raw["color"])
}

func TestUpdateTag(t *testing.T) {
	server := setupTestServer(t)

	tag := createTestTag(t, server, map[string]any{"name": "errands", "color": "#00FF00"})
	other := createTestTag(t, server, map[string]any{"name": "chores"})

	t.Run("patch keeps unnamed fields", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPatch, tagURL(tag.ID), map[string]any{"color": "#0000FF"})
		require.Equal(t, http.StatusOK, rec.Code)

		var updated notes.Tag
		decodeBody(t, rec, &updated)
		assert.Equal(t, "errands", updated.Name)
		require.NotNil(t, updated.Color)
		assert.Equal(t, "#0000FF", *updated.Color)
	})

	t.Run("rename onto another tag conflicts", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPatch, tagURL(other.ID), map[string]any{"name": "Errands"})
		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp apiv1.ErrorResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, apiv1.CodeDuplicate, resp.ErrorCode)
	})
}

func TestTagList(t *testing.T) {
	server := setupTestServer(t)

	createTestTag(t, server, map[string]any{"name": "banana"})
	createTestTag(t, server, map[string]any{"name": "apple"})

	rec := doRequest(t, server, http.MethodGet, "/api/v1/tags?sort=name", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var found []notes.Tag
	decodeBody(t, rec, &found)
	require.Len(t, found, 2)
	assert.Equal(t, "apple", found[0].Name)
}

func TestDeleteTag(t *testing.T) {
	server := setupTestServer(t)

	tag := createTestTag(t, server, map[string]any{"name": "fleeting"})

	rec := doRequest(t, server, http.MethodDelete, tagURL(tag.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, server, http.MethodGet, tagURL(tag.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp apiv1.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, fmt.Sprintf("Tag with id %d not found", tag.ID), resp.Message)
}

func TestCategoryEndpoints(t *testing.T) {
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/categories", map[string]any{
		"name":        "Work",
		"description": "projects",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var category notes.Category
	decodeBody(t, rec, &category)
	assert.Equal(t, "Work", category.Name)
	require.NotNil(t, category.Description)

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/categories", map[string]any{"name": "work"})
		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp apiv1.ErrorResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "Category with name 'work' already exists", resp.Message)
	})

	t.Run("replace clears the description", func(t *testing.T) {
		url := fmt.Sprintf("/api/v1/categories/%d", category.ID)
		rec := doRequest(t, server, http.MethodPut, url, map[string]any{"name": "Archive"})
		require.Equal(t, http.StatusOK, rec.Code)

		var raw map[string]any
		decodeBody(t, rec, &raw)
		assert.Equal(t, "Archive", raw["name"])
		assert.Nil(t, raw["description"])
	})

	t.Run("missing id is 404", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/v1/categories/77", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp apiv1.ErrorResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "Category with id 77 not found", resp.Message)
	})
}
