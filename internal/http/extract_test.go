package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiv1 "github.com/fyrsmithlabs/notesd/pkg/api/v1"
)

func TestExtractEndpoint(t *testing.T) {
	server := setupTestServer(t)

	t.Run("persists extracted items", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/extract", map[string]any{
			"text": "Notes from today.\nTODO: review the budget\nCall the vendor back!",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp ExtractResponse
		decodeBody(t, rec, &resp)
		assert.Nil(t, resp.NoteID)
		require.Len(t, resp.Items, 2)
		assert.NotZero(t, resp.Items[0].ID)
		assert.Equal(t, "TODO: review the budget", resp.Items[0].Text)
		assert.Equal(t, "Call the vendor back!", resp.Items[1].Text)
	})

	t.Run("save_note attaches items to a note", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/extract", map[string]any{
			"text":      "Standup notes\n- TODO: fix the login bug",
			"save_note": true,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ExtractResponse
		decodeBody(t, rec, &resp)
		require.NotNil(t, resp.NoteID)

		// The note is readable through the notes API.
		rec = doRequest(t, server, http.MethodGet, noteURL(*resp.NoteID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var raw map[string]any
		decodeBody(t, rec, &raw)
		assert.Equal(t, "Standup notes", raw["title"])
	})

	t.Run("items serialize as empty array when none found", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/extract", map[string]any{
			"text": "Nothing actionable here.",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var raw map[string]any
		decodeBody(t, rec, &raw)
		assert.Equal(t, []any{}, raw["items"])
		assert.Nil(t, raw["note_id"])
	})

	t.Run("rejects empty text", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/extract", map[string]any{
			"text": "",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp apiv1.ErrorResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, apiv1.CodeValidationFailed, resp.ErrorCode)
		assert.Equal(t, "text must not be empty", resp.Message)
	})
}

func TestExtractLLMEndpoint(t *testing.T) {
	// The test services carry no language model extractor.
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/extract/llm", map[string]any{
		"text": "do things",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp apiv1.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, apiv1.CodeValidationFailed, resp.ErrorCode)
	assert.Equal(t, "llm extraction is not configured", resp.Message)
}
