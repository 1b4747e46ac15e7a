package notes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/config"
	"github.com/fyrsmithlabs/notesd/internal/extract"
	"github.com/fyrsmithlabs/notesd/internal/notes"
	"github.com/fyrsmithlabs/notesd/internal/storage"
	"github.com/fyrsmithlabs/notesd/internal/storage/sqlite"
)

func newExtractService(t *testing.T, store *sqlite.Store, opts notes.ExtractServiceOptions) notes.ExtractService {
	t.Helper()
	svc, err := notes.NewExtractService(opts, store.Notes(), store.Items(), zap.NewNop())
	require.NoError(t, err)
	return svc
}

func rulesOptions() notes.ExtractServiceOptions {
	return notes.ExtractServiceOptions{
		Extractor: extract.NewRulesExtractor(),
		Provider:  "rules",
	}
}

func TestExtractServicePersistsItems(t *testing.T) {
	store := newStore(t)
	svc := newExtractService(t, store, rulesOptions())
	ctx := context.Background()

	text := "Met with the design team today.\n" +
		"TODO: review the budget\n" +
		"The weather was nice.\n" +
		"Call the vendor back!"

	result, err := svc.Extract(ctx, text, false)
	require.NoError(t, err)
	assert.Nil(t, result.NoteID)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "TODO: review the budget", result.Items[0].Description)
	assert.Equal(t, "Call the vendor back!", result.Items[1].Description)

	// Items land in the store without a note reference.
	stored, err := store.Items().ListItems(ctx, notes.ItemFilter{}, storage.ListOptions{Limit: storage.DefaultLimit})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, item := range stored {
		assert.Nil(t, item.NoteID)
		assert.False(t, item.Completed)
		assert.NotZero(t, item.ID)
	}
}

func TestExtractServiceSavesNote(t *testing.T) {
	store := newStore(t)
	svc := newExtractService(t, store, rulesOptions())
	ctx := context.Background()

	text := "\nStandup notes\n- TODO: fix the login bug\n"

	result, err := svc.Extract(ctx, text, true)
	require.NoError(t, err)
	require.NotNil(t, result.NoteID)
	require.Len(t, result.Items, 1)
	require.NotNil(t, result.Items[0].NoteID)
	assert.Equal(t, *result.NoteID, *result.Items[0].NoteID)

	// The note keeps the source text untouched, titled by its first line.
	note, err := store.Notes().Get(ctx, *result.NoteID)
	require.NoError(t, err)
	assert.Equal(t, "Standup notes", note.Title)
	assert.Equal(t, text, note.Content)

	attached, err := store.Items().ListItems(ctx, notes.ItemFilter{NoteID: result.NoteID}, storage.ListOptions{Limit: storage.DefaultLimit})
	require.NoError(t, err)
	require.Len(t, attached, 1)
	assert.Equal(t, "TODO: fix the login bug", attached[0].Description)
}

func TestExtractServiceNoteTitles(t *testing.T) {
	store := newStore(t)
	svc := newExtractService(t, store, rulesOptions())
	ctx := context.Background()

	// Blank text still saves a note, under the fallback title.
	result, err := svc.Extract(ctx, "   \n \t ", true)
	require.NoError(t, err)
	require.NotNil(t, result.NoteID)
	assert.Empty(t, result.Items)

	note, err := store.Notes().Get(ctx, *result.NoteID)
	require.NoError(t, err)
	assert.Equal(t, "Untitled", note.Title)

	// Long first lines are cut down to the title limit.
	long := strings.Repeat("y", 250)
	result, err = svc.Extract(ctx, long+"\nmore text", true)
	require.NoError(t, err)

	note, err = store.Notes().Get(ctx, *result.NoteID)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("y", 200), note.Title)
}

func TestExtractServiceEmptyText(t *testing.T) {
	svc := newExtractService(t, newStore(t), rulesOptions())

	_, err := svc.Extract(context.Background(), "", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, notes.ErrValidation)
	assert.Equal(t, "text must not be empty", err.Error())
}

func TestExtractServiceLLMNotConfigured(t *testing.T) {
	svc := newExtractService(t, newStore(t), rulesOptions())

	_, err := svc.ExtractLLM(context.Background(), "do things", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, notes.ErrValidation)
	assert.Equal(t, "llm extraction is not configured", err.Error())
}

// chatCompletionsStub serves an OpenAI-style chat completion whose
// message content is the given string.
func chatCompletionsStub(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newLLMService(t *testing.T, store *sqlite.Store, baseURL string) notes.ExtractService {
	t.Helper()
	llm, err := extract.NewLLMExtractor(config.ExtractConfig{
		LLMBaseURL: baseURL,
		LLMModel:   "test-model",
	})
	require.NoError(t, err)

	opts := rulesOptions()
	opts.LLM = llm
	return newExtractService(t, store, opts)
}

func TestExtractServiceLLM(t *testing.T) {
	srv := chatCompletionsStub(t, `{"items":[{"action":"Ship the release"},{"action":"Email the team"}]}`)

	store := newStore(t)
	svc := newLLMService(t, store, srv.URL)
	ctx := context.Background()

	result, err := svc.ExtractLLM(ctx, "notes from planning", true)
	require.NoError(t, err)
	require.NotNil(t, result.NoteID)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Ship the release", result.Items[0].Description)
	assert.Equal(t, "Email the team", result.Items[1].Description)

	stored, err := store.Items().ListItems(ctx, notes.ItemFilter{NoteID: result.NoteID}, storage.ListOptions{Limit: storage.DefaultLimit})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestExtractServiceLLMMalformedResponse(t *testing.T) {
	srv := chatCompletionsStub(t, "the model rambled instead of returning JSON")

	svc := newLLMService(t, newStore(t), srv.URL)

	_, err := svc.ExtractLLM(context.Background(), "notes", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, notes.ErrValidation)
	assert.Contains(t, err.Error(), "malformed model response")
}
