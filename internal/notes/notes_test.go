package notes_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/notes"
	"github.com/fyrsmithlabs/notesd/internal/storage"
)

func TestNewNoteServiceValidation(t *testing.T) {
	store := newStore(t)

	_, err := notes.NewNoteService(nil, store.Tags(), store.Categories(), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "note store is required")

	_, err = notes.NewNoteService(store.Notes(), store.Tags(), store.Categories(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logger is required")
}

func TestNoteServiceCreateValidation(t *testing.T) {
	svc := newNoteService(t, newStore(t))
	ctx := context.Background()

	tests := []struct {
		name string
		req  notes.CreateNoteRequest
		msg  string
	}{
		{
			name: "empty title",
			req:  notes.CreateNoteRequest{Title: "", Content: "body"},
			msg:  "Field cannot be empty or contain only whitespace",
		},
		{
			name: "whitespace title",
			req:  notes.CreateNoteRequest{Title: "   ", Content: "body"},
			msg:  "Field cannot be empty or contain only whitespace",
		},
		{
			name: "title too long",
			req:  notes.CreateNoteRequest{Title: strings.Repeat("x", 201), Content: "body"},
			msg:  "Title must be at most 200 characters",
		},
		{
			name: "whitespace content",
			req:  notes.CreateNoteRequest{Title: "ok", Content: " \t "},
			msg:  "Field cannot be empty or contain only whitespace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, notes.ErrValidation)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestNoteServiceCreateTrimsFields(t *testing.T) {
	svc := newNoteService(t, newStore(t))

	note, err := svc.Create(context.Background(), notes.CreateNoteRequest{
		Title:   "  Meeting notes  ",
		Content: "\nDiscuss roadmap\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "Meeting notes", note.Title)
	assert.Equal(t, "Discuss roadmap", note.Content)
	assert.NotNil(t, note.Tags)
	assert.Empty(t, note.Tags)
	assert.Nil(t, note.Category)
}

func TestNoteServiceCreateWithRelations(t *testing.T) {
	store := newStore(t)
	svc := newNoteService(t, store)
	ctx := context.Background()

	category := &notes.Category{Name: "Work"}
	require.NoError(t, store.Categories().Create(ctx, category))
	tag := &notes.Tag{Name: "urgent"}
	require.NoError(t, store.Tags().Create(ctx, tag))

	note, err := svc.Create(ctx, notes.CreateNoteRequest{
		Title:      "Planning",
		Content:    "sprint goals",
		CategoryID: &category.ID,
		TagIDs:     []int64{tag.ID, tag.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, note.Category)
	assert.Equal(t, "Work", note.Category.Name)
	require.Len(t, note.Tags, 1)
	assert.Equal(t, tag.ID, note.Tags[0].ID)

	// Reads return the same relations.
	got, err := svc.Get(ctx, note.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	require.Len(t, got.Tags, 1)
}

func TestNoteServiceCreateUnknownCategory(t *testing.T) {
	svc := newNoteService(t, newStore(t))

	_, err := svc.Create(context.Background(), notes.CreateNoteRequest{
		Title:      "ok",
		Content:    "ok",
		CategoryID: intPtr(99),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, notes.ErrNotFound)
	assert.Equal(t, "Category with id 99 not found", err.Error())
}

func TestNoteServiceCreateUnknownTags(t *testing.T) {
	store := newStore(t)
	svc := newNoteService(t, store)
	ctx := context.Background()

	tag := &notes.Tag{Name: "real"}
	require.NoError(t, store.Tags().Create(ctx, tag))

	_, err := svc.Create(ctx, notes.CreateNoteRequest{
		Title:   "ok",
		Content: "ok",
		TagIDs:  []int64{tag.ID, 7, 3},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, notes.ErrNotFound)
	assert.Equal(t, "Tags with ids {3, 7} not found", err.Error())
}

func TestNoteServiceGetNotFound(t *testing.T) {
	svc := newNoteService(t, newStore(t))

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, notes.ErrNotFound)
	assert.Equal(t, "Note with id 42 not found", err.Error())
}

func TestNoteServiceListValidation(t *testing.T) {
	svc := newNoteService(t, newStore(t))
	ctx := context.Background()

	tests := []struct {
		name string
		opts storage.ListOptions
		msg  string
	}{
		{name: "negative skip", opts: storage.ListOptions{Skip: -1, Limit: 10}, msg: "skip must be greater than or equal to 0"},
		{name: "zero limit", opts: storage.ListOptions{Limit: 0}, msg: "limit must be between 1 and 200"},
		{name: "limit too large", opts: storage.ListOptions{Limit: 201}, msg: "limit must be between 1 and 200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.List(ctx, notes.NoteFilter{}, tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, notes.ErrValidation)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestNoteServiceSearch(t *testing.T) {
	store := newStore(t)
	svc := newNoteService(t, store)
	ctx := context.Background()

	for _, title := range []string{"project alpha", "project beta", "groceries"} {
		_, err := svc.Create(ctx, notes.CreateNoteRequest{Title: title, Content: "body"})
		require.NoError(t, err)
	}

	result, err := svc.Search(ctx, notes.SearchRequest{Query: "project", PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, result.PageSize)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "project beta", result.Items[0].Title)

	second, err := svc.Search(ctx, notes.SearchRequest{Query: "project", Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "project alpha", second.Items[0].Title)

	// Pages past the matches come back empty but keep the total.
	beyond, err := svc.Search(ctx, notes.SearchRequest{Query: "project", Page: 5, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, int64(2), beyond.Total)

	byTitle, err := svc.Search(ctx, notes.SearchRequest{Query: "project", Sort: "title_asc"})
	require.NoError(t, err)
	require.Len(t, byTitle.Items, 2)
	assert.Equal(t, "project alpha", byTitle.Items[0].Title)
	assert.Equal(t, 10, byTitle.PageSize)
}

func TestNoteServiceSearchValidation(t *testing.T) {
	svc := newNoteService(t, newStore(t))
	ctx := context.Background()

	_, err := svc.Search(ctx, notes.SearchRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, notes.ErrValidation)
	assert.Equal(t, "q must not be empty", err.Error())

	_, err = svc.Search(ctx, notes.SearchRequest{Query: "x", Page: -1})
	require.Error(t, err)
	assert.Equal(t, "page must be greater than or equal to 1", err.Error())

	_, err = svc.Search(ctx, notes.SearchRequest{Query: "x", PageSize: 101})
	require.Error(t, err)
	assert.Equal(t, "page_size must be between 1 and 100", err.Error())
}

func TestNoteServiceReplace(t *testing.T) {
	store := newStore(t)
	svc := newNoteService(t, store)
	ctx := context.Background()

	category := &notes.Category{Name: "Work"}
	require.NoError(t, store.Categories().Create(ctx, category))
	tag := &notes.Tag{Name: "urgent"}
	require.NoError(t, store.Tags().Create(ctx, tag))

	note, err := svc.Create(ctx, notes.CreateNoteRequest{
		Title:      "Original",
		Content:    "original body",
		CategoryID: &category.ID,
		TagIDs:     []int64{tag.ID},
	})
	require.NoError(t, err)

	// A replace without category or tags clears both.
	replaced, err := svc.Replace(ctx, note.ID, notes.CreateNoteRequest{
		Title:   "Replaced",
		Content: "new body",
	})
	require.NoError(t, err)
	assert.Equal(t, "Replaced", replaced.Title)
	assert.Nil(t, replaced.CategoryID)
	assert.Nil(t, replaced.Category)
	assert.Empty(t, replaced.Tags)

	got, err := svc.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Replaced", got.Title)
	assert.Nil(t, got.Category)
	assert.Empty(t, got.Tags)

	_, err = svc.Replace(ctx, 999, notes.CreateNoteRequest{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, notes.ErrNotFound)
}

func TestNoteServiceUpdate(t *testing.T) {
	store := newStore(t)
	svc := newNoteService(t, store)
	ctx := context.Background()

	category := &notes.Category{Name: "Work"}
	require.NoError(t, store.Categories().Create(ctx, category))
	tag := &notes.Tag{Name: "urgent"}
	require.NoError(t, store.Tags().Create(ctx, tag))

	note, err := svc.Create(ctx, notes.CreateNoteRequest{
		Title:      "Original",
		Content:    "body",
		CategoryID: &category.ID,
		TagIDs:     []int64{tag.ID},
	})
	require.NoError(t, err)

	// Partial update touches only the named fields.
	patched, err := svc.Update(ctx, note.ID, notes.UpdateNoteRequest{Title: strPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", patched.Title)
	assert.Equal(t, "body", patched.Content)
	require.NotNil(t, patched.Category)
	require.Len(t, patched.Tags, 1)

	// category_id 0 detaches the category.
	patched, err = svc.Update(ctx, note.ID, notes.UpdateNoteRequest{CategoryID: intPtr(0)})
	require.NoError(t, err)
	assert.Nil(t, patched.CategoryID)
	assert.Nil(t, patched.Category)
	require.Len(t, patched.Tags, 1)

	// An empty tag id list clears the tags.
	patched, err = svc.Update(ctx, note.ID, notes.UpdateNoteRequest{TagIDs: []int64{}})
	require.NoError(t, err)
	assert.Empty(t, patched.Tags)

	_, err = svc.Update(ctx, note.ID, notes.UpdateNoteRequest{CategoryID: intPtr(12345)})
	require.Error(t, err)
	assert.Equal(t, "Category with id 12345 not found", err.Error())

	_, err = svc.Update(ctx, note.ID, notes.UpdateNoteRequest{Title: strPtr("  ")})
	assert.ErrorIs(t, err, notes.ErrValidation)
}

func TestNoteServiceDelete(t *testing.T) {
	store := newStore(t)
	svc := newNoteService(t, store)
	ctx := context.Background()

	note, err := svc.Create(ctx, notes.CreateNoteRequest{Title: "Doomed", Content: "body"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, note.ID))

	_, err = svc.Get(ctx, note.ID)
	assert.ErrorIs(t, err, notes.ErrNotFound)

	err = svc.Delete(ctx, note.ID)
	require.Error(t, err)
	assert.Equal(t, fmt.Sprintf("Note with id %d not found", note.ID), err.Error())
}
