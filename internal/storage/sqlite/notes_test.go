package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/notesd/internal/notes"
	"github.com/fyrsmithlabs/notesd/internal/storage"
	"github.com/fyrsmithlabs/notesd/internal/storage/sqlite"
)

// seedRelations creates a category, two tags, and a note wired to all
// of them.
func seedRelations(t *testing.T, store *sqlite.Store) (*notes.Category, []*notes.Tag, *notes.Note) {
	t.Helper()
	ctx := context.Background()

	category := &notes.Category{Name: "Work"}
	require.NoError(t, store.Categories().Create(ctx, category))

	urgent := &notes.Tag{Name: "urgent", Color: strPtr("#FF0000")}
	later := &notes.Tag{Name: "later"}
	require.NoError(t, store.Tags().Create(ctx, urgent))
	require.NoError(t, store.Tags().Create(ctx, later))

	note := &notes.Note{
		Title:      "Sprint planning",
		Content:    "Plan the next sprint",
		CategoryID: &category.ID,
		Tags:       []notes.Tag{*urgent, *later},
	}
	require.NoError(t, store.Notes().Create(ctx, note))

	return category, []*notes.Tag{urgent, later}, note
}

func TestNoteStoreCreateAndGetWithRelations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	category, tags, note := seedRelations(t, store)

	got, err := store.Notes().Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sprint planning", got.Title)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, category.ID, *got.CategoryID)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Work", got.Category.Name)
	require.Len(t, got.Tags, 2)
	assert.Equal(t, tags[0].ID, got.Tags[0].ID)
	assert.Equal(t, tags[1].ID, got.Tags[1].ID)
	require.NotNil(t, got.Tags[0].Color)
	assert.Equal(t, "#FF0000", *got.Tags[0].Color)
}

func TestNoteStoreGetWithoutRelations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	note := &notes.Note{Title: "Bare", Content: "no relations"}
	require.NoError(t, store.Notes().Create(ctx, note))

	got, err := store.Notes().Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
}

func TestNoteStoreUpdateReplacesTagLinks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, tags, note := seedRelations(t, store)

	note.Tags = []notes.Tag{*tags[1]}
	require.NoError(t, store.Notes().Update(ctx, note))

	got, err := store.Notes().Get(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, tags[1].ID, got.Tags[0].ID)

	note.Tags = nil
	require.NoError(t, store.Notes().Update(ctx, note))

	got, err = store.Notes().Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestNoteStoreDeleteKeepsTags(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, tags, note := seedRelations(t, store)

	require.NoError(t, store.Notes().Delete(ctx, note.ID))

	_, err := store.Notes().Get(ctx, note.ID)
	assert.ErrorIs(t, err, notes.ErrNotFound)

	// Tag rows survive the note.
	for _, tag := range tags {
		_, err := store.Tags().Get(ctx, tag.ID)
		assert.NoError(t, err)
	}
}

func TestNoteStoreCategoryDeleteClearsReference(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	category, _, note := seedRelations(t, store)

	require.NoError(t, store.Categories().Delete(ctx, category.ID))

	got, err := store.Notes().Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
}

func TestNoteStoreListFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	category, tags, note := seedRelations(t, store)

	plain := &notes.Note{Title: "Groceries", Content: "buy milk and bread"}
	require.NoError(t, store.Notes().Create(ctx, plain))

	all, err := store.Notes().ListNotes(ctx, notes.NoteFilter{}, storage.ListOptions{Sort: "id"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Contains match is case-insensitive over title and content.
	byQuery, err := store.Notes().ListNotes(ctx,
		notes.NoteFilter{Query: "MILK"}, storage.ListOptions{})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, plain.ID, byQuery[0].ID)

	byCategory, err := store.Notes().ListNotes(ctx,
		notes.NoteFilter{CategoryID: &category.ID}, storage.ListOptions{})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, note.ID, byCategory[0].ID)

	byTag, err := store.Notes().ListNotes(ctx,
		notes.NoteFilter{TagID: &tags[0].ID}, storage.ListOptions{})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, note.ID, byTag[0].ID)

	none, err := store.Notes().ListNotes(ctx,
		notes.NoteFilter{Query: "no such text"}, storage.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNoteStoreSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &notes.Note{Title: "Project kickoff", Content: "prepare slides"}
	second := &notes.Note{Title: "Standup", Content: "project status update"}
	third := &notes.Note{Title: "Groceries", Content: "milk"}
	for _, note := range []*notes.Note{first, second, third} {
		require.NoError(t, store.Notes().Create(ctx, note))
	}

	// Total counts every match even when the page holds fewer.
	page, total, err := store.Notes().SearchNotes(ctx, "project", 0, 1, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	assert.Equal(t, second.ID, page[0].ID)

	rest, total, err := store.Notes().SearchNotes(ctx, "project", 1, 1, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rest, 1)
	assert.Equal(t, first.ID, rest[0].ID)

	byTitle, _, err := store.Notes().SearchNotes(ctx, "project", 0, 10, "title_asc")
	require.NoError(t, err)
	require.Len(t, byTitle, 2)
	assert.Equal(t, "Project kickoff", byTitle[0].Title)
	assert.Equal(t, "Standup", byTitle[1].Title)

	_, total, err = store.Notes().SearchNotes(ctx, "nothing here", 0, 10, "")
	require.NoError(t, err)
	assert.Zero(t, total)
}
