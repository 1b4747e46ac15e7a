package notes_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/notes"
	"github.com/fyrsmithlabs/notesd/internal/storage/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(sqlite.Options{
		Path: filepath.Join(t.TempDir(), "notes.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newNoteService(t *testing.T, store *sqlite.Store) notes.NoteService {
	t.Helper()
	svc, err := notes.NewNoteService(store.Notes(), store.Tags(), store.Categories(), zap.NewNop())
	require.NoError(t, err)
	return svc
}

func newItemService(t *testing.T, store *sqlite.Store) notes.ItemService {
	t.Helper()
	svc, err := notes.NewItemService(store.Items(), zap.NewNop())
	require.NoError(t, err)
	return svc
}

func newTagService(t *testing.T, store *sqlite.Store) notes.TagService {
	t.Helper()
	svc, err := notes.NewTagService(store.Tags(), zap.NewNop())
	require.NoError(t, err)
	return svc
}

func newCategoryService(t *testing.T, store *sqlite.Store) notes.CategoryService {
	t.Helper()
	svc, err := notes.NewCategoryService(store.Categories(), zap.NewNop())
	require.NoError(t, err)
	return svc
}

func strPtr(s string) *string { return &s }

func intPtr(i int64) *int64 { return &i }

func boolPtr(b bool) *bool { return &b }
