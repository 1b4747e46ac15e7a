package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/notesd/internal/notes"
	"github.com/fyrsmithlabs/notesd/internal/storage"
)

func TestCategoryStoreCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	category := &notes.Category{Name: "Work", Description: strPtr("Job related")}
	require.NoError(t, store.Categories().Create(ctx, category))
	assert.NotZero(t, category.ID)

	got, err := store.Categories().Get(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Job related", *got.Description)

	got.Description = nil
	require.NoError(t, store.Categories().Update(ctx, got))

	updated, err := store.Categories().Get(ctx, category.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.Description)

	require.NoError(t, store.Categories().Delete(ctx, category.ID))
	_, err = store.Categories().Get(ctx, category.ID)
	assert.ErrorIs(t, err, notes.ErrNotFound)
}

func TestCategoryStoreUniqueNameIsCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Categories().Create(ctx, &notes.Category{Name: "Personal"}))

	err := store.Categories().Create(ctx, &notes.Category{Name: "PERSONAL"})
	assert.ErrorIs(t, err, notes.ErrConflict)
}

func TestCategoryStoreFindByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	category := &notes.Category{Name: "Ideas"}
	require.NoError(t, store.Categories().Create(ctx, category))

	found, err := store.Categories().FindByName(ctx, "iDeAs")
	require.NoError(t, err)
	assert.Equal(t, category.ID, found.ID)

	_, err = store.Categories().FindByName(ctx, "absent")
	assert.ErrorIs(t, err, notes.ErrNotFound)
}

func TestCategoryStoreListPagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"one", "two", "three", "four"} {
		require.NoError(t, store.Categories().Create(ctx, &notes.Category{Name: name}))
	}

	page, err := store.Categories().List(ctx, storage.ListOptions{Skip: 1, Limit: 2, Sort: "id"})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "two", page[0].Name)
	assert.Equal(t, "three", page[1].Name)
}
