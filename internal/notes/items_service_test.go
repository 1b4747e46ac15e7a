package notes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/notesd/internal/notes"
	"github.com/fyrsmithlabs/notesd/internal/storage"
)

func TestItemServiceCreate(t *testing.T) {
	svc := newItemService(t, newStore(t))
	ctx := context.Background()

	item, err := svc.Create(ctx, "  Buy groceries  ")
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "Buy groceries", item.Description)
	assert.False(t, item.Completed)
	assert.Nil(t, item.NoteID)
}

func TestItemServiceCreateValidation(t *testing.T) {
	svc := newItemService(t, newStore(t))
	ctx := context.Background()

	for _, description := range []string{"", "   ", "\t\n"} {
		_, err := svc.Create(ctx, description)
		require.Error(t, err)
		assert.ErrorIs(t, err, notes.ErrValidation)
		assert.Equal(t, "Description cannot be empty or contain only whitespace", err.Error())
	}
}

func TestItemServiceComplete(t *testing.T) {
	svc := newItemService(t, newStore(t))
	ctx := context.Background()

	item, err := svc.Create(ctx, "call the dentist")
	require.NoError(t, err)

	done, err := svc.Complete(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, item.Description, done.Description)

	// Completing twice stays done.
	again, err := svc.Complete(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, again.Completed)

	_, err = svc.Complete(ctx, 404)
	require.Error(t, err)
	assert.Equal(t, "Action item with id 404 not found", err.Error())
}

func TestItemServiceUpdate(t *testing.T) {
	svc := newItemService(t, newStore(t))
	ctx := context.Background()

	item, err := svc.Create(ctx, "draft report")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, item.ID, notes.UpdateItemRequest{
		Description: strPtr("draft quarterly report"),
	})
	require.NoError(t, err)
	assert.Equal(t, "draft quarterly report", updated.Description)
	assert.False(t, updated.Completed)

	// Completed can be toggled on its own.
	updated, err = svc.Update(ctx, item.ID, notes.UpdateItemRequest{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "draft quarterly report", updated.Description)

	updated, err = svc.Update(ctx, item.ID, notes.UpdateItemRequest{Completed: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.Completed)

	_, err = svc.Update(ctx, item.ID, notes.UpdateItemRequest{Description: strPtr("  ")})
	require.Error(t, err)
	assert.ErrorIs(t, err, notes.ErrValidation)
}

func TestItemServiceListFilters(t *testing.T) {
	store := newStore(t)
	svc := newItemService(t, store)
	ctx := context.Background()

	for _, description := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, description)
		require.NoError(t, err)
	}
	_, err := svc.Complete(ctx, 2)
	require.NoError(t, err)

	opts := storage.ListOptions{Limit: storage.DefaultLimit}

	all, err := svc.List(ctx, notes.ItemFilter{}, opts)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	open, err := svc.List(ctx, notes.ItemFilter{Completed: boolPtr(false)}, opts)
	require.NoError(t, err)
	require.Len(t, open, 2)

	done, err := svc.List(ctx, notes.ItemFilter{Completed: boolPtr(true)}, opts)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "second", done[0].Description)

	_, err = svc.List(ctx, notes.ItemFilter{}, storage.ListOptions{Skip: -1, Limit: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, notes.ErrValidation)
}

func TestItemServiceDelete(t *testing.T) {
	svc := newItemService(t, newStore(t))
	ctx := context.Background()

	item, err := svc.Create(ctx, "temporary")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, item.ID))

	_, err = svc.Get(ctx, item.ID)
	assert.ErrorIs(t, err, notes.ErrNotFound)

	err = svc.Delete(ctx, item.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, notes.ErrNotFound)
}
