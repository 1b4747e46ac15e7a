package notes

import (
	"context"

	"github.com/fyrsmithlabs/notesd/internal/storage"
)

// NoteStore persists notes and their tag links. Create and Update treat
// the entity's Tags as authoritative and synchronize the links; reads
// return notes with Category and Tags loaded.
type NoteStore interface {
	storage.Repository[Note]

	// ListNotes returns notes matching the filter, paginated and sorted.
	ListNotes(ctx context.Context, filter NoteFilter, opts storage.ListOptions) ([]*Note, error)

	// SearchNotes returns one page of notes whose title or content
	// contains query, plus the total match count across all pages.
	// sort is "title_asc" for title order; anything else returns the
	// newest notes first.
	SearchNotes(ctx context.Context, query string, offset, limit int, sort string) ([]*Note, int64, error)
}

// ItemStore persists action items.
type ItemStore interface {
	storage.Repository[ActionItem]

	// ListItems returns items matching the filter, paginated and sorted.
	ListItems(ctx context.Context, filter ItemFilter, opts storage.ListOptions) ([]*ActionItem, error)

	// CreateMany persists the items in one transaction, filling ids and
	// timestamps.
	CreateMany(ctx context.Context, items []*ActionItem) error
}

// TagStore persists tags.
type TagStore interface {
	storage.Repository[Tag]

	// FindByName returns the tag with the given name, compared
	// case-insensitively, or an ErrNotFound error.
	FindByName(ctx context.Context, name string) (*Tag, error)

	// GetMany returns the tags with the given ids, in id order. Missing
	// ids are skipped, not reported.
	GetMany(ctx context.Context, ids []int64) ([]*Tag, error)
}

// CategoryStore persists categories.
type CategoryStore interface {
	storage.Repository[Category]

	// FindByName returns the category with the given name, compared
	// case-insensitively, or an ErrNotFound error.
	FindByName(ctx context.Context, name string) (*Category, error)
}
