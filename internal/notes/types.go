package notes

import (
	"time"
)

// Note is a stored note with its loaded relations. Category is nil when
// the note has none; Tags is always non-nil on reads.
type Note struct {
	// ID is the server-assigned identifier.
	ID int64 `json:"id"`

	// Title is the note title, at most 200 characters.
	Title string `json:"title"`

	// Content is the note body.
	Content string `json:"content"`

	// CategoryID references the owning category, if any.
	CategoryID *int64 `json:"category_id"`

	// Category is the loaded category, if any.
	Category *Category `json:"category"`

	// Tags are the tags attached to this note.
	Tags []Tag `json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActionItem is a single actionable task, optionally attached to a note.
type ActionItem struct {
	ID int64 `json:"id"`

	// Description is the task text, never empty.
	Description string `json:"description"`

	// Completed reports whether the item has been marked done.
	Completed bool `json:"completed"`

	// NoteID references the note this item was extracted from, if any.
	NoteID *int64 `json:"note_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag labels notes. Names are unique case-insensitively.
type Tag struct {
	ID int64 `json:"id"`

	// Name is the tag name, trimmed, at most 50 characters.
	Name string `json:"name"`

	// Color is an optional display color, at most 20 characters.
	Color *string `json:"color"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category groups notes. Names are unique case-insensitively.
type Category struct {
	ID int64 `json:"id"`

	// Name is the category name, trimmed, at most 100 characters.
	Name string `json:"name"`

	// Description is an optional free-form description.
	Description *string `json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateNoteRequest carries the fields for creating a note. It doubles
// as the full-replace payload: a nil CategoryID clears the category and
// a nil or empty TagIDs clears the tags.
type CreateNoteRequest struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	CategoryID *int64  `json:"category_id"`
	TagIDs     []int64 `json:"tag_ids"`
}

// UpdateNoteRequest carries a partial note update. Nil fields are left
// untouched. A CategoryID of 0 clears the category; a non-nil empty
// TagIDs clears the tags.
type UpdateNoteRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	CategoryID *int64  `json:"category_id"`
	TagIDs     []int64 `json:"tag_ids"`
}

// UpdateItemRequest carries a partial action item update. Nil fields
// are left untouched.
type UpdateItemRequest struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// TagRequest carries the fields for creating a tag. It doubles as the
// full-replace payload: a nil Color clears the color.
type TagRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

// UpdateTagRequest carries a partial tag update. Nil fields are left
// untouched.
type UpdateTagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// CategoryRequest carries the fields for creating a category. It
// doubles as the full-replace payload: a nil Description clears the
// description.
type CategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateCategoryRequest carries a partial category update. Nil fields
// are left untouched.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// NoteFilter narrows note listings.
type NoteFilter struct {
	// Query matches notes whose title or content contains the text.
	Query string

	// CategoryID keeps only notes in the given category.
	CategoryID *int64

	// TagID keeps only notes carrying the given tag.
	TagID *int64
}

// ItemFilter narrows action item listings.
type ItemFilter struct {
	// Completed keeps only items with the given completion state.
	Completed *bool

	// NoteID keeps only items attached to the given note.
	NoteID *int64
}

// SearchRequest is a paginated full-text note search.
type SearchRequest struct {
	// Query is the text to match against titles and contents. Required.
	Query string

	// Page is the 1-based page number. Defaults to 1.
	Page int

	// PageSize is the number of notes per page, 1..100. Defaults to 10.
	PageSize int

	// Sort is "title_asc" for title order; anything else returns newest
	// notes first.
	Sort string
}

// SearchResult is one page of search matches plus the total count
// across all pages.
type SearchResult struct {
	Items    []*Note `json:"items"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// ExtractResult reports a completed extraction: the persisted items and
// the id of the saved note, if one was requested.
type ExtractResult struct {
	NoteID *int64        `json:"note_id"`
	Items  []*ActionItem `json:"items"`
}
