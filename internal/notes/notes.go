package notes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/storage"
)

// Search pagination bounds.
const (
	defaultSearchPageSize = 10
	maxSearchPageSize     = 100
)

// NoteService provides note management operations.
type NoteService interface {
	// Create validates and stores a new note with its relations.
	Create(ctx context.Context, req CreateNoteRequest) (*Note, error)

	// Get retrieves a note by id with category and tags loaded.
	Get(ctx context.Context, id int64) (*Note, error)

	// List returns notes matching the filter, paginated and sorted.
	List(ctx context.Context, filter NoteFilter, opts storage.ListOptions) ([]*Note, error)

	// Search returns one page of notes matching the query together with
	// the total match count.
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)

	// Replace overwrites every field of an existing note, including its
	// category and tags.
	Replace(ctx context.Context, id int64, req CreateNoteRequest) (*Note, error)

	// Update applies a partial update to an existing note.
	Update(ctx context.Context, id int64, req UpdateNoteRequest) (*Note, error)

	// Delete removes a note. Attached action items go with it; tags
	// survive.
	Delete(ctx context.Context, id int64) error
}

// noteService implements NoteService.
type noteService struct {
	store      NoteStore
	tags       TagStore
	categories CategoryStore
	logger     *zap.Logger
}

// NewNoteService creates a note service backed by the given stores.
func NewNoteService(store NoteStore, tags TagStore, categories CategoryStore, logger *zap.Logger) (NoteService, error) {
	if store == nil {
		return nil, errors.New("note store is required")
	}
	if tags == nil {
		return nil, errors.New("tag store is required")
	}
	if categories == nil {
		return nil, errors.New("category store is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	return &noteService{
		store:      store,
		tags:       tags,
		categories: categories,
		logger:     logger,
	}, nil
}

// Create validates and stores a new note with its relations.
func (s *noteService) Create(ctx context.Context, req CreateNoteRequest) (*Note, error) {
	title, err := validateTitle(req.Title)
	if err != nil {
		return nil, err
	}
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, req.TagIDs)
	if err != nil {
		return nil, err
	}

	note := &Note{
		Title:      title,
		Content:    content,
		CategoryID: req.CategoryID,
		Category:   category,
		Tags:       tags,
	}
	if err := s.store.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.logger.Info("created note",
		zap.Int64("id", note.ID),
		zap.Int("tags", len(note.Tags)))

	return note, nil
}

// Get retrieves a note by id with category and tags loaded.
func (s *noteService) Get(ctx context.Context, id int64) (*Note, error) {
	note, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundf("Note with id %d not found", id)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// List returns notes matching the filter, paginated and sorted.
func (s *noteService) List(ctx context.Context, filter NoteFilter, opts storage.ListOptions) ([]*Note, error) {
	if err := validateListOptions(opts); err != nil {
		return nil, err
	}
	found, err := s.store.ListNotes(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return found, nil
}

// Search returns one page of notes matching the query together with the
// total match count.
func (s *noteService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = defaultSearchPageSize
	}

	if req.Query == "" {
		return nil, Validationf("q must not be empty")
	}
	if req.Page < 1 {
		return nil, Validationf("page must be greater than or equal to 1")
	}
	if req.PageSize < 1 || req.PageSize > maxSearchPageSize {
		return nil, Validationf("page_size must be between 1 and %d", maxSearchPageSize)
	}

	offset := (req.Page - 1) * req.PageSize
	items, total, err := s.store.SearchNotes(ctx, req.Query, offset, req.PageSize, req.Sort)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}

	return &SearchResult{
		Items:    items,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// Replace overwrites every field of an existing note.
func (s *noteService) Replace(ctx context.Context, id int64, req CreateNoteRequest) (*Note, error) {
	note, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	title, err := validateTitle(req.Title)
	if err != nil {
		return nil, err
	}
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}
	category, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, req.TagIDs)
	if err != nil {
		return nil, err
	}

	note.Title = title
	note.Content = content
	note.CategoryID = req.CategoryID
	note.Category = category
	note.Tags = tags

	if err := s.store.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

// Update applies a partial update to an existing note.
func (s *noteService) Update(ctx context.Context, id int64, req UpdateNoteRequest) (*Note, error) {
	note, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title, err := validateTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		note.Title = title
	}
	if req.Content != nil {
		content, err := validateContent(*req.Content)
		if err != nil {
			return nil, err
		}
		note.Content = content
	}
	if req.CategoryID != nil {
		// A zero category id detaches the note from its category.
		if *req.CategoryID == 0 {
			note.CategoryID = nil
			note.Category = nil
		} else {
			category, err := s.resolveCategory(ctx, req.CategoryID)
			if err != nil {
				return nil, err
			}
			note.CategoryID = req.CategoryID
			note.Category = category
		}
	}
	if req.TagIDs != nil {
		tags, err := s.resolveTags(ctx, req.TagIDs)
		if err != nil {
			return nil, err
		}
		note.Tags = tags
	}

	if err := s.store.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

// Delete removes a note.
func (s *noteService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	s.logger.Info("deleted note", zap.Int64("id", id))
	return nil
}

// resolveCategory loads the referenced category, or nil when no id is
// given.
func (s *noteService) resolveCategory(ctx context.Context, id *int64) (*Category, error) {
	if id == nil {
		return nil, nil
	}
	category, err := s.categories.Get(ctx, *id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundf("Category with id %d not found", *id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// resolveTags loads the referenced tags and reports every missing id in
// one error.
func (s *noteService) resolveTags(ctx context.Context, ids []int64) ([]Tag, error) {
	if len(ids) == 0 {
		return []Tag{}, nil
	}

	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	found, err := s.tags.GetMany(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	if len(found) != len(unique) {
		have := make(map[int64]struct{}, len(found))
		for _, tag := range found {
			have[tag.ID] = struct{}{}
		}
		missing := make([]int64, 0, len(unique))
		for _, id := range unique {
			if _, ok := have[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, NotFoundf("Tags with ids %s not found", formatIDSet(missing))
	}

	tags := make([]Tag, len(found))
	for i, tag := range found {
		tags[i] = *tag
	}
	return tags, nil
}

// formatIDSet renders ids as "{2, 3}" in ascending order.
func formatIDSet(ids []int64) string {
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	slices.Sort(sorted)

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

var _ NoteService = (*noteService)(nil)
