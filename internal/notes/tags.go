package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/storage"
)

// TagService provides tag management operations.
type TagService interface {
	// Create validates and stores a new tag. Names collide
	// case-insensitively.
	Create(ctx context.Context, req TagRequest) (*Tag, error)

	// Get retrieves a tag by id.
	Get(ctx context.Context, id int64) (*Tag, error)

	// List returns tags, paginated and sorted.
	List(ctx context.Context, opts storage.ListOptions) ([]*Tag, error)

	// Replace overwrites every field of an existing tag. A nil color
	// clears it.
	Replace(ctx context.Context, id int64, req TagRequest) (*Tag, error)

	// Update applies a partial update to an existing tag.
	Update(ctx context.Context, id int64, req UpdateTagRequest) (*Tag, error)

	// Delete removes a tag and detaches it from all notes.
	Delete(ctx context.Context, id int64) error
}

// tagService implements TagService.
type tagService struct {
	store  TagStore
	logger *zap.Logger
}

// NewTagService creates a tag service backed by the given store.
func NewTagService(store TagStore, logger *zap.Logger) (TagService, error) {
	if store == nil {
		return nil, errors.New("tag store is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &tagService{store: store, logger: logger}, nil
}

// Create validates and stores a new tag.
func (s *tagService) Create(ctx context.Context, req TagRequest) (*Tag, error) {
	name, err := validateName(req.Name, maxTagNameLen)
	if err != nil {
		return nil, err
	}
	if err := validateColor(req.Color); err != nil {
		return nil, err
	}
	if err := s.checkDuplicate(ctx, name, 0); err != nil {
		return nil, err
	}

	tag := &Tag{Name: name, Color: req.Color}
	if err := s.store.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.logger.Info("created tag", zap.Int64("id", tag.ID), zap.String("name", tag.Name))
	return tag, nil
}

// Get retrieves a tag by id.
func (s *tagService) Get(ctx context.Context, id int64) (*Tag, error) {
	tag, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundf("Tag with id %d not found", id)
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// List returns tags, paginated and sorted.
func (s *tagService) List(ctx context.Context, opts storage.ListOptions) ([]*Tag, error) {
	if err := validateListOptions(opts); err != nil {
		return nil, err
	}
	found, err := s.store.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return found, nil
}

// Replace overwrites every field of an existing tag. The duplicate
// check is skipped when only the name's casing changes.
func (s *tagService) Replace(ctx context.Context, id int64, req TagRequest) (*Tag, error) {
	tag, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := validateName(req.Name, maxTagNameLen)
	if err != nil {
		return nil, err
	}
	if err := validateColor(req.Color); err != nil {
		return nil, err
	}
	if !strings.EqualFold(name, tag.Name) {
		if err := s.checkDuplicate(ctx, name, id); err != nil {
			return nil, err
		}
	}

	tag.Name = name
	tag.Color = req.Color

	if err := s.store.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return tag, nil
}

// Update applies a partial update to an existing tag.
func (s *tagService) Update(ctx context.Context, id int64, req UpdateTagRequest) (*Tag, error) {
	tag, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name, err := validateName(*req.Name, maxTagNameLen)
		if err != nil {
			return nil, err
		}
		if err := s.checkDuplicate(ctx, name, id); err != nil {
			return nil, err
		}
		tag.Name = name
	}
	if req.Color != nil {
		if err := validateColor(req.Color); err != nil {
			return nil, err
		}
		tag.Color = req.Color
	}

	if err := s.store.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return tag, nil
}

// Delete removes a tag.
func (s *tagService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	s.logger.Info("deleted tag", zap.Int64("id", id))
	return nil
}

// checkDuplicate rejects names already used by another tag. excludeID
// is the id of the tag being updated, or 0 for creates.
func (s *tagService) checkDuplicate(ctx context.Context, name string, excludeID int64) error {
	existing, err := s.store.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find tag by name: %w", err)
	}
	if existing.ID != excludeID {
		return Conflictf("Tag with name '%s' already exists", name)
	}
	return nil
}

var _ TagService = (*tagService)(nil)
