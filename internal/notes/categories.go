package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/storage"
)

// CategoryService provides category management operations.
type CategoryService interface {
	// Create validates and stores a new category. Names collide
	// case-insensitively.
	Create(ctx context.Context, req CategoryRequest) (*Category, error)

	// Get retrieves a category by id.
	Get(ctx context.Context, id int64) (*Category, error)

	// List returns categories, paginated and sorted.
	List(ctx context.Context, opts storage.ListOptions) ([]*Category, error)

	// Replace overwrites every field of an existing category. A nil
	// description clears it.
	Replace(ctx context.Context, id int64, req CategoryRequest) (*Category, error)

	// Update applies a partial update to an existing category.
	Update(ctx context.Context, id int64, req UpdateCategoryRequest) (*Category, error)

	// Delete removes a category. Notes in it survive with their
	// category cleared.
	Delete(ctx context.Context, id int64) error
}

// categoryService implements CategoryService.
type categoryService struct {
	store  CategoryStore
	logger *zap.Logger
}

// NewCategoryService creates a category service backed by the given
// store.
func NewCategoryService(store CategoryStore, logger *zap.Logger) (CategoryService, error) {
	if store == nil {
		return nil, errors.New("category store is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &categoryService{store: store, logger: logger}, nil
}

// Create validates and stores a new category.
func (s *categoryService) Create(ctx context.Context, req CategoryRequest) (*Category, error) {
	name, err := validateName(req.Name, maxCategoryNameLen)
	if err != nil {
		return nil, err
	}
	if err := s.checkDuplicate(ctx, name, 0); err != nil {
		return nil, err
	}

	category := &Category{Name: name, Description: req.Description}
	if err := s.store.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("created category", zap.Int64("id", category.ID), zap.String("name", category.Name))
	return category, nil
}

// Get retrieves a category by id.
func (s *categoryService) Get(ctx context.Context, id int64) (*Category, error) {
	category, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundf("Category with id %d not found", id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// List returns categories, paginated and sorted.
func (s *categoryService) List(ctx context.Context, opts storage.ListOptions) ([]*Category, error) {
	if err := validateListOptions(opts); err != nil {
		return nil, err
	}
	found, err := s.store.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return found, nil
}

// Replace overwrites every field of an existing category. The duplicate
// check is skipped when only the name's casing changes.
func (s *categoryService) Replace(ctx context.Context, id int64, req CategoryRequest) (*Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := validateName(req.Name, maxCategoryNameLen)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(name, category.Name) {
		if err := s.checkDuplicate(ctx, name, id); err != nil {
			return nil, err
		}
	}

	category.Name = name
	category.Description = req.Description

	if err := s.store.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// Update applies a partial update to an existing category.
func (s *categoryService) Update(ctx context.Context, id int64, req UpdateCategoryRequest) (*Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name, err := validateName(*req.Name, maxCategoryNameLen)
		if err != nil {
			return nil, err
		}
		if err := s.checkDuplicate(ctx, name, id); err != nil {
			return nil, err
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = req.Description
	}

	if err := s.store.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// Delete removes a category.
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.logger.Info("deleted category", zap.Int64("id", id))
	return nil
}

// checkDuplicate rejects names already used by another category.
// excludeID is the id of the category being updated, or 0 for creates.
func (s *categoryService) checkDuplicate(ctx context.Context, name string, excludeID int64) error {
	existing, err := s.store.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find category by name: %w", err)
	}
	if existing.ID != excludeID {
		return Conflictf("Category with name '%s' already exists", name)
	}
	return nil
}

var _ CategoryService = (*categoryService)(nil)
