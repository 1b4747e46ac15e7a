package notes

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/storage"
)

// ItemService provides action item management operations.
type ItemService interface {
	// Create validates and stores a new, uncompleted action item.
	Create(ctx context.Context, description string) (*ActionItem, error)

	// Get retrieves an action item by id.
	Get(ctx context.Context, id int64) (*ActionItem, error)

	// List returns items matching the filter, paginated and sorted.
	List(ctx context.Context, filter ItemFilter, opts storage.ListOptions) ([]*ActionItem, error)

	// Complete marks an action item as done.
	Complete(ctx context.Context, id int64) (*ActionItem, error)

	// Update applies a partial update to an action item.
	Update(ctx context.Context, id int64, req UpdateItemRequest) (*ActionItem, error)

	// Delete removes an action item.
	Delete(ctx context.Context, id int64) error
}

// itemService implements ItemService.
type itemService struct {
	store  ItemStore
	logger *zap.Logger
}

// NewItemService creates an action item service backed by the given
// store.
func NewItemService(store ItemStore, logger *zap.Logger) (ItemService, error) {
	if store == nil {
		return nil, errors.New("item store is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &itemService{store: store, logger: logger}, nil
}

// Create validates and stores a new, uncompleted action item.
func (s *itemService) Create(ctx context.Context, description string) (*ActionItem, error) {
	trimmed, err := validateDescription(description)
	if err != nil {
		return nil, err
	}

	item := &ActionItem{Description: trimmed}
	if err := s.store.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create action item: %w", err)
	}

	s.logger.Info("created action item", zap.Int64("id", item.ID))
	return item, nil
}

// Get retrieves an action item by id.
func (s *itemService) Get(ctx context.Context, id int64) (*ActionItem, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundf("Action item with id %d not found", id)
		}
		return nil, fmt.Errorf("get action item: %w", err)
	}
	return item, nil
}

// List returns items matching the filter, paginated and sorted.
func (s *itemService) List(ctx context.Context, filter ItemFilter, opts storage.ListOptions) ([]*ActionItem, error) {
	if err := validateListOptions(opts); err != nil {
		return nil, err
	}
	found, err := s.store.ListItems(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list action items: %w", err)
	}
	return found, nil
}

// Complete marks an action item as done. Completing an already done
// item is a no-op that still bumps updated_at.
func (s *itemService) Complete(ctx context.Context, id int64) (*ActionItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Completed = true
	if err := s.store.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("complete action item: %w", err)
	}

	s.logger.Info("completed action item", zap.Int64("id", id))
	return item, nil
}

// Update applies a partial update to an action item.
func (s *itemService) Update(ctx context.Context, id int64, req UpdateItemRequest) (*ActionItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		trimmed, err := validateDescription(*req.Description)
		if err != nil {
			return nil, err
		}
		item.Description = trimmed
	}
	if req.Completed != nil {
		item.Completed = *req.Completed
	}

	if err := s.store.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update action item: %w", err)
	}
	return item, nil
}

// Delete removes an action item.
func (s *itemService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete action item: %w", err)
	}
	return nil
}

var _ ItemService = (*itemService)(nil)
