// Package storage defines the persistence contracts shared by the entity
// stores: a generic CRUD repository, list pagination options, and sort
// expression parsing. Concrete backends live in subpackages.
package storage

import (
	"context"
	"strings"
)

// Pagination bounds shared by list endpoints.
const (
	// DefaultLimit is applied when a list request names no limit.
	DefaultLimit = 50

	// MaxLimit is the largest page size a list request may ask for.
	MaxLimit = 200
)

// ListOptions carries pagination and ordering for list queries.
type ListOptions struct {
	// Skip is the number of records to skip before the first result.
	Skip int

	// Limit caps the number of records returned. Zero means no cap.
	Limit int

	// Sort names the column to order by. A "-" prefix sorts descending.
	// Unknown columns fall back to created_at.
	Sort string
}

// Repository is the CRUD contract implemented by every entity store.
// Create and Update fill server-assigned fields (id, timestamps) on the
// passed entity.
type Repository[E any] interface {
	Create(ctx context.Context, entity *E) error
	Get(ctx context.Context, id int64) (*E, error)
	List(ctx context.Context, opts ListOptions) ([]*E, error)
	Update(ctx context.Context, entity *E) error
	Delete(ctx context.Context, id int64) error
}

// ParseSort splits a sort expression into a column name and direction.
// A leading "-" selects descending order.
func ParseSort(sort string) (field string, descending bool) {
	descending = strings.HasPrefix(sort, "-")
	field = strings.TrimLeft(sort, "-")
	return field, descending
}
