package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/notesd/internal/notes"
	"github.com/fyrsmithlabs/notesd/internal/storage"
)

var categorySortFields = map[string]bool{
	"id":          true,
	"name":        true,
	"description": true,
	"created_at":  true,
	"updated_at":  true,
}

// categoryStore persists categories.
type categoryStore struct {
	db *sql.DB
}

func (s *categoryStore) Create(ctx context.Context, category *notes.Category) error {
	ts := now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		category.Name, category.Description, ts.Format(timeFormat), ts.Format(timeFormat))
	if err != nil {
		return wrapErr("create category", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrapErr("create category", err)
	}

	category.ID = id
	category.CreatedAt = ts
	category.UpdatedAt = ts
	return nil
}

func (s *categoryStore) Get(ctx context.Context, id int64) (*notes.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM categories WHERE id = ?`, id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("category", id)
		}
		return nil, wrapErr("get category", err)
	}
	return category, nil
}

func (s *categoryStore) List(ctx context.Context, opts storage.ListOptions) ([]*notes.Category, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM categories ` +
		sortClause(categorySortFields, opts.Sort, "") + limitClause(opts)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	defer rows.Close()

	found := []*notes.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, wrapErr("list categories", err)
		}
		found = append(found, category)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list categories", err)
	}
	return found, nil
}

func (s *categoryStore) Update(ctx context.Context, category *notes.Category) error {
	ts := now()
	err := execAffectingOne(ctx, s.db, "category", category.ID,
		`UPDATE categories SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		category.Name, category.Description, ts.Format(timeFormat), category.ID)
	if err != nil {
		return err
	}
	category.UpdatedAt = ts
	return nil
}

func (s *categoryStore) Delete(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, s.db, "category", id, `DELETE FROM categories WHERE id = ?`, id)
}

func (s *categoryStore) FindByName(ctx context.Context, name string) (*notes.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM categories WHERE LOWER(name) = LOWER(?)`, name)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %q: %w", name, notes.ErrNotFound)
		}
		return nil, wrapErr("find category by name", err)
	}
	return category, nil
}

// scanCategory reads one category row.
func scanCategory(row rowScanner) (*notes.Category, error) {
	var (
		category         notes.Category
		created, updated string
	)
	if err := row.Scan(&category.ID, &category.Name, &category.Description, &created, &updated); err != nil {
		return nil, err
	}

	var err error
	if category.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if category.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &category, nil
}

var _ notes.CategoryStore = (*categoryStore)(nil)
