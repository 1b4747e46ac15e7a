package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/notesd/internal/notes"
	"github.com/fyrsmithlabs/notesd/internal/storage"
)

var tagSortFields = map[string]bool{
	"id":         true,
	"name":       true,
	"color":      true,
	"created_at": true,
	"updated_at": true,
}

// tagStore persists tags.
type tagStore struct {
	db *sql.DB
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *tagStore) Create(ctx context.Context, tag *notes.Tag) error {
	ts := now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (name, color, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		tag.Name, tag.Color, ts.Format(timeFormat), ts.Format(timeFormat))
	if err != nil {
		return wrapErr("create tag", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrapErr("create tag", err)
	}

	tag.ID = id
	tag.CreatedAt = ts
	tag.UpdatedAt = ts
	return nil
}

func (s *tagStore) Get(ctx context.Context, id int64) (*notes.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, color, created_at, updated_at FROM tags WHERE id = ?`, id)
	tag, err := scanTag(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("tag", id)
		}
		return nil, wrapErr("get tag", err)
	}
	return tag, nil
}

func (s *tagStore) List(ctx context.Context, opts storage.ListOptions) ([]*notes.Tag, error) {
	query := `SELECT id, name, color, created_at, updated_at FROM tags ` +
		sortClause(tagSortFields, opts.Sort, "") + limitClause(opts)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr("list tags", err)
	}
	defer rows.Close()

	found := []*notes.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, wrapErr("list tags", err)
		}
		found = append(found, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list tags", err)
	}
	return found, nil
}

func (s *tagStore) Update(ctx context.Context, tag *notes.Tag) error {
	ts := now()
	err := execAffectingOne(ctx, s.db, "tag", tag.ID,
		`UPDATE tags SET name = ?, color = ?, updated_at = ? WHERE id = ?`,
		tag.Name, tag.Color, ts.Format(timeFormat), tag.ID)
	if err != nil {
		return err
	}
	tag.UpdatedAt = ts
	return nil
}

func (s *tagStore) Delete(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, s.db, "tag", id, `DELETE FROM tags WHERE id = ?`, id)
}

func (s *tagStore) FindByName(ctx context.Context, name string) (*notes.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, color, created_at, updated_at FROM tags WHERE LOWER(name) = LOWER(?)`, name)
	tag, err := scanTag(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tag %q: %w", name, notes.ErrNotFound)
		}
		return nil, wrapErr("find tag by name", err)
	}
	return tag, nil
}

func (s *tagStore) GetMany(ctx context.Context, ids []int64) ([]*notes.Tag, error) {
	if len(ids) == 0 {
		return []*notes.Tag{}, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `SELECT id, name, color, created_at, updated_at FROM tags WHERE id IN (` +
		placeholders(len(ids)) + `) ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("get tags", err)
	}
	defer rows.Close()

	found := []*notes.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, wrapErr("get tags", err)
		}
		found = append(found, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("get tags", err)
	}
	return found, nil
}

// scanTag reads one tag row.
func scanTag(row rowScanner) (*notes.Tag, error) {
	var (
		tag              notes.Tag
		created, updated string
	)
	if err := row.Scan(&tag.ID, &tag.Name, &tag.Color, &created, &updated); err != nil {
		return nil, err
	}

	var err error
	if tag.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if tag.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &tag, nil
}

var _ notes.TagStore = (*tagStore)(nil)
