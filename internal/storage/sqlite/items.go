package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fyrsmithlabs/notesd/internal/notes"
	"github.com/fyrsmithlabs/notesd/internal/storage"
)

var itemSortFields = map[string]bool{
	"id":          true,
	"description": true,
	"completed":   true,
	"note_id":     true,
	"created_at":  true,
	"updated_at":  true,
}

// itemStore persists action items.
type itemStore struct {
	db *sql.DB
}

func (s *itemStore) Create(ctx context.Context, item *notes.ActionItem) error {
	ts := now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO action_items (description, completed, note_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		item.Description, item.Completed, item.NoteID, ts.Format(timeFormat), ts.Format(timeFormat))
	if err != nil {
		return wrapErr("create action item", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrapErr("create action item", err)
	}

	item.ID = id
	item.CreatedAt = ts
	item.UpdatedAt = ts
	return nil
}

// CreateMany persists the items in one transaction so a batch either
// lands whole or not at all.
func (s *itemStore) CreateMany(ctx context.Context, items []*notes.ActionItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("create action items", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO action_items (description, completed, note_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return wrapErr("create action items", err)
	}
	defer stmt.Close()

	ts := now()
	for _, item := range items {
		res, err := stmt.ExecContext(ctx,
			item.Description, item.Completed, item.NoteID, ts.Format(timeFormat), ts.Format(timeFormat))
		if err != nil {
			return wrapErr("create action items", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return wrapErr("create action items", err)
		}
		item.ID = id
		item.CreatedAt = ts
		item.UpdatedAt = ts
	}

	if err := tx.Commit(); err != nil {
		return wrapErr("create action items", err)
	}
	return nil
}

func (s *itemStore) Get(ctx context.Context, id int64) (*notes.ActionItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, description, completed, note_id, created_at, updated_at FROM action_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("action item", id)
		}
		return nil, wrapErr("get action item", err)
	}
	return item, nil
}

func (s *itemStore) List(ctx context.Context, opts storage.ListOptions) ([]*notes.ActionItem, error) {
	return s.ListItems(ctx, notes.ItemFilter{}, opts)
}

func (s *itemStore) ListItems(ctx context.Context, filter notes.ItemFilter, opts storage.ListOptions) ([]*notes.ActionItem, error) {
	conds := []string{}
	args := []any{}
	if filter.Completed != nil {
		conds = append(conds, "completed = ?")
		args = append(args, *filter.Completed)
	}
	if filter.NoteID != nil {
		conds = append(conds, "note_id = ?")
		args = append(args, *filter.NoteID)
	}

	query := `SELECT id, description, completed, note_id, created_at, updated_at FROM action_items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " " + sortClause(itemSortFields, opts.Sort, "") + limitClause(opts)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list action items", err)
	}
	defer rows.Close()

	found := []*notes.ActionItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, wrapErr("list action items", err)
		}
		found = append(found, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list action items", err)
	}
	return found, nil
}

func (s *itemStore) Update(ctx context.Context, item *notes.ActionItem) error {
	ts := now()
	err := execAffectingOne(ctx, s.db, "action item", item.ID,
		`UPDATE action_items SET description = ?, completed = ?, note_id = ?, updated_at = ? WHERE id = ?`,
		item.Description, item.Completed, item.NoteID, ts.Format(timeFormat), item.ID)
	if err != nil {
		return err
	}
	item.UpdatedAt = ts
	return nil
}

func (s *itemStore) Delete(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, s.db, "action item", id, `DELETE FROM action_items WHERE id = ?`, id)
}

// scanItem reads one action item row.
func scanItem(row rowScanner) (*notes.ActionItem, error) {
	var (
		item             notes.ActionItem
		created, updated string
	)
	if err := row.Scan(&item.ID, &item.Description, &item.Completed, &item.NoteID, &created, &updated); err != nil {
		return nil, err
	}

	var err error
	if item.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &item, nil
}

var _ notes.ItemStore = (*itemStore)(nil)
