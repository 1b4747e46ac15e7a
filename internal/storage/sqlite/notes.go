package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fyrsmithlabs/notesd/internal/notes"
	"github.com/fyrsmithlabs/notesd/internal/storage"
)

var noteSortFields = map[string]bool{
	"id":          true,
	"title":       true,
	"content":     true,
	"category_id": true,
	"created_at":  true,
	"updated_at":  true,
}

// noteColumns selects a note row joined with its category.
const noteColumns = `n.id, n.title, n.content, n.category_id, n.created_at, n.updated_at,
c.id, c.name, c.description, c.created_at, c.updated_at`

const noteFrom = ` FROM notes n LEFT JOIN categories c ON c.id = n.category_id`

// noteStore persists notes and their tag links.
type noteStore struct {
	db *sql.DB
}

func (s *noteStore) Create(ctx context.Context, note *notes.Note) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("create note", err)
	}
	defer tx.Rollback()

	ts := now()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO notes (title, content, category_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		note.Title, note.Content, note.CategoryID, ts.Format(timeFormat), ts.Format(timeFormat))
	if err != nil {
		return wrapErr("create note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrapErr("create note", err)
	}

	if err := replaceTagLinks(ctx, tx, id, note.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapErr("create note", err)
	}

	note.ID = id
	note.CreatedAt = ts
	note.UpdatedAt = ts
	if note.Tags == nil {
		note.Tags = []notes.Tag{}
	}
	return nil
}

func (s *noteStore) Get(ctx context.Context, id int64) (*notes.Note, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+noteColumns+noteFrom+` WHERE n.id = ?`, id)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("note", id)
		}
		return nil, wrapErr("get note", err)
	}
	if err := s.loadTags(ctx, []*notes.Note{note}); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteStore) List(ctx context.Context, opts storage.ListOptions) ([]*notes.Note, error) {
	return s.ListNotes(ctx, notes.NoteFilter{}, opts)
}

func (s *noteStore) ListNotes(ctx context.Context, filter notes.NoteFilter, opts storage.ListOptions) ([]*notes.Note, error) {
	conds := []string{}
	args := []any{}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		conds = append(conds, "(n.title LIKE ? OR n.content LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if filter.CategoryID != nil {
		conds = append(conds, "n.category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.TagID != nil {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM note_tags nt
			WHERE nt.note_id = n.id AND nt.tag_id = ?
		)`)
		args = append(args, *filter.TagID)
	}

	query := `SELECT ` + noteColumns + noteFrom
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " " + sortClause(noteSortFields, opts.Sort, "n.") + limitClause(opts)

	found, err := s.queryNotes(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list notes", err)
	}
	if err := s.loadTags(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *noteStore) SearchNotes(ctx context.Context, query string, offset, limit int, sort string) ([]*notes.Note, int64, error) {
	pattern := "%" + query + "%"

	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE title LIKE ? OR content LIKE ?`,
		pattern, pattern).Scan(&total)
	if err != nil {
		return nil, 0, wrapErr("count notes", err)
	}

	// Default search order is newest first; title_asc switches to
	// alphabetical.
	order := "n.id DESC"
	if sort == "title_asc" {
		order = "n.title ASC, n.id ASC"
	}

	found, err := s.queryNotes(ctx,
		`SELECT `+noteColumns+noteFrom+
			` WHERE n.title LIKE ? OR n.content LIKE ? ORDER BY `+order+` LIMIT ? OFFSET ?`,
		pattern, pattern, limit, offset)
	if err != nil {
		return nil, 0, wrapErr("search notes", err)
	}
	if err := s.loadTags(ctx, found); err != nil {
		return nil, 0, err
	}
	return found, total, nil
}

func (s *noteStore) Update(ctx context.Context, note *notes.Note) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("update note", err)
	}
	defer tx.Rollback()

	ts := now()
	res, err := tx.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, category_id = ?, updated_at = ? WHERE id = ?`,
		note.Title, note.Content, note.CategoryID, ts.Format(timeFormat), note.ID)
	if err != nil {
		return wrapErr("update note", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return wrapErr("update note", err)
	}
	if affected == 0 {
		return notFound("note", note.ID)
	}

	if err := replaceTagLinks(ctx, tx, note.ID, note.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapErr("update note", err)
	}

	note.UpdatedAt = ts
	if note.Tags == nil {
		note.Tags = []notes.Tag{}
	}
	return nil
}

func (s *noteStore) Delete(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, s.db, "note", id, `DELETE FROM notes WHERE id = ?`, id)
}

// queryNotes runs a note select and scans every row.
func (s *noteStore) queryNotes(ctx context.Context, query string, args ...any) ([]*notes.Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := []*notes.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return found, nil
}

// loadTags fills Tags for every note in one query.
func (s *noteStore) loadTags(ctx context.Context, found []*notes.Note) error {
	for _, note := range found {
		note.Tags = []notes.Tag{}
	}
	if len(found) == 0 {
		return nil
	}

	byID := make(map[int64]*notes.Note, len(found))
	args := make([]any, len(found))
	for i, note := range found {
		byID[note.ID] = note
		args[i] = note.ID
	}

	query := `SELECT nt.note_id, t.id, t.name, t.color, t.created_at, t.updated_at
		FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		WHERE nt.note_id IN (` + placeholders(len(found)) + `)
		ORDER BY t.id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return wrapErr("load note tags", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			noteID           int64
			tag              notes.Tag
			created, updated string
		)
		if err := rows.Scan(&noteID, &tag.ID, &tag.Name, &tag.Color, &created, &updated); err != nil {
			return wrapErr("load note tags", err)
		}
		if tag.CreatedAt, err = parseTime(created); err != nil {
			return wrapErr("load note tags", err)
		}
		if tag.UpdatedAt, err = parseTime(updated); err != nil {
			return wrapErr("load note tags", err)
		}
		if note, ok := byID[noteID]; ok {
			note.Tags = append(note.Tags, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return wrapErr("load note tags", err)
	}
	return nil
}

// replaceTagLinks rewrites a note's tag links to match tags exactly.
func replaceTagLinks(ctx context.Context, tx *sql.Tx, noteID int64, tags []notes.Tag) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, noteID); err != nil {
		return wrapErr("replace note tags", err)
	}
	if len(tags) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO note_tags (note_id, tag_id) VALUES (?, ?)`)
	if err != nil {
		return wrapErr("replace note tags", err)
	}
	defer stmt.Close()

	for _, tag := range tags {
		if _, err := stmt.ExecContext(ctx, noteID, tag.ID); err != nil {
			return wrapErr("replace note tags", err)
		}
	}
	return nil
}

// scanNote reads one joined note row, building the category when the
// join matched.
func scanNote(row rowScanner) (*notes.Note, error) {
	var (
		note                   notes.Note
		created, updated       string
		catID                  sql.NullInt64
		catName                sql.NullString
		catDesc                *string
		catCreated, catUpdated sql.NullString
	)
	err := row.Scan(
		&note.ID, &note.Title, &note.Content, &note.CategoryID, &created, &updated,
		&catID, &catName, &catDesc, &catCreated, &catUpdated)
	if err != nil {
		return nil, err
	}

	if note.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if note.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}

	if catID.Valid {
		category := notes.Category{
			ID:          catID.Int64,
			Name:        catName.String,
			Description: catDesc,
		}
		if category.CreatedAt, err = parseTime(catCreated.String); err != nil {
			return nil, err
		}
		if category.UpdatedAt, err = parseTime(catUpdated.String); err != nil {
			return nil, err
		}
		note.Category = &category
	}
	return &note, nil
}

var _ notes.NoteStore = (*noteStore)(nil)
