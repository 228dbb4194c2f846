package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/crucial707/notes-api/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

// NoteRepo persists notes. Every operation is scoped by the owning
// user id, so a note belonging to someone else behaves exactly like a
// note that does not exist (sql.ErrNoRows / zero rows affected).
type NoteRepo struct {
	DB *sql.DB
}

func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{DB: db}
}

// ========================
// CREATE NOTE
// ========================

func (r *NoteRepo) Create(ctx context.Context, ownerID int, title, content string) (models.Note, error) {
	// created_at and updated_at are set from the same instant so they
	// compare equal on a fresh note.
	now := time.Now().UTC()

	var note models.Note
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO notes (title, content, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id, title, content, user_id, created_at, updated_at`,
		title, content, ownerID, now, now,
	).Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.UserID,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	return note, err
}

// ========================
// GET NOTE BY ID
// ========================

func (r *NoteRepo) GetByID(ctx context.Context, ownerID, id int) (models.Note, error) {
	var note models.Note
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, content, user_id, created_at, updated_at
		 FROM notes
		 WHERE id = ? AND user_id = ?`,
		id, ownerID,
	).Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.UserID,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	return note, err
}

// ========================
// UPDATE NOTE BY ID
// ========================

// Update applies the patch to the owner's note. Only present fields are
// overwritten and updated_at is bumped only when at least one field is
// present; an empty patch reads the note back untouched. The mutation
// is a single statement scoped by id AND user_id, so ownership check
// and write cannot race with a concurrent delete.
func (r *NoteRepo) Update(ctx context.Context, ownerID, id int, patch models.NotePatch) (models.Note, error) {
	if patch.Empty() {
		return r.GetByID(ctx, ownerID, id)
	}

	now := time.Now().UTC()

	var query string
	var args []interface{}

	switch {
	case patch.Title != nil && patch.Content != nil:
		query = `UPDATE notes SET title = ?, content = ?, updated_at = ?
			 WHERE id = ? AND user_id = ?
			 RETURNING id, title, content, user_id, created_at, updated_at`
		args = []interface{}{*patch.Title, *patch.Content, now, id, ownerID}
	case patch.Title != nil:
		query = `UPDATE notes SET title = ?, updated_at = ?
			 WHERE id = ? AND user_id = ?
			 RETURNING id, title, content, user_id, created_at, updated_at`
		args = []interface{}{*patch.Title, now, id, ownerID}
	default:
		query = `UPDATE notes SET content = ?, updated_at = ?
			 WHERE id = ? AND user_id = ?
			 RETURNING id, title, content, user_id, created_at, updated_at`
		args = []interface{}{*patch.Content, now, id, ownerID}
	}

	var note models.Note
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.UserID,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	return note, err
}

// ========================
// DELETE NOTE BY ID
// ========================

// Delete removes the owner's note. Returns sql.ErrNoRows when the note
// does not exist or belongs to another user.
func (r *NoteRepo) Delete(ctx context.Context, ownerID, id int) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ========================
// LIST NOTES FOR OWNER
// ========================

// List returns the owner's notes, most recently touched first.
func (r *NoteRepo) List(ctx context.Context, ownerID int) ([]models.Note, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, title, content, user_id, created_at, updated_at
		 FROM notes
		 WHERE user_id = ?
		 ORDER BY updated_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.UserID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
