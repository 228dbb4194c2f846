package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/notes-api/internal/models"
)

func strPtr(s string) *string { return &s }

func noteRows(t *testing.T, notes ...models.Note) *sqlmock.Rows {
	t.Helper()
	rows := sqlmock.NewRows([]string{"id", "title", "content", "user_id", "created_at", "updated_at"})
	for _, n := range notes {
		rows.AddRow(n.ID, n.Title, n.Content, n.UserID, n.CreatedAt, n.UpdatedAt)
	}
	return rows
}

func TestNoteRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO notes \(title, content, user_id, created_at, updated_at\)`).
		WithArgs("T", "C", 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(noteRows(t, models.Note{ID: 10, Title: "T", Content: "C", UserID: 1, CreatedAt: now, UpdatedAt: now}))

	repo := NewNoteRepo(db)
	note, err := repo.Create(context.Background(), 1, "T", "C")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if note.ID != 10 || note.Title != "T" || note.UserID != 1 {
		t.Errorf("unexpected note: %+v", note)
	}
	if !note.CreatedAt.Equal(note.UpdatedAt) {
		t.Errorf("created_at and updated_at should be equal at creation: %v vs %v", note.CreatedAt, note.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteRepo_GetByID_OtherOwnerLooksMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// The note exists but belongs to user 2; the owner-scoped query
	// matches nothing, which is indistinguishable from a missing id.
	mock.ExpectQuery(`SELECT id, title, content, user_id, created_at, updated_at`).
		WithArgs(10, 1).
		WillReturnError(sql.ErrNoRows)

	repo := NewNoteRepo(db)
	_, err = repo.GetByID(context.Background(), 1, 10)
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteRepo_List_ScopedAndOrdered(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	newer := time.Now().UTC()
	older := newer.Add(-time.Hour)
	mock.ExpectQuery(`SELECT id, title, content, user_id, created_at, updated_at\s+FROM notes\s+WHERE user_id = \?\s+ORDER BY updated_at DESC`).
		WithArgs(1).
		WillReturnRows(noteRows(t,
			models.Note{ID: 2, Title: "b", UserID: 1, CreatedAt: older, UpdatedAt: newer},
			models.Note{ID: 1, Title: "a", UserID: 1, CreatedAt: older, UpdatedAt: older},
		))

	repo := NewNoteRepo(db)
	notes, err := repo.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 2 || notes[0].ID != 2 || notes[1].ID != 1 {
		t.Errorf("unexpected notes: %+v", notes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteRepo_List_EmptyIsNotAnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, content, user_id, created_at, updated_at`).
		WithArgs(5).
		WillReturnRows(noteRows(t))

	repo := NewNoteRepo(db)
	notes, err := repo.List(context.Background(), 5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if notes == nil {
		t.Fatal("List should return an empty slice, not nil")
	}
	if len(notes) != 0 {
		t.Errorf("expected no notes, got: %+v", notes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteRepo_Update_TitleOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	created := time.Now().UTC().Add(-time.Hour)
	updated := time.Now().UTC()
	mock.ExpectQuery(`UPDATE notes SET title = \?, updated_at = \?`).
		WithArgs("T2", sqlmock.AnyArg(), 10, 1).
		WillReturnRows(noteRows(t, models.Note{ID: 10, Title: "T2", Content: "C", UserID: 1, CreatedAt: created, UpdatedAt: updated}))

	repo := NewNoteRepo(db)
	note, err := repo.Update(context.Background(), 1, 10, models.NotePatch{Title: strPtr("T2")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if note.Title != "T2" || note.Content != "C" {
		t.Errorf("content should be untouched by a title-only patch: %+v", note)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteRepo_Update_BothFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`UPDATE notes SET title = \?, content = \?, updated_at = \?`).
		WithArgs("T2", "C2", sqlmock.AnyArg(), 10, 1).
		WillReturnRows(noteRows(t, models.Note{ID: 10, Title: "T2", Content: "C2", UserID: 1, CreatedAt: now, UpdatedAt: now}))

	repo := NewNoteRepo(db)
	note, err := repo.Update(context.Background(), 1, 10, models.NotePatch{Title: strPtr("T2"), Content: strPtr("C2")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if note.Title != "T2" || note.Content != "C2" {
		t.Errorf("unexpected note: %+v", note)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteRepo_Update_EmptyPatchReadsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// No UPDATE is issued; the record comes back via the owner-scoped
	// SELECT with updated_at untouched.
	created := time.Now().UTC().Add(-time.Hour)
	mock.ExpectQuery(`SELECT id, title, content, user_id, created_at, updated_at`).
		WithArgs(10, 1).
		WillReturnRows(noteRows(t, models.Note{ID: 10, Title: "T", Content: "C", UserID: 1, CreatedAt: created, UpdatedAt: created}))

	repo := NewNoteRepo(db)
	note, err := repo.Update(context.Background(), 1, 10, models.NotePatch{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !note.UpdatedAt.Equal(created) {
		t.Errorf("empty patch must not bump updated_at: %v", note.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteRepo_Update_NotOwned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`UPDATE notes SET title = \?, updated_at = \?`).
		WithArgs("T2", sqlmock.AnyArg(), 10, 2).
		WillReturnError(sql.ErrNoRows)

	repo := NewNoteRepo(db)
	_, err = repo.Update(context.Background(), 2, 10, models.NotePatch{Title: strPtr("T2")})
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM notes WHERE id = \? AND user_id = \?`).
		WithArgs(10, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewNoteRepo(db)
	if err := repo.Delete(context.Background(), 1, 10); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteRepo_Delete_NotOwned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM notes WHERE id = \? AND user_id = \?`).
		WithArgs(10, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewNoteRepo(db)
	if err := repo.Delete(context.Background(), 2, 10); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
