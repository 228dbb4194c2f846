package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crucial707/notes-api/internal/metrics"
	"github.com/crucial707/notes-api/internal/middleware"
	"github.com/crucial707/notes-api/internal/models"
	"github.com/crucial707/notes-api/internal/repo"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// NoteHandler serves the owner-scoped note CRUD. Every method reads the
// authenticated user id from the request context; the repo never sees a
// request that is not scoped to an owner.
type NoteHandler struct {
	Repo *repo.NoteRepo
}

// ownerID pulls the authenticated user id set by the auth middleware.
func ownerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "invalid authentication credentials", http.StatusUnauthorized)
		return 0, false
	}
	return id, true
}

// noteID parses the {id} route parameter.
func noteID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid note id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

//
// ==========================
// List Notes
// ==========================
//

func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	notes, err := h.Repo.List(r.Context(), owner)
	if err != nil {
		slog.Error("list notes failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

//
// ==========================
// Create Note
// ==========================
//

func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var input struct {
		Title   string `json:"title" validate:"required,min=1,max=255"`
		Content string `json:"content" validate:"max=100000"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	note, err := h.Repo.Create(r.Context(), owner, input.Title, input.Content)
	if err != nil {
		slog.Error("create note failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncNoteMutations("create")

	writeJSON(w, http.StatusCreated, note)
}

//
// ==========================
// Get Note By ID
// ==========================
//

func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	note, err := h.Repo.GetByID(r.Context(), owner, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "note not found", http.StatusNotFound)
			return
		}
		slog.Error("get note failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

//
// ==========================
// Update Note (partial)
// ==========================
//

func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	var patch models.NotePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if patch.Title != nil && *patch.Title == "" {
		JSONValidationError(w, "validation failed", map[string]string{"title": "must not be empty"}, http.StatusBadRequest)
		return
	}

	note, err := h.Repo.Update(r.Context(), owner, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "note not found", http.StatusNotFound)
			return
		}
		slog.Error("update note failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncNoteMutations("update")

	writeJSON(w, http.StatusOK, note)
}

//
// ==========================
// Delete Note
// ==========================
//

func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	if err := h.Repo.Delete(r.Context(), owner, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "note not found", http.StatusNotFound)
			return
		}
		slog.Error("delete note failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncNoteMutations("delete")

	writeJSON(w, http.StatusOK, map[string]string{"message": "note deleted successfully"})
}
