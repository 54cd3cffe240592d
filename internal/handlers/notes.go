package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inkwell-dev/inkwell/internal/httpx"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
	"github.com/inkwell-dev/inkwell/internal/types"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NotesHandler serves the owner-scoped note CRUD. The auth guard runs
// before every method, so the current user is always on the context.
type NotesHandler struct {
	notes *store.NoteStore
	log   *zap.Logger
}

func NewNotesHandler(notes *store.NoteStore, log *zap.Logger) *NotesHandler {
	return &NotesHandler{
		notes: notes,
		log:   log,
	}
}

func (h *NotesHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		httpx.Fail(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	notes, err := h.notes.ListByOwner(ctx.Request.Context(), userID)

	if err != nil {
		h.log.Error("failed to list notes", zap.Error(err))
		httpx.Fail(ctx, http.StatusInternalServerError, "Failed to retrieve notes")
		return
	}

	response := make([]types.NoteResponse, 0, len(notes))

	for i := range notes {
		response = append(response, types.NewNoteResponse(&notes[i]))
	}

	httpx.OK(ctx, http.StatusOK, "Notes retrieved successfully", gin.H{
		"notes": response,
		"count": len(response),
	})
}

func (h *NotesHandler) Create(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		httpx.Fail(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req NoteRequest

	if err := ctx.BindJSON(&req); err != nil {
		httpx.Fail(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)

	if title == "" || content == "" {
		httpx.Fail(ctx, http.StatusBadRequest, "Title and content are required")
		return
	}

	note := models.Note{
		UserID:  userID,
		Title:   title,
		Content: content,
	}

	if err := h.notes.Create(ctx.Request.Context(), &note); err != nil {
		h.log.Error("failed to create note", zap.Error(err))
		httpx.Fail(ctx, http.StatusInternalServerError, "Failed to create note")
		return
	}

	httpx.OK(ctx, http.StatusCreated, "Note created successfully", gin.H{
		"note": types.NewNoteResponse(&note),
	})
}

func (h *NotesHandler) Get(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		httpx.Fail(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	note, ok := h.findOwned(ctx, userID)

	if !ok {
		return
	}

	httpx.OK(ctx, http.StatusOK, "Note retrieved successfully", gin.H{
		"note": types.NewNoteResponse(note),
	})
}

func (h *NotesHandler) Update(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		httpx.Fail(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req NoteRequest

	if err := ctx.BindJSON(&req); err != nil {
		httpx.Fail(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)

	if title == "" || content == "" {
		httpx.Fail(ctx, http.StatusBadRequest, "Title and content are required")
		return
	}

	note, ok := h.findOwned(ctx, userID)

	if !ok {
		return
	}

	note.Title = title
	note.Content = content

	if err := h.notes.Save(ctx.Request.Context(), note); err != nil {
		h.log.Error("failed to update note", zap.Error(err))
		httpx.Fail(ctx, http.StatusInternalServerError, "Failed to update note")
		return
	}

	httpx.OK(ctx, http.StatusOK, "Note updated successfully", gin.H{
		"note": types.NewNoteResponse(note),
	})
}

func (h *NotesHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		httpx.Fail(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	note, ok := h.findOwned(ctx, userID)

	if !ok {
		return
	}

	if err := h.notes.Delete(ctx.Request.Context(), note); err != nil {
		h.log.Error("failed to delete note", zap.Error(err))
		httpx.Fail(ctx, http.StatusInternalServerError, "Failed to delete note")
		return
	}

	httpx.OK(ctx, http.StatusOK, "Note deleted successfully", gin.H{
		"deletedNote": types.DeletedNoteResponse{
			ID:    note.ID,
			Title: note.Title,
		},
	})
}

// findOwned resolves the :id path param to a note owned by userID. A miss
// is always a 404; whether the note exists under another owner is not
// revealed.
func (h *NotesHandler) findOwned(ctx *gin.Context, userID uint) (*models.Note, bool) {
	note, err := h.notes.ByIDForOwner(ctx.Request.Context(), ctx.Param("id"), userID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.RespondError(ctx, httpx.NotFound("Note not found"))
		} else {
			h.log.Error("failed to retrieve note", zap.Error(err))
			httpx.RespondError(ctx, httpx.Internal("Failed to retrieve note", err))
		}
		return nil, false
	}

	return note, true
}
