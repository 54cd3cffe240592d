package types

import (
	"time"

	"github.com/inkwell-dev/inkwell/internal/models"
)

const ContextUserKey = "user"

type UserResponse struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	AuthProvider string     `json:"authProvider"`
	IsVerified   bool       `json:"isVerified"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		AuthProvider: user.AuthProvider,
		IsVerified:   user.IsVerified,
	}
}

type NoteResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewNoteResponse(note *models.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		UserID:    note.UserID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// DeletedNoteResponse is the minimal summary returned after a delete.
type DeletedNoteResponse struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}
