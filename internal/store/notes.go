package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkwell-dev/inkwell/internal/models"
)

// NoteStore persists notes. Every lookup and mutation is scoped to the
// owning user id; a note id alone never resolves a row.
type NoteStore struct {
	db *gorm.DB
}

func NewNoteStore(db *gorm.DB) *NoteStore {
	return &NoteStore{db: db}
}

func (s *NoteStore) Create(ctx context.Context, note *models.Note) error {
	return s.db.WithContext(ctx).Create(note).Error
}

func (s *NoteStore) ListByOwner(ctx context.Context, userID uint) ([]models.Note, error) {
	var notes []models.Note

	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&notes).Error

	if err != nil {
		return nil, err
	}

	return notes, nil
}

func (s *NoteStore) ByIDForOwner(ctx context.Context, id string, userID uint) (*models.Note, error) {
	var note models.Note

	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&note).Error

	if err != nil {
		return nil, err
	}

	return &note, nil
}

func (s *NoteStore) Save(ctx context.Context, note *models.Note) error {
	return s.db.WithContext(ctx).Save(note).Error
}

func (s *NoteStore) Delete(ctx context.Context, note *models.Note) error {
	return s.db.WithContext(ctx).Delete(note).Error
}
