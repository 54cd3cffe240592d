package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-dev/inkwell/internal/models"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserStore) ByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User

	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// ByEmailOrGoogleID resolves the account a Google sign-in should land on.
func (s *UserStore) ByEmailOrGoogleID(ctx context.Context, email, googleID string) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).
		Where("email = ? OR google_id = ?", email, googleID).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserStore) Update(ctx context.Context, id uint, fields map[string]any) error {
	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// SetOTP records a freshly issued code hash and its expiry.
func (s *UserStore) SetOTP(ctx context.Context, id uint, hash string, expiresAt time.Time) error {
	return s.Update(ctx, id, map[string]any{
		"otp_hash":       hash,
		"otp_expires_at": expiresAt,
	})
}

// ConsumeOTP clears the pending code and, for signup verification, flips the
// verified flag in the same row write. Keeping this a single update is the
// only guard against two concurrent verifications of the same code.
func (s *UserStore) ConsumeOTP(ctx context.Context, id uint, markVerified bool) error {
	fields := map[string]any{
		"otp_hash":       nil,
		"otp_expires_at": nil,
	}

	if markVerified {
		fields["is_verified"] = true
	}

	return s.Update(ctx, id, fields)
}
