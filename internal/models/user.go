package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

type User struct {
	gorm.Model

	Name         string  `gorm:"not null"`
	Email        string  `gorm:"uniqueIndex;not null"`
	GoogleID     *string `gorm:"uniqueIndex"`
	AuthProvider string  `gorm:"not null;default:email"`
	IsVerified   bool    `gorm:"not null;default:false"`

	// Pending OTP, set between issuance and consumption/expiry. The code
	// itself is stored bcrypt-hashed; plaintext only ever leaves via email.
	OTPHash      *string
	OTPExpiresAt *time.Time

	Notes []Note `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// HasPendingOTP reports whether an issued code is still on record.
func (u *User) HasPendingOTP() bool {
	return u.OTPHash != nil && u.OTPExpiresAt != nil
}
