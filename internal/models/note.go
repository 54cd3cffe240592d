package models

import "gorm.io/gorm"

type Note struct {
	gorm.Model

	UserID  uint   `gorm:"index;not null"`
	Title   string `gorm:"not null"`
	Content string `gorm:"type:text;not null"`
}
