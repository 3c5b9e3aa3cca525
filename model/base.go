package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base replaces gorm.Model for every record: string UUID primary key and
// timestamps, without a soft-delete column so deletes are permanent.
type Base struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" example:"3f6c1a52-8a0e-4c39-9a41-6b2f0d7f1c2e"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a new identifier unless one was set explicitly.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
