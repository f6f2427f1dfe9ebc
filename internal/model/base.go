package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Row is implemented by every table row so the store can address it by id.
type Row interface {
	GetID() string
	SetID(id string)
}

// Base carries the columns shared by every table.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetID returns the row id.
func (b *Base) GetID() string { return b.ID }

// SetID replaces the row id.
func (b *Base) SetID(id string) { b.ID = id }

// BeforeCreate assigns a UUID when the caller did not.
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
