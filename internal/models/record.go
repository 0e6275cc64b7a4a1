package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record holds the fields shared by every business document. Documents are
// addressed by an opaque string id generated on insert.
type Record struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a random id when none was set.
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *Record) GetID() string   { return r.ID }
func (r *Record) SetID(id string) { r.ID = id }
