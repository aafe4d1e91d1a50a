package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID  uuid.UUID `gorm:"not null;index" json:"owner_id"`
	Title    string    `gorm:"size:255;not null" json:"title"`
	FileURL  string    `gorm:"type:text;not null" json:"file_url"`
	Audience string    `gorm:"size:20;not null;default:'all'" json:"audience"`

	Owner User `gorm:"foreignkey:OwnerID" json:"owner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
