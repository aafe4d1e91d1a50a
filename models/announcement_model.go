package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AudienceAll      = "all"
	AudienceStudents = "students"
	AudienceFaculty  = "faculty"
)

type Announcement struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title    string    `gorm:"size:255;not null" json:"title"`
	Body     string    `gorm:"type:text;not null" json:"body"`
	Audience string    `gorm:"size:20;not null;default:'all'" json:"audience"`

	CreatedBy uuid.UUID `gorm:"not null" json:"created_by"`
	Author    User      `gorm:"foreignkey:CreatedBy" json:"author,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
