package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationAppointment  = "appointment"
	NotificationFacility     = "facility"
	NotificationAnnouncement = "announcement"
	NotificationSystem       = "system"
)

type Notification struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	RecipientID          uuid.UUID  `gorm:"not null;index" json:"recipient_id"`
	Message              string     `gorm:"type:text;not null" json:"message"`
	Type                 string     `gorm:"size:20;not null;default:'system'" json:"type"`
	RelatedAppointmentID *uuid.UUID `json:"related_appointment_id"`
	Read                 bool       `gorm:"default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
