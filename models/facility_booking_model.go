package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FacilityBookingBooked    = "booked"
	FacilityBookingCancelled = "cancelled"
)

// FacilityBooking consumes one (facility, date, slot) triple.
type FacilityBooking struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FacilityID uuid.UUID `gorm:"not null;index" json:"facility_id"`
	UserID     uuid.UUID `gorm:"not null;index" json:"user_id"`
	Date       string    `gorm:"size:10;not null;index" json:"date"`
	Slot       string    `gorm:"size:20;not null" json:"slot"`
	Status     string    `gorm:"size:20;not null;default:'booked'" json:"status"`

	Facility Facility `gorm:"foreignkey:FacilityID" json:"facility,omitempty"`
	User     User     `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (b *FacilityBooking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
