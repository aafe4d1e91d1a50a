package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FacilityStatus string

const (
	FacilityActive      FacilityStatus = "active"
	FacilityPending     FacilityStatus = "pending"
	FacilityMaintenance FacilityStatus = "maintenance"
)

type Facility struct {
	ID       uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name     string         `gorm:"size:255;not null" json:"name"`
	Location string         `gorm:"size:255;not null" json:"location"`
	Status   FacilityStatus `gorm:"size:20;not null;default:'active'" json:"status"`

	// AvailableSlots is the configured bookable slot labels, e.g.
	// "09:00-10:00". Per-date consumption lives in FacilityBooking rows;
	// this list is never mutated by a booking.
	AvailableSlots datatypes.JSONSlice[string] `json:"available_slots"`
	Capacity       *int                        `json:"capacity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *Facility) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
