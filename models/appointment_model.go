package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentAccepted  AppointmentStatus = "accepted"
	AppointmentRejected  AppointmentStatus = "rejected"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// IsTerminal reports whether no further status transitions are allowed.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentRejected || s == AppointmentCancelled
}

const (
	MeetingOnline   = "online"
	MeetingPhysical = "physical"
)

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FacultyID uuid.UUID `gorm:"not null;index" json:"faculty_id"`

	// Date is a time-zone-naive calendar day, YYYY-MM-DD. Start and end
	// are wall-clock HH:MM with start strictly before end.
	Date      string `gorm:"size:10;not null;index" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	MeetingType string     `gorm:"size:20;not null" json:"meeting_type"`
	MeetingLink *string    `gorm:"size:255" json:"meeting_link"`
	FacilityID  *uuid.UUID `gorm:"index" json:"facility_id"`

	Notes  *string           `gorm:"type:text" json:"notes"`
	Status AppointmentStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	CreatedBy     uuid.UUID `gorm:"not null" json:"created_by"`
	CreatedByRole string    `gorm:"size:20;not null" json:"created_by_role"`
	CreatedByName string    `gorm:"size:255" json:"created_by_name"`
	UpdatedBy     *string   `gorm:"size:255" json:"updated_by"`

	Faculty  User      `gorm:"foreignkey:FacultyID" json:"faculty,omitempty"`
	Students []*User   `gorm:"many2many:appointment_students;" json:"students,omitempty"`
	Facility *Facility `gorm:"foreignkey:FacilityID" json:"facility,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
