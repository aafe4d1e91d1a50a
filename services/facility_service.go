package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/facultystream/portal/notifications"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AddFacilityInput struct {
	Name     string
	Location string
	Slots    []string
	Capacity *int
}

func validSlotLabel(label string) error {
	parts := strings.Split(label, "-")
	if len(parts) != 2 {
		return fmt.Errorf("invalid slot %q, expected HH:MM-HH:MM", label)
	}
	start, err := parseClock(parts[0])
	if err != nil {
		return err
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("slot %q must start before it ends", label)
	}
	return nil
}

// AddFacility registers a bookable room with its configured slot labels.
func AddFacility(in AddFacilityInput) (*models.Facility, error) {
	if in.Name == "" || in.Location == "" {
		return nil, &ValidationError{Message: "facility name and location are required"}
	}
	if len(in.Slots) == 0 {
		return nil, &ValidationError{Message: "at least one bookable slot is required"}
	}
	seen := make(map[string]bool, len(in.Slots))
	for _, slot := range in.Slots {
		if err := validSlotLabel(slot); err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
		if seen[slot] {
			return nil, &ValidationError{Message: fmt.Sprintf("duplicate slot %q", slot)}
		}
		seen[slot] = true
	}
	if in.Capacity != nil && *in.Capacity <= 0 {
		return nil, &ValidationError{Message: "capacity must be positive"}
	}

	facility := models.Facility{
		Name:           in.Name,
		Location:       in.Location,
		Status:         models.FacilityActive,
		AvailableSlots: datatypes.NewJSONSlice(in.Slots),
		Capacity:       in.Capacity,
	}
	if err := database.DB.Create(&facility).Error; err != nil {
		return nil, storeErr("create facility", err)
	}
	return &facility, nil
}

// RemoveFacility hard-deletes the facility and its booking history.
func RemoveFacility(facilityID uuid.UUID) error {
	facility, err := loadFacility(facilityID)
	if err != nil {
		return err
	}

	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.FacilityBooking{}, "facility_id = ?", facility.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Facility{}, "id = ?", facility.ID).Error
	}); err != nil {
		return storeErr("delete facility", err)
	}
	return nil
}

// UpdateFacilityStatus moves a room in or out of the bookable pool.
// Only active facilities accept new bookings.
func UpdateFacilityStatus(facilityID uuid.UUID, status models.FacilityStatus) (*models.Facility, error) {
	switch status {
	case models.FacilityActive, models.FacilityPending, models.FacilityMaintenance:
	default:
		return nil, &ValidationError{Message: fmt.Sprintf("unknown facility status %q", status)}
	}

	facility, err := loadFacility(facilityID)
	if err != nil {
		return nil, err
	}

	facility.Status = status
	if err := database.DB.Save(facility).Error; err != nil {
		return nil, storeErr("update facility status", err)
	}
	return facility, nil
}

// ListFacilities returns every facility, newest first.
func ListFacilities() ([]models.Facility, error) {
	var facilities []models.Facility
	if err := database.DB.Order("created_at desc").Find(&facilities).Error; err != nil {
		return nil, storeErr("list facilities", err)
	}
	return facilities, nil
}

// GetAvailableSlots returns the configured slots minus the ones already
// booked for the given date, in configured order. Bookings on other
// dates never affect the result.
func GetAvailableSlots(facilityID uuid.UUID, date string) ([]string, error) {
	if err := parseDate(date); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	facility, err := loadFacility(facilityID)
	if err != nil {
		return nil, err
	}

	var booked []string
	if err := database.DB.Model(&models.FacilityBooking{}).
		Where("facility_id = ? AND date = ? AND status = ?", facilityID, date, models.FacilityBookingBooked).
		Pluck("slot", &booked).Error; err != nil {
		return nil, storeErr("list facility bookings", err)
	}

	taken := make(map[string]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}

	available := make([]string, 0, len(facility.AvailableSlots))
	for _, slot := range facility.AvailableSlots {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	return available, nil
}

// BookFacility reserves one (facility, date, slot) triple for a user.
func BookFacility(facilityID uuid.UUID, slot, date string, userID uuid.UUID) (*models.FacilityBooking, error) {
	if err := parseDate(date); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if err := validSlotLabel(slot); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	unlock := lockParty("facility-slot:" + facilityID.String() + ":" + date)
	defer unlock()

	facility, err := loadFacility(facilityID)
	if err != nil {
		return nil, err
	}
	if facility.Status != models.FacilityActive {
		return nil, &ConflictError{Message: "facility is not accepting bookings"}
	}

	offered := false
	for _, configured := range facility.AvailableSlots {
		if configured == slot {
			offered = true
			break
		}
	}
	if !offered {
		return nil, &SlotUnavailableError{Slot: slot}
	}

	var booking models.FacilityBooking
	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.FacilityBooking{}).
			Where("facility_id = ? AND date = ? AND slot = ? AND status = ?",
				facilityID, date, slot, models.FacilityBookingBooked).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &SlotUnavailableError{Slot: slot}
		}

		booking = models.FacilityBooking{
			FacilityID: facilityID,
			UserID:     userID,
			Date:       date,
			Slot:       slot,
			Status:     models.FacilityBookingBooked,
		}
		return tx.Create(&booking).Error
	}); err != nil {
		var unavailable *SlotUnavailableError
		if errors.As(err, &unavailable) {
			return nil, err
		}
		return nil, storeErr("book facility slot", err)
	}

	message := fmt.Sprintf("Booked %s at %s for %s on %s", booking.Slot, facility.Name, facility.Location, booking.Date)
	notifications.Notify(userID, message, models.NotificationFacility, nil)

	return &booking, nil
}

// CancelFacilityBooking releases a booked slot back into the pool for
// its date. Owners cancel their own bookings; admins can force it.
func CancelFacilityBooking(bookingID, requestedBy uuid.UUID, isAdmin bool) error {
	var booking models.FacilityBooking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "facility booking"}
		}
		return storeErr("load facility booking", err)
	}

	if booking.UserID != requestedBy && !isAdmin {
		return &ValidationError{Message: "only the booking owner can cancel it"}
	}
	if booking.Status != models.FacilityBookingBooked {
		return &ValidationError{Message: "booking is already cancelled"}
	}

	booking.Status = models.FacilityBookingCancelled
	if err := database.DB.Save(&booking).Error; err != nil {
		return storeErr("cancel facility booking", err)
	}

	message := fmt.Sprintf("Booking for %s on %s was cancelled", booking.Slot, booking.Date)
	notifications.Notify(booking.UserID, message, models.NotificationFacility, nil)
	return nil
}

// GetUserFacilityBookings lists a user's bookings, newest first.
func GetUserFacilityBookings(userID uuid.UUID) ([]models.FacilityBooking, error) {
	var bookings []models.FacilityBooking
	if err := database.DB.
		Preload("Facility").
		Where("user_id = ?", userID).
		Order("date desc").
		Find(&bookings).Error; err != nil {
		return nil, storeErr("list facility bookings", err)
	}
	return bookings, nil
}

func loadFacility(id uuid.UUID) (*models.Facility, error) {
	var facility models.Facility
	if err := database.DB.First(&facility, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "facility"}
		}
		return nil, storeErr("load facility", err)
	}
	return &facility, nil
}
