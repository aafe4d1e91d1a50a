package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// parseClock converts a wall-clock "HH:MM" string to minutes since
// midnight. Comparisons are always done on the parsed value, never on
// the raw string.
func parseClock(v string) (int, error) {
	parts := strings.Split(v, ":")
	if len(v) != 5 || len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", v)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", v)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", v)
	}
	return hour*60 + minute, nil
}

func parseDate(v string) error {
	_, err := time.Parse(dateLayout, v)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", v)
	}
	return nil
}

// timesOverlap tests half-open interval overlap on minute values:
// [aStart, aEnd) intersects [bStart, bEnd).
func timesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// hasConflict scans existing appointments for one overlapping the
// proposed [start, end) range. Terminal appointments never conflict, and
// excludeID skips the appointment being rescheduled.
func hasConflict(existing []models.Appointment, start, end int, excludeID uuid.UUID) (bool, error) {
	for _, appt := range existing {
		if appt.ID == excludeID {
			continue
		}
		if appt.Status.IsTerminal() {
			continue
		}
		otherStart, err := parseClock(appt.StartTime)
		if err != nil {
			return false, err
		}
		otherEnd, err := parseClock(appt.EndTime)
		if err != nil {
			return false, err
		}
		if timesOverlap(start, end, otherStart, otherEnd) {
			return true, nil
		}
	}
	return false, nil
}

// IsFacultyTimeSlotAvailable reports whether the faculty member has no
// pending or accepted appointment overlapping the proposed range on the
// given date.
func IsFacultyTimeSlotAvailable(facultyID uuid.UUID, date, startTime, endTime string, excludeID uuid.UUID) (bool, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return false, &ValidationError{Message: err.Error()}
	}
	end, err := parseClock(endTime)
	if err != nil {
		return false, &ValidationError{Message: err.Error()}
	}

	var existing []models.Appointment
	if err := database.DB.
		Where("faculty_id = ? AND date = ? AND status IN ?", facultyID, date,
			[]models.AppointmentStatus{models.AppointmentPending, models.AppointmentAccepted}).
		Find(&existing).Error; err != nil {
		return false, storeErr("list faculty appointments", err)
	}

	conflict, err := hasConflict(existing, start, end, excludeID)
	if err != nil {
		return false, &ValidationError{Message: err.Error()}
	}
	return !conflict, nil
}

// IsFacilityTimeSlotAvailable is the facility-side counterpart: no
// pending or accepted appointment in the same room may overlap.
func IsFacilityTimeSlotAvailable(facilityID uuid.UUID, date, startTime, endTime string, excludeID uuid.UUID) (bool, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return false, &ValidationError{Message: err.Error()}
	}
	end, err := parseClock(endTime)
	if err != nil {
		return false, &ValidationError{Message: err.Error()}
	}

	var existing []models.Appointment
	if err := database.DB.
		Where("facility_id = ? AND date = ? AND status IN ?", facilityID, date,
			[]models.AppointmentStatus{models.AppointmentPending, models.AppointmentAccepted}).
		Find(&existing).Error; err != nil {
		return false, storeErr("list facility appointments", err)
	}

	conflict, err := hasConflict(existing, start, end, excludeID)
	if err != nil {
		return false, &ValidationError{Message: err.Error()}
	}
	return !conflict, nil
}
