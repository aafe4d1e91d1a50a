package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/facultystream/portal/notifications"
	"github.com/facultystream/portal/utils"
	"github.com/facultystream/portal/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateAppointmentInput struct {
	FacultyID   uuid.UUID
	StudentIDs  []uuid.UUID
	Date        string
	StartTime   string
	EndTime     string
	MeetingType string
	MeetingLink *string
	FacilityID  *uuid.UUID
	Notes       *string

	CreatedBy     uuid.UUID
	CreatedByRole string
	CreatedByName string
}

func (in *CreateAppointmentInput) validate() error {
	if len(in.StudentIDs) == 0 {
		return &ValidationError{Message: "at least one student is required"}
	}
	if err := parseDate(in.Date); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	start, err := parseClock(in.StartTime)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	end, err := parseClock(in.EndTime)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if start >= end {
		return &ValidationError{Message: "start time must be before end time"}
	}

	switch in.MeetingType {
	case models.MeetingOnline:
		if in.FacilityID != nil {
			return &ValidationError{Message: "online appointments cannot reference a facility"}
		}
	case models.MeetingPhysical:
		if in.FacilityID == nil {
			return &ValidationError{Message: "physical appointments require a facility"}
		}
		if in.MeetingLink != nil {
			return &ValidationError{Message: "physical appointments cannot carry a meeting link"}
		}
	default:
		return &ValidationError{Message: "meeting type must be online or physical"}
	}
	return nil
}

// CreateAppointment runs the availability checks, persists the
// appointment and notifies every participant. Appointments created by
// faculty members are accepted immediately; student requests start
// pending.
func CreateAppointment(in CreateAppointmentInput) (*models.Appointment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var faculty models.User
	if err := database.DB.First(&faculty, "id = ? AND role = ?", in.FacultyID, models.RoleFaculty).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "faculty member"}
		}
		return nil, storeErr("load faculty member", err)
	}

	var students []*models.User
	if err := database.DB.Find(&students, "id IN ?", in.StudentIDs).Error; err != nil {
		return nil, storeErr("load students", err)
	}
	if len(students) != len(in.StudentIDs) {
		return nil, &NotFoundError{Resource: "student"}
	}

	if in.MeetingType == models.MeetingPhysical {
		var facility models.Facility
		if err := database.DB.First(&facility, "id = ?", *in.FacilityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Resource: "facility"}
			}
			return nil, storeErr("load facility", err)
		}
		if facility.Status != models.FacilityActive {
			return nil, &ConflictError{Message: "facility is not accepting bookings"}
		}
	}

	// Serialize the check-then-insert per faculty member (and facility)
	// so concurrent requests cannot both pass the availability check.
	unlockFaculty := lockParty("faculty:" + in.FacultyID.String() + ":" + in.Date)
	defer unlockFaculty()
	if in.FacilityID != nil {
		unlockFacility := lockParty("facility:" + in.FacilityID.String() + ":" + in.Date)
		defer unlockFacility()
	}

	free, err := IsFacultyTimeSlotAvailable(in.FacultyID, in.Date, in.StartTime, in.EndTime, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, &ConflictError{Message: "the faculty member already has an appointment in that time range"}
	}

	if in.FacilityID != nil {
		free, err := IsFacilityTimeSlotAvailable(*in.FacilityID, in.Date, in.StartTime, in.EndTime, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, &ConflictError{Message: "the facility is already booked in that time range"}
		}
	}

	status := models.AppointmentPending
	if in.CreatedByRole == models.RoleFaculty {
		status = models.AppointmentAccepted
	}

	meetingLink := in.MeetingLink
	if in.MeetingType == models.MeetingOnline && meetingLink == nil {
		link := utils.GenerateMeetingLink()
		meetingLink = &link
	}

	appointment := models.Appointment{
		FacultyID:     in.FacultyID,
		Date:          in.Date,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		MeetingType:   in.MeetingType,
		MeetingLink:   meetingLink,
		FacilityID:    in.FacilityID,
		Notes:         in.Notes,
		Status:        status,
		CreatedBy:     in.CreatedBy,
		CreatedByRole: in.CreatedByRole,
		CreatedByName: in.CreatedByName,
		Students:      students,
	}

	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&appointment).Error
	}); err != nil {
		return nil, storeErr("create appointment", err)
	}
	appointment.Faculty = faculty

	message := fmt.Sprintf("New %s appointment with %s on %s from %s to %s",
		appointment.MeetingType, faculty.FullName, appointment.Date, appointment.StartTime, appointment.EndTime)
	notifyParticipants(&appointment, message)
	websocket.PushAppointment("appointment.created", &appointment, participantIDs(&appointment))

	return &appointment, nil
}

func legalTransition(from, to models.AppointmentStatus) bool {
	switch from {
	case models.AppointmentPending:
		return to == models.AppointmentAccepted ||
			to == models.AppointmentRejected ||
			to == models.AppointmentCancelled
	case models.AppointmentAccepted:
		return to == models.AppointmentCancelled
	}
	return false
}

// UpdateAppointmentStatus applies one step of the status machine:
// pending -> accepted|rejected|cancelled, accepted -> cancelled.
// Terminal states never transition again.
func UpdateAppointmentStatus(appointmentID uuid.UUID, newStatus models.AppointmentStatus, updatedBy string) (*models.Appointment, error) {
	appointment, err := loadAppointment(appointmentID)
	if err != nil {
		return nil, err
	}

	if !legalTransition(appointment.Status, newStatus) {
		return nil, &ValidationError{Message: fmt.Sprintf(
			"cannot change a %s appointment to %s", appointment.Status, newStatus)}
	}

	appointment.Status = newStatus
	appointment.UpdatedBy = &updatedBy
	if err := database.DB.Save(appointment).Error; err != nil {
		return nil, storeErr("update appointment status", err)
	}

	message := fmt.Sprintf("Appointment on %s (%s-%s) is now %s",
		appointment.Date, appointment.StartTime, appointment.EndTime, newStatus)
	notifyParticipants(appointment, message)
	websocket.PushAppointment("appointment.status", appointment, participantIDs(appointment))

	return appointment, nil
}

// RescheduleAppointment moves an appointment to a new date/time range.
// The appointment's own row is excluded from the conflict check, so
// shifting within the current range never self-conflicts.
func RescheduleAppointment(appointmentID uuid.UUID, newDate, newStart, newEnd, updatedBy string) (*models.Appointment, error) {
	appointment, err := loadAppointment(appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.Status.IsTerminal() {
		return nil, &ValidationError{Message: fmt.Sprintf(
			"cannot reschedule a %s appointment", appointment.Status)}
	}

	if err := parseDate(newDate); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	start, err := parseClock(newStart)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	end, err := parseClock(newEnd)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if start >= end {
		return nil, &ValidationError{Message: "start time must be before end time"}
	}

	unlockFaculty := lockParty("faculty:" + appointment.FacultyID.String() + ":" + newDate)
	defer unlockFaculty()
	if appointment.FacilityID != nil {
		unlockFacility := lockParty("facility:" + appointment.FacilityID.String() + ":" + newDate)
		defer unlockFacility()
	}

	free, err := IsFacultyTimeSlotAvailable(appointment.FacultyID, newDate, newStart, newEnd, appointment.ID)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, &ConflictError{Message: "the faculty member already has an appointment in that time range"}
	}
	if appointment.FacilityID != nil {
		free, err := IsFacilityTimeSlotAvailable(*appointment.FacilityID, newDate, newStart, newEnd, appointment.ID)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, &ConflictError{Message: "the facility is already booked in that time range"}
		}
	}

	appointment.Date = newDate
	appointment.StartTime = newStart
	appointment.EndTime = newEnd
	appointment.UpdatedBy = &updatedBy
	if err := database.DB.Save(appointment).Error; err != nil {
		return nil, storeErr("reschedule appointment", err)
	}

	message := fmt.Sprintf("Appointment rescheduled to %s from %s to %s",
		appointment.Date, appointment.StartTime, appointment.EndTime)
	notifyParticipants(appointment, message)
	websocket.PushAppointment("appointment.rescheduled", appointment, participantIDs(appointment))

	return appointment, nil
}

// CancelAppointment is the system-initiated cancellation wrapper.
func CancelAppointment(appointmentID uuid.UUID) (*models.Appointment, error) {
	return UpdateAppointmentStatus(appointmentID, models.AppointmentCancelled, "system")
}

// DeleteAppointment hard-removes the record. The record is loaded first
// so every participant can still be told what was removed.
func DeleteAppointment(appointmentID uuid.UUID) error {
	appointment, err := loadAppointment(appointmentID)
	if err != nil {
		return err
	}

	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(appointment).Association("Students").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Appointment{}, "id = ?", appointment.ID).Error
	}); err != nil {
		return storeErr("delete appointment", err)
	}

	message := fmt.Sprintf("Appointment on %s (%s-%s) with %s was removed by an administrator",
		appointment.Date, appointment.StartTime, appointment.EndTime, appointment.Faculty.FullName)
	notifyParticipants(appointment, message)
	websocket.PushAppointment("appointment.deleted", appointment, participantIDs(appointment))

	return nil
}

// GetFacultyAppointments lists the faculty member's appointments, most
// recent date first.
func GetFacultyAppointments(facultyID uuid.UUID) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := database.DB.
		Preload("Students").
		Preload("Facility").
		Where("faculty_id = ?", facultyID).
		Order("date desc").
		Find(&appointments).Error; err != nil {
		return nil, storeErr("list faculty appointments", err)
	}
	sortAppointments(appointments)
	return appointments, nil
}

// GetStudentAppointments lists appointments the student participates in.
func GetStudentAppointments(studentID uuid.UUID) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := database.DB.
		Preload("Students").
		Preload("Faculty").
		Preload("Facility").
		Joins("JOIN appointment_students ON appointment_students.appointment_id = appointments.id").
		Where("appointment_students.user_id = ?", studentID).
		Order("date desc").
		Find(&appointments).Error; err != nil {
		return nil, storeErr("list student appointments", err)
	}
	sortAppointments(appointments)
	return appointments, nil
}

// GetUserAppointments unions the faculty-side and student-side listings
// for a user acting in either role.
func GetUserAppointments(userID uuid.UUID) ([]models.Appointment, error) {
	asFaculty, err := GetFacultyAppointments(userID)
	if err != nil {
		return nil, err
	}
	asStudent, err := GetStudentAppointments(userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(asFaculty))
	merged := asFaculty
	for _, appt := range asFaculty {
		seen[appt.ID] = true
	}
	for _, appt := range asStudent {
		if !seen[appt.ID] {
			merged = append(merged, appt)
		}
	}
	sortAppointments(merged)
	return merged, nil
}

// GetAllAppointments is the unfiltered administrative listing.
func GetAllAppointments() ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := database.DB.
		Preload("Students").
		Preload("Faculty").
		Preload("Facility").
		Order("date desc").
		Find(&appointments).Error; err != nil {
		return nil, storeErr("list appointments", err)
	}
	sortAppointments(appointments)
	return appointments, nil
}

// GetAppointment loads a single appointment with its participants.
func GetAppointment(id uuid.UUID) (*models.Appointment, error) {
	return loadAppointment(id)
}

func loadAppointment(id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	err := database.DB.
		Preload("Students").
		Preload("Faculty").
		Preload("Facility").
		First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "appointment"}
		}
		return nil, storeErr("load appointment", err)
	}
	return &appointment, nil
}

// sortAppointments orders by date descending, then start time ascending
// within a day.
func sortAppointments(appointments []models.Appointment) {
	sort.SliceStable(appointments, func(i, j int) bool {
		if appointments[i].Date != appointments[j].Date {
			return appointments[i].Date > appointments[j].Date
		}
		return appointments[i].StartTime < appointments[j].StartTime
	})
}

func participantIDs(appointment *models.Appointment) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(appointment.Students)+1)
	ids = append(ids, appointment.FacultyID)
	for _, student := range appointment.Students {
		ids = append(ids, student.ID)
	}
	return ids
}

// notifyParticipants is best effort: delivery failures are logged inside
// the notifier and never fail the operation that triggered them.
func notifyParticipants(appointment *models.Appointment, message string) {
	apptID := appointment.ID
	for _, recipientID := range participantIDs(appointment) {
		notifications.Notify(recipientID, message, models.NotificationAppointment, &apptID)
	}
}
