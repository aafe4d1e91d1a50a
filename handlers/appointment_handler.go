package handlers

import (
	"github.com/facultystream/portal/models"
	"github.com/facultystream/portal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateAppointmentRequest struct {
	FacultyID   string   `json:"faculty_id" validate:"required,uuid"`
	StudentIDs  []string `json:"student_ids" validate:"omitempty,dive,uuid"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string   `json:"start_time" validate:"required"`
	EndTime     string   `json:"end_time" validate:"required"`
	MeetingType string   `json:"meeting_type" validate:"required,oneof=online physical"`
	MeetingLink *string  `json:"meeting_link,omitempty"`
	FacilityID  *string  `json:"facility_id,omitempty" validate:"omitempty,uuid"`
	Notes       *string  `json:"notes,omitempty"`
}

// CreateAppointment books a slot with a faculty member. Students book
// for themselves; faculty can book on behalf of listed students.
func CreateAppointment(c *fiber.Ctx) error {
	userID, role, name := requestClaims(c)

	var req CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	facultyID, _ := uuid.Parse(req.FacultyID)

	studentIDs := make([]uuid.UUID, 0, len(req.StudentIDs))
	for _, raw := range req.StudentIDs {
		id, _ := uuid.Parse(raw)
		studentIDs = append(studentIDs, id)
	}
	// A student booking for themselves does not need to repeat their id.
	if role == models.RoleStudent && len(studentIDs) == 0 {
		studentIDs = append(studentIDs, userID)
	}

	var facilityID *uuid.UUID
	if req.FacilityID != nil {
		id, _ := uuid.Parse(*req.FacilityID)
		facilityID = &id
	}

	appointment, err := services.CreateAppointment(services.CreateAppointmentInput{
		FacultyID:     facultyID,
		StudentIDs:    studentIDs,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		MeetingType:   req.MeetingType,
		MeetingLink:   req.MeetingLink,
		FacilityID:    facilityID,
		Notes:         req.Notes,
		CreatedBy:     userID,
		CreatedByRole: role,
		CreatedByName: name,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// GetMyAppointments returns the caller's appointments in either role.
func GetMyAppointments(c *fiber.Ctx) error {
	userID, _, _ := requestClaims(c)

	appointments, err := services.GetUserAppointments(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(appointments)
}

// GetMyHostedAppointments lists the appointments the calling faculty
// member hosts.
func GetMyHostedAppointments(c *fiber.Ctx) error {
	userID, _, _ := requestClaims(c)

	appointments, err := services.GetFacultyAppointments(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(appointments)
}

// GetFacultyAppointments lists a faculty member's appointments so
// students can see taken ranges.
func GetFacultyAppointments(c *fiber.Ctx) error {
	facultyID, err := uuid.Parse(c.Params("facultyId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid faculty ID"})
	}

	appointments, svcErr := services.GetFacultyAppointments(facultyID)
	if svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.JSON(appointments)
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected cancelled"`
}

// UpdateAppointmentStatus applies accept/reject (faculty) or cancel
// (either party).
func UpdateAppointmentStatus(c *fiber.Ctx) error {
	userID, role, name := requestClaims(c)

	appointmentID, err := uuid.Parse(c.Params("appointmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment ID"})
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	existing, svcErr := services.GetAppointment(appointmentID)
	if svcErr != nil {
		return serviceError(c, svcErr)
	}

	newStatus := models.AppointmentStatus(req.Status)
	switch newStatus {
	case models.AppointmentAccepted, models.AppointmentRejected:
		if role != models.RoleAdmin && existing.FacultyID != userID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the faculty member can accept or reject this appointment"})
		}
	case models.AppointmentCancelled:
		if role != models.RoleAdmin && !isParticipant(existing, userID) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only a participant can cancel this appointment"})
		}
	}

	appointment, svcErr := services.UpdateAppointmentStatus(appointmentID, newStatus, name)
	if svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.JSON(appointment)
}

type RescheduleRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

func RescheduleAppointment(c *fiber.Ctx) error {
	userID, role, name := requestClaims(c)

	appointmentID, err := uuid.Parse(c.Params("appointmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment ID"})
	}

	var req RescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	existing, svcErr := services.GetAppointment(appointmentID)
	if svcErr != nil {
		return serviceError(c, svcErr)
	}
	if role != models.RoleAdmin && !isParticipant(existing, userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only a participant can reschedule this appointment"})
	}

	appointment, svcErr := services.RescheduleAppointment(appointmentID, req.Date, req.StartTime, req.EndTime, name)
	if svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.JSON(appointment)
}

func isParticipant(appointment *models.Appointment, userID uuid.UUID) bool {
	if appointment.FacultyID == userID {
		return true
	}
	for _, student := range appointment.Students {
		if student.ID == userID {
			return true
		}
	}
	return false
}

// ExportMySchedule generates a PDF of the caller's upcoming appointments
// and returns the download URL.
func ExportMySchedule(c *fiber.Ctx) error {
	userID, _, _ := requestClaims(c)

	url, err := services.GenerateSchedulePDF(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}
