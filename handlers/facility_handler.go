package handlers

import (
	"github.com/facultystream/portal/models"
	"github.com/facultystream/portal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ListFacilities shows every room so users can pick one to book.
func ListFacilities(c *fiber.Ctx) error {
	facilities, err := services.ListFacilities()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(facilities)
}

// GetFacilityAvailability returns the free slots for one facility on a
// given date.
func GetFacilityAvailability(c *fiber.Ctx) error {
	facilityID, err := uuid.Parse(c.Params("facilityId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid facility ID"})
	}

	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date query parameter is required"})
	}

	slots, svcErr := services.GetAvailableSlots(facilityID, date)
	if svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"facility_id": facilityID, "date": date, "available_slots": slots})
}

type BookFacilityRequest struct {
	Slot string `json:"slot" validate:"required"`
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

func BookFacility(c *fiber.Ctx) error {
	userID, _, _ := requestClaims(c)

	facilityID, err := uuid.Parse(c.Params("facilityId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid facility ID"})
	}

	var req BookFacilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, svcErr := services.BookFacility(facilityID, req.Slot, req.Date, userID)
	if svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

func CancelFacilityBooking(c *fiber.Ctx) error {
	userID, role, _ := requestClaims(c)

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	if svcErr := services.CancelFacilityBooking(bookingID, userID, role == models.RoleAdmin); svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"message": "Booking cancelled and slot released."})
}

func GetMyFacilityBookings(c *fiber.Ctx) error {
	userID, _, _ := requestClaims(c)

	bookings, err := services.GetUserFacilityBookings(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(bookings)
}
