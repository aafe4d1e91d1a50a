package routes

import (
	"github.com/facultystream/portal/handlers"
	"github.com/facultystream/portal/middleware"
	"github.com/gofiber/fiber/v2"
)

func FacilityRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	facilities := api.Group("/facilities", middleware.Protected())
	facilities.Get("", handlers.ListFacilities)
	facilities.Get("/:facilityId/availability", handlers.GetFacilityAvailability)
	facilities.Post("/:facilityId/book", handlers.BookFacility)

	bookings := api.Group("/facility-bookings", middleware.Protected())
	bookings.Get("/me", handlers.GetMyFacilityBookings)
	bookings.Delete("/:bookingId", handlers.CancelFacilityBooking)
}
