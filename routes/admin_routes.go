package routes

import (
	"github.com/facultystream/portal/handlers"
	"github.com/facultystream/portal/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)

	facilities := admin.Group("/facilities")
	facilities.Post("", handlers.AddFacility)
	facilities.Put("/:facilityId/status", handlers.UpdateFacilityStatus)
	facilities.Delete("/:facilityId", handlers.RemoveFacility)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/role", handlers.UpdateUserRole)
	users.Put("/:userId/status", handlers.ToggleUserStatus)

	admin.Get("/appointments", handlers.AdminGetAllAppointments)
	admin.Delete("/appointments/:appointmentId", handlers.AdminDeleteAppointment)
}
