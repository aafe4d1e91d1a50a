package routes

import (
	"github.com/facultystream/portal/handlers"
	"github.com/facultystream/portal/middleware"
	"github.com/gofiber/fiber/v2"
)

func AppointmentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	appointments := api.Group("/appointments", middleware.Protected())
	appointments.Get("/me", handlers.GetMyAppointments)
	appointments.Post("", handlers.CreateAppointment)
	appointments.Put("/:appointmentId/status", handlers.UpdateAppointmentStatus)
	appointments.Put("/:appointmentId/reschedule", handlers.RescheduleAppointment)
	appointments.Get("/export", handlers.ExportMySchedule)

	faculty := api.Group("/faculty", middleware.Protected())
	faculty.Get("/me/appointments", middleware.FacultyRequired(), handlers.GetMyHostedAppointments)
	faculty.Get("/:facultyId/appointments", handlers.GetFacultyAppointments)
}
