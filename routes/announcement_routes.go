package routes

import (
	"github.com/facultystream/portal/handlers"
	"github.com/facultystream/portal/middleware"
	"github.com/gofiber/fiber/v2"
)

func AnnouncementRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	announcements := api.Group("/announcements", middleware.Protected())
	announcements.Get("", handlers.ListAnnouncements)
	announcements.Post("", middleware.StaffRequired(), handlers.CreateAnnouncement)
	announcements.Delete("/:announcementId", middleware.StaffRequired(), handlers.DeleteAnnouncement)
}
