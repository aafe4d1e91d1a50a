package routes

import (
	"github.com/facultystream/portal/handlers"
	"github.com/facultystream/portal/middleware"
	"github.com/gofiber/fiber/v2"
)

func DocumentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	documents := api.Group("/documents", middleware.Protected())
	documents.Get("", handlers.ListDocuments)
	documents.Post("", middleware.StaffRequired(), handlers.CreateDocument)
	documents.Delete("/:documentId", middleware.StaffRequired(), handlers.DeleteDocument)

	uploads := api.Group("/uploads", middleware.Protected(), middleware.StaffRequired())
	uploads.Post("/signature", handlers.GenerateUploadSignature)
}
