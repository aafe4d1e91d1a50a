package handlers

import (
	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/gofiber/fiber/v2"
)

type CreateDocumentRequest struct {
	Title    string `json:"title" validate:"required,min=3"`
	FileURL  string `json:"file_url" validate:"required,url"`
	Audience string `json:"audience" validate:"required,oneof=all students faculty"`
}

// CreateDocument records an uploaded file's metadata once the frontend
// has pushed the file itself to storage.
func CreateDocument(c *fiber.Ctx) error {
	userID, _, _ := requestClaims(c)

	var req CreateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	document := models.Document{
		OwnerID:  userID,
		Title:    req.Title,
		FileURL:  req.FileURL,
		Audience: req.Audience,
	}
	if err := database.DB.Create(&document).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save document"})
	}
	return c.Status(fiber.StatusCreated).JSON(document)
}

// ListDocuments shows the caller's own documents plus anything shared
// with their role.
func ListDocuments(c *fiber.Ctx) error {
	userID, role, _ := requestClaims(c)

	audiences := []string{models.AudienceAll}
	switch role {
	case models.RoleStudent:
		audiences = append(audiences, models.AudienceStudents)
	case models.RoleFaculty:
		audiences = append(audiences, models.AudienceFaculty)
	case models.RoleAdmin:
		audiences = append(audiences, models.AudienceStudents, models.AudienceFaculty)
	}

	var documents []models.Document
	if err := database.DB.
		Preload("Owner").
		Where("owner_id = ? OR audience IN ?", userID, audiences).
		Order("created_at desc").
		Find(&documents).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch documents"})
	}
	return c.JSON(documents)
}

func DeleteDocument(c *fiber.Ctx) error {
	userID, role, _ := requestClaims(c)

	documentID := c.Params("documentId")

	var document models.Document
	if err := database.DB.First(&document, "id = ?", documentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	}
	if document.OwnerID != userID && role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You cannot delete this document"})
	}

	if err := database.DB.Delete(&document).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete document"})
	}
	return c.JSON(fiber.Map{"message": "Document deleted."})
}
