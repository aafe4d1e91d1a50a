package handlers

import (
	"fmt"

	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/facultystream/portal/notifications"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateAnnouncementRequest struct {
	Title    string `json:"title" validate:"required,min=3"`
	Body     string `json:"body" validate:"required"`
	Audience string `json:"audience" validate:"required,oneof=all students faculty"`
}

// CreateAnnouncement publishes a portal announcement and fans out in-app
// notifications to everyone in the audience.
func CreateAnnouncement(c *fiber.Ctx) error {
	userID, _, _ := requestClaims(c)

	var req CreateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	announcement := models.Announcement{
		Title:     req.Title,
		Body:      req.Body,
		Audience:  req.Audience,
		CreatedBy: userID,
	}
	if err := database.DB.Create(&announcement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create announcement"})
	}

	go fanOutAnnouncement(&announcement)

	return c.Status(fiber.StatusCreated).JSON(announcement)
}

func fanOutAnnouncement(announcement *models.Announcement) {
	query := database.DB.Model(&models.User{}).Where("is_active = ?", true)
	switch announcement.Audience {
	case models.AudienceStudents:
		query = query.Where("role = ?", models.RoleStudent)
	case models.AudienceFaculty:
		query = query.Where("role = ?", models.RoleFaculty)
	}

	var recipientIDs []uuid.UUID
	if err := query.Pluck("id", &recipientIDs).Error; err != nil {
		return
	}

	message := fmt.Sprintf("New announcement: %s", announcement.Title)
	for _, recipientID := range recipientIDs {
		if recipientID == announcement.CreatedBy {
			continue
		}
		notifications.Notify(recipientID, message, models.NotificationAnnouncement, nil)
	}
}

// ListAnnouncements shows announcements visible to the caller's role.
func ListAnnouncements(c *fiber.Ctx) error {
	_, role, _ := requestClaims(c)

	audiences := []string{models.AudienceAll}
	switch role {
	case models.RoleStudent:
		audiences = append(audiences, models.AudienceStudents)
	case models.RoleFaculty:
		audiences = append(audiences, models.AudienceFaculty)
	case models.RoleAdmin:
		audiences = append(audiences, models.AudienceStudents, models.AudienceFaculty)
	}

	var announcements []models.Announcement
	if err := database.DB.
		Preload("Author").
		Where("audience IN ?", audiences).
		Order("created_at desc").
		Find(&announcements).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch announcements"})
	}

	return c.JSON(announcements)
}

// DeleteAnnouncement removes an announcement. Authors remove their own;
// admins can remove any.
func DeleteAnnouncement(c *fiber.Ctx) error {
	userID, role, _ := requestClaims(c)

	announcementID := c.Params("announcementId")

	var announcement models.Announcement
	if err := database.DB.First(&announcement, "id = ?", announcementID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Announcement not found"})
	}
	if announcement.CreatedBy != userID && role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You cannot delete this announcement"})
	}

	if err := database.DB.Delete(&announcement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete announcement"})
	}
	return c.JSON(fiber.Map{"message": "Announcement deleted."})
}
