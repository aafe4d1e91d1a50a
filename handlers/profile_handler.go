package handlers

import (
	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	FullName          *string `json:"full_name"`
	Department        *string `json:"department"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

func GetProfile(c *fiber.Ctx) error {
	userID, _, _ := requestClaims(c)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userID, _, _ := requestClaims(c)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.ProfilePictureURL != nil {
		user.ProfilePictureURL = req.ProfilePictureURL
	}

	database.DB.Save(&user)

	return c.JSON(user)
}

// ListFacultyDirectory lets students browse bookable faculty members.
func ListFacultyDirectory(c *fiber.Ctx) error {
	var faculty []models.User
	if err := database.DB.
		Where("role = ? AND is_active = ?", models.RoleFaculty, true).
		Order("full_name asc").
		Find(&faculty).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch faculty directory"})
	}
	return c.JSON(faculty)
}
