package handlers

import (
	"github.com/facultystream/portal/notifications"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func GetMyNotifications(c *fiber.Ctx) error {
	userID, _, _ := requestClaims(c)

	items, err := notifications.GetUserNotifications(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}
	return c.JSON(items)
}

func MarkNotificationRead(c *fiber.Ctx) error {
	userID, _, _ := requestClaims(c)

	notificationID, err := uuid.Parse(c.Params("notificationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	if err := notifications.MarkRead(notificationID, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notification"})
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read."})
}
