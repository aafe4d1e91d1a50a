package notifications

import (
	"log"

	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/facultystream/portal/websocket"
	"github.com/google/uuid"
)

// Notify records an in-app notification and pushes it to the recipient
// over the websocket hub if they are connected. Delivery is best effort:
// failures are logged and never propagated to the caller, so a failed
// send cannot fail or roll back the operation that triggered it.
func Notify(recipientID uuid.UUID, message, notificationType string, appointmentID *uuid.UUID) {
	notification := models.Notification{
		RecipientID:          recipientID,
		Message:              message,
		Type:                 notificationType,
		RelatedAppointmentID: appointmentID,
	}

	if err := database.DB.Create(&notification).Error; err != nil {
		log.Printf("🔥 Failed to record notification for %s: %v", recipientID, err)
		return
	}

	websocket.PushNotification(&notification)
}

// GetUserNotifications lists a user's notifications, newest first.
func GetUserNotifications(userID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	err := database.DB.
		Where("recipient_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error
	return notifications, err
}

// MarkRead flags one of the user's notifications as read.
func MarkRead(notificationID, userID uuid.UUID) error {
	return database.DB.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, userID).
		Update("read", true).Error
}
