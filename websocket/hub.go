package websocket

import (
	"log"
	"sync"

	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

type MessagePayload struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

// AppointmentEvent is pushed to every participant whenever an
// appointment is created or mutated, so dashboards stay current without
// polling.
type AppointmentEvent struct {
	Type        string              `json:"type"`
	Appointment *models.Appointment `json:"appointment"`
	recipients  []uuid.UUID
}

// NotificationEvent delivers an in-app notification record live.
type NotificationEvent struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex

var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *models.Message)
var appointmentEvents = make(chan *AppointmentEvent, 64)
var notificationEvents = make(chan *NotificationEvent, 64)

// PushAppointment queues an appointment event for the hub. Never blocks:
// if the hub is not draining, the event is dropped and logged.
func PushAppointment(eventType string, appointment *models.Appointment, recipients []uuid.UUID) {
	event := &AppointmentEvent{Type: eventType, Appointment: appointment, recipients: recipients}
	select {
	case appointmentEvents <- event:
	default:
		log.Printf("Dropping appointment event %s for %s: hub backlog full", eventType, appointment.ID)
	}
}

// PushNotification queues a notification record for live delivery.
func PushNotification(notification *models.Notification) {
	event := &NotificationEvent{Type: "notification", Notification: notification}
	select {
	case notificationEvents <- event:
	default:
		log.Printf("Dropping notification event for %s: hub backlog full", notification.RecipientID)
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case message := <-Broadcast:
			deliverMessage(message)
		case event := <-appointmentEvents:
			deliverJSON(event.recipients, event)
		case event := <-notificationEvents:
			deliverJSON([]uuid.UUID{event.Notification.RecipientID}, event)
		}
	}
}

func deliverMessage(message *models.Message) {
	var participantIDs []uuid.UUID
	err := database.DB.
		Table("conversation_participants").
		Where("conversation_id = ?", message.ConversationID).
		Pluck("user_id", &participantIDs).Error
	if err != nil {
		log.Printf("Error fetching participant IDs for conversation %s: %v", message.ConversationID, err)
		return
	}

	recipients := participantIDs[:0]
	for _, participantID := range participantIDs {
		if participantID != message.SenderID {
			recipients = append(recipients, participantID)
		}
	}
	deliverJSON(recipients, message)
}

func deliverJSON(recipients []uuid.UUID, payload interface{}) {
	var dead []uuid.UUID

	clientsMu.RLock()
	for _, recipientID := range recipients {
		if conn, ok := clients[recipientID]; ok {
			if err := conn.WriteJSON(payload); err != nil {
				log.Printf("Error sending to client %s: %v", recipientID, err)
				conn.Close()
				dead = append(dead, recipientID)
			}
		}
	}
	clientsMu.RUnlock()

	if len(dead) > 0 {
		clientsMu.Lock()
		for _, recipientID := range dead {
			delete(clients, recipientID)
		}
		clientsMu.Unlock()
	}
}
