package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/example/veyara-realtime/internal/domain/notification"
	"github.com/example/veyara-realtime/internal/domain/user"
	"github.com/example/veyara-realtime/internal/infrastructure/kafka"
	"github.com/example/veyara-realtime/internal/infrastructure/store"
)

// EmailSender sends order update e-mails
type EmailSender interface {
	SendOrderStatusUpdate(to, name, orderID, status, message string) error
}

// Handler processes notification events for sending e-mails
type Handler struct {
	emailService EmailSender
	users        store.UserStore
}

// NewHandler creates a new notification handler
func NewHandler(emailSvc EmailSender, users store.UserStore) *Handler {
	return &Handler{
		emailService: emailSvc,
		users:        users,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, msg kafka.Message) error {
	// Only process NotificationCreated events
	if msg.EventType != EventNotificationCreated {
		return nil
	}

	var n notification.Notification
	if err := json.Unmarshal(msg.Value, &n); err != nil {
		log.Printf("[Notifier] Failed to unmarshal notification: %v", err)
		return err
	}

	if n.Type != notification.TypeOrder {
		return nil
	}
	return h.handleOrderNotification(ctx, &n)
}

func (h *Handler) handleOrderNotification(ctx context.Context, n *notification.Notification) error {
	orderID, _ := n.Data["orderId"].(string)
	status, _ := n.Data["status"].(string)

	log.Printf("[Notifier] Processing order notification %s for order %s, user %s", n.ID, orderID, n.UserID)

	u, err := h.users.GetUser(ctx, n.UserID)
	if errors.Is(err, user.ErrUserNotFound) {
		log.Printf("[Notifier] User not found: %s", n.UserID)
		return nil
	}
	if err != nil {
		log.Printf("[Notifier] Error getting user %s: %v", n.UserID, err)
		return err
	}
	if u.Email == "" {
		log.Printf("[Notifier] User %s has no email address", n.UserID)
		return nil
	}

	if err := h.emailService.SendOrderStatusUpdate(u.Email, u.Name, orderID, status, n.Message); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", u.Email, err)
		return err
	}

	log.Printf("[Notifier] Order update email sent to %s for order %s", u.Email, orderID)
	return nil
}
