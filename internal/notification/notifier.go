package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/example/veyara-realtime/internal/domain/notification"
	"github.com/example/veyara-realtime/internal/domain/order"
	"github.com/example/veyara-realtime/internal/infrastructure/store"
)

const EventNotificationCreated = "NotificationCreated"

// EventPublisher forwards persisted notifications to delivery workers
type EventPublisher interface {
	Publish(ctx context.Context, key, eventType string, event any) error
}

// Notifier persists customer notifications for order changes and announces
// them on the event bus
type Notifier struct {
	store     store.NotificationStore
	publisher EventPublisher
}

// NewNotifier creates a notifier; publisher may be nil
func NewNotifier(st store.NotificationStore, publisher EventPublisher) *Notifier {
	return &Notifier{store: st, publisher: publisher}
}

// NotifyOrderStatus records a notification for the order's customer
func (n *Notifier) NotifyOrderStatus(ctx context.Context, o *order.Order) error {
	note := notification.NewOrderStatus(o.UserID, o.ID, string(o.Status))
	if err := n.store.CreateNotification(ctx, note); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	if n.publisher == nil {
		return nil
	}
	// The notification is already durable; a lost event only skips the e-mail
	if err := n.publisher.Publish(ctx, note.UserID, EventNotificationCreated, note); err != nil {
		log.Printf("[Notifier] Failed to publish notification %s: %v", note.ID, err)
	}
	return nil
}
