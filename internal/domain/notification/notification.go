package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const TypeOrder = "order"

// Notification is an append-only record addressed to a single user.
type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewOrderStatus describes an order status change for the order's customer.
func NewOrderStatus(userID, orderID, status string) *Notification {
	return &Notification{
		ID:      uuid.New().String(),
		UserID:  userID,
		Title:   "Order Update",
		Message: fmt.Sprintf("Your order status has been updated to: %s", status),
		Type:    TypeOrder,
		Data: map[string]any{
			"orderId": orderID,
			"status":  status,
		},
		CreatedAt: time.Now(),
	}
}
