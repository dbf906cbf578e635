package order

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending        Status = "PENDING"
	StatusConfirmed      Status = "CONFIRMED"
	StatusPreparing      Status = "PREPARING"
	StatusReadyForPickup Status = "READY_FOR_PICKUP"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

var knownStatuses = map[Status]struct{}{
	StatusPending:        {},
	StatusConfirmed:      {},
	StatusPreparing:      {},
	StatusReadyForPickup: {},
	StatusOutForDelivery: {},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// ParseStatus validates a status received from a client.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := knownStatuses[status]; !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Order is the persistent order record as seen by the realtime layer.
// Orders are created elsewhere; this layer only reads them and writes Status.
type Order struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StoreID   string    `json:"store_id"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) OwnedBy(userID string) bool { return o.UserID == userID }
