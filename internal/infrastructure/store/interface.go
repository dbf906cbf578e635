package store

import (
	"context"

	"github.com/example/veyara-realtime/internal/domain/delivery"
	"github.com/example/veyara-realtime/internal/domain/notification"
	"github.com/example/veyara-realtime/internal/domain/order"
	"github.com/example/veyara-realtime/internal/domain/user"
)

// UserStore resolves platform users.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
}

// OrderStore exposes the order fields the realtime layer reads and writes.
type OrderStore interface {
	GetOrder(ctx context.Context, id string) (*order.Order, error)
	ListOrderIDsByCustomer(ctx context.Context, userID string) ([]string, error)

	// GetStoreIDByOwner returns the id of the single store owned by ownerID.
	GetStoreIDByOwner(ctx context.Context, ownerID string) (string, bool, error)

	// UpdateOrderStatusByOwner writes status only when the order's store is
	// owned by ownerID. Returns order.ErrOrderNotFound otherwise.
	UpdateOrderStatusByOwner(ctx context.Context, orderID, ownerID string, status order.Status) (*order.Order, error)
}

// DeliveryStore persists delivery claims.
type DeliveryStore interface {
	GetDelivery(ctx context.Context, orderID string) (*delivery.Delivery, error)
	ListOrderIDsByPartner(ctx context.Context, partnerID string) ([]string, error)

	// ClaimDelivery inserts d and moves its order to OUT_FOR_DELIVERY as one
	// unit. If a delivery already exists for the order it returns the existing
	// record together with delivery.ErrAlreadyClaimed and writes nothing.
	ClaimDelivery(ctx context.Context, d *delivery.Delivery) (*delivery.Delivery, error)

	// UpdatePartnerLocation stores loc only for an active delivery assigned to
	// partnerID. Returns delivery.ErrNotAssigned otherwise.
	UpdatePartnerLocation(ctx context.Context, orderID, partnerID string, loc delivery.Location) error
}

// NotificationStore appends notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *notification.Notification) error
}

// Store is the full persistence surface used by the realtime server.
type Store interface {
	UserStore
	OrderStore
	DeliveryStore
	NotificationStore
}
