package realtime

import (
	"context"
	"time"

	"github.com/example/veyara-realtime/internal/domain/delivery"
	"github.com/example/veyara-realtime/internal/domain/user"
)

// UpdateLocation relays the assigned partner's position to the order's
// watchers. The sender gets a private acknowledgment instead of the echo.
func (h *Hub) UpdateLocation(ctx context.Context, s *Session, orderID string, loc delivery.Location) error {
	actor := s.Actor()
	if !actor.Is(user.RoleDeliveryPartner) {
		return ErrUnauthorized
	}
	if err := requireOrderID(orderID); err != nil {
		return err
	}
	if err := loc.Validate(); err != nil {
		return err
	}

	if err := h.deliveries.UpdatePartnerLocation(ctx, orderID, actor.ID, loc); err != nil {
		return err
	}

	h.registry.Publish(OrderTopic(orderID), EventDeliveryLocation, DeliveryLocation{
		OrderID:   orderID,
		Location:  loc,
		Timestamp: time.Now().UTC(),
	}, s)
	s.Emit(EventLocationUpdated, LocationUpdated{OrderID: orderID, Location: loc})
	return nil
}
