package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/example/veyara-realtime/internal/domain/delivery"
	"github.com/example/veyara-realtime/internal/domain/order"
	"github.com/example/veyara-realtime/internal/domain/user"
)

// TrackOrder joins s to the order's topic and immediately sends the current
// status so the viewer has state before the next change.
func (h *Hub) TrackOrder(ctx context.Context, s *Session, orderID string) error {
	if err := requireOrderID(orderID); err != nil {
		return err
	}

	o, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	allowed, err := h.canTrack(ctx, s.Actor(), o)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}

	h.registry.Subscribe(OrderTopic(orderID), s)
	s.Emit(EventTrackingJoined, TrackingJoined{OrderID: orderID})
	s.Emit(EventOrderStatus, OrderStatus{
		OrderID:   orderID,
		Status:    o.Status,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

func (h *Hub) canTrack(ctx context.Context, actor user.Actor, o *order.Order) (bool, error) {
	switch actor.Role {
	case user.RoleCustomer:
		return o.OwnedBy(actor.ID), nil

	case user.RoleStoreOwner:
		if !h.opts.StrictTracking {
			return true, nil
		}
		storeID, ok, err := h.orders.GetStoreIDByOwner(ctx, actor.ID)
		if err != nil {
			return false, err
		}
		return ok && storeID == o.StoreID, nil

	case user.RoleDeliveryPartner:
		if !h.opts.StrictTracking {
			return true, nil
		}
		d, err := h.deliveries.GetDelivery(ctx, o.ID)
		if errors.Is(err, delivery.ErrDeliveryNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return d.PartnerID == actor.ID, nil
	}
	return false, nil
}
