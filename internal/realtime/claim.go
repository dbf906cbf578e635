package realtime

import (
	"context"
	"errors"

	"github.com/example/veyara-realtime/internal/domain/delivery"
	"github.com/example/veyara-realtime/internal/domain/user"
)

// AcceptDelivery claims the delivery of orderID for the session's partner.
// The first claim wins; later claims by other partners fail with
// delivery.ErrAlreadyClaimed. A repeated claim by the winning partner is
// acknowledged again without rewriting or re-broadcasting anything. Nothing is
// published unless the claim and the order status change were both persisted.
func (h *Hub) AcceptDelivery(ctx context.Context, s *Session, orderID string, estimatedTimeMinutes float64) error {
	actor := s.Actor()
	if !actor.Is(user.RoleDeliveryPartner) {
		return ErrUnauthorized
	}
	if err := requireOrderID(orderID); err != nil {
		return err
	}

	claim, err := delivery.NewClaim(orderID, actor.ID, estimatedTimeMinutes)
	if err != nil {
		return err
	}

	d, err := h.deliveries.ClaimDelivery(ctx, claim)
	if errors.Is(err, delivery.ErrAlreadyClaimed) && d != nil && d.PartnerID == actor.ID {
		h.registry.Subscribe(DeliveryTopic(orderID), s)
		s.Emit(EventDeliveryAssigned, DeliveryAssigned{OrderID: orderID, DeliveryID: d.ID})
		return nil
	}
	if err != nil {
		return err
	}

	h.registry.Subscribe(DeliveryTopic(orderID), s)
	h.registry.Publish(OrderTopic(orderID), EventDeliveryAccepted, DeliveryAccepted{
		OrderID:       orderID,
		PartnerID:     actor.ID,
		EstimatedTime: d.EstimatedTimeMinutes,
	}, nil)
	s.Emit(EventDeliveryAssigned, DeliveryAssigned{OrderID: orderID, DeliveryID: d.ID})
	return nil
}
