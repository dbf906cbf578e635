package realtime

import (
	"context"
	"log"

	"github.com/example/veyara-realtime/internal/domain/user"
)

// seedSubscriptions joins the session to its default topics. Lookup failures
// are logged and leave the session with whatever it joined so far.
func (h *Hub) seedSubscriptions(ctx context.Context, s *Session) {
	actor := s.Actor()
	h.registry.Subscribe(UserTopic(actor.Role, actor.ID), s)

	switch actor.Role {
	case user.RoleCustomer:
		ids, err := h.orders.ListOrderIDsByCustomer(ctx, actor.ID)
		if err != nil {
			log.Printf("[Realtime] Error joining customer orders for %s: %v", actor.ID, err)
			return
		}
		for _, id := range ids {
			h.registry.Subscribe(OrderTopic(id), s)
		}

	case user.RoleStoreOwner:
		storeID, ok, err := h.orders.GetStoreIDByOwner(ctx, actor.ID)
		if err != nil {
			log.Printf("[Realtime] Error joining store room for %s: %v", actor.ID, err)
			return
		}
		if ok {
			h.registry.Subscribe(StoreTopic(storeID), s)
		}

	case user.RoleDeliveryPartner:
		ids, err := h.deliveries.ListOrderIDsByPartner(ctx, actor.ID)
		if err != nil {
			log.Printf("[Realtime] Error joining delivery partner rooms for %s: %v", actor.ID, err)
			return
		}
		for _, id := range ids {
			h.registry.Subscribe(DeliveryTopic(id), s)
			h.registry.Subscribe(OrderTopic(id), s)
		}
	}
}
