package realtime

import (
	"context"
	"log"
	"time"

	"github.com/example/veyara-realtime/internal/domain/order"
	"github.com/example/veyara-realtime/internal/domain/user"
)

// UpdateOrderStatus lets the owner of the order's store change its status,
// broadcasts the change, then records the customer notification in the
// background.
func (h *Hub) UpdateOrderStatus(ctx context.Context, s *Session, orderID, status string) error {
	actor := s.Actor()
	if !actor.Is(user.RoleStoreOwner) {
		return ErrUnauthorized
	}
	if err := requireOrderID(orderID); err != nil {
		return err
	}
	newStatus, err := order.ParseStatus(status)
	if err != nil {
		return err
	}

	o, err := h.orders.UpdateOrderStatusByOwner(ctx, orderID, actor.ID, newStatus)
	if err != nil {
		return err
	}

	h.registry.Publish(OrderTopic(orderID), EventOrderStatus, OrderStatus{
		OrderID:   orderID,
		Status:    o.Status,
		Timestamp: time.Now().UTC(),
	}, nil)

	h.notify(o)
	return nil
}

func (h *Hub) notify(o *order.Order) {
	if h.notifier == nil {
		return
	}
	h.mu.Lock()
	if h.drained {
		h.mu.Unlock()
		log.Printf("[Realtime] Shutting down, dropped notification for order %s", o.ID)
		return
	}
	h.wg.Add(1)
	h.mu.Unlock()
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), h.opts.NotificationTimeout)
		defer cancel()
		if err := h.notifier.NotifyOrderStatus(ctx, o); err != nil {
			log.Printf("[Realtime] Error sending notification for order %s: %v", o.ID, err)
		}
	}()
}
