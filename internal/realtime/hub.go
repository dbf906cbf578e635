package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/veyara-realtime/internal/domain/order"
	"github.com/example/veyara-realtime/internal/infrastructure/store"
)

var ErrShuttingDown = errors.New("hub is shutting down")

// Notifier records the side effects of an order status change. It runs after
// the change has been persisted and broadcast; its failure is only logged.
type Notifier interface {
	NotifyOrderStatus(ctx context.Context, o *order.Order) error
}

type Options struct {
	// StrictTracking restricts track-order for store owners and delivery
	// partners to orders of their own store or assigned to them.
	StrictTracking      bool
	NotificationTimeout time.Duration
}

// Hub coordinates sessions: it seeds default subscriptions, handles inbound
// operations, and fans results out through the Registry.
type Hub struct {
	registry   *Registry
	orders     store.OrderStore
	deliveries store.DeliveryStore
	notifier   Notifier
	opts       Options

	mu       sync.Mutex
	sessions map[*Session]struct{}
	closing  bool // no new sessions
	drained  bool // no new notification tasks

	// connected sessions, done on Disconnect
	active sync.WaitGroup
	// in-flight notification tasks
	wg sync.WaitGroup
}

func NewHub(registry *Registry, orders store.OrderStore, deliveries store.DeliveryStore, notifier Notifier, opts Options) *Hub {
	if opts.NotificationTimeout <= 0 {
		opts.NotificationTimeout = 5 * time.Second
	}
	return &Hub{
		registry:   registry,
		orders:     orders,
		deliveries: deliveries,
		notifier:   notifier,
		opts:       opts,
		sessions:   make(map[*Session]struct{}),
	}
}

func (h *Hub) Registry() *Registry { return h.registry }

// Connect registers a freshly authenticated session. It fails with
// ErrShuttingDown once Shutdown has begun.
func (h *Hub) Connect(ctx context.Context, s *Session) error {
	h.mu.Lock()
	if h.closing {
		h.mu.Unlock()
		s.Close()
		return ErrShuttingDown
	}
	h.sessions[s] = struct{}{}
	h.active.Add(1)
	h.mu.Unlock()

	actor := s.Actor()
	log.Printf("[Realtime] User connected: %s (%s)", actor.ID, actor.Role)
	h.seedSubscriptions(ctx, s)
	return nil
}

// Disconnect closes s and drops it from every topic. Persistent state is left
// untouched. The connection owner calls it once its reader has stopped.
func (h *Hub) Disconnect(s *Session) {
	s.Close()
	h.registry.UnsubscribeAll(s)

	h.mu.Lock()
	_, ok := h.sessions[s]
	delete(h.sessions, s)
	h.mu.Unlock()
	if ok {
		h.active.Done()
	}

	actor := s.Actor()
	log.Printf("[Realtime] User disconnected: %s (%s)", actor.ID, actor.Role)
}

// Shutdown refuses new sessions, closes the live ones and waits until each has
// disconnected, then waits for in-flight notification tasks. Call it after the
// HTTP server stopped accepting connections and before closing the stores.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closing = true
	live := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		live = append(live, s)
	}
	h.mu.Unlock()

	log.Printf("[Realtime] Closing %d sessions", len(live))
	for _, s := range live {
		s.Close()
	}
	if err := waitContext(ctx, &h.active); err != nil {
		return fmt.Errorf("waiting for sessions: %w", err)
	}

	h.mu.Lock()
	h.drained = true
	h.mu.Unlock()
	if err := waitContext(ctx, &h.wg); err != nil {
		return fmt.Errorf("waiting for notifications: %w", err)
	}
	return nil
}

func waitContext(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch decodes one inbound frame and runs the matching operation. Every
// failure is reported to the session as an error event; none ends the
// connection.
func (h *Hub) Dispatch(ctx context.Context, s *Session, frame []byte) {
	// Frames read after the session closed are dropped
	if s.Closed() {
		return
	}

	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		log.Printf("[Realtime] Malformed frame from session %s: %v", s.ID(), err)
		s.Emit(EventError, errorEvent("", fmt.Errorf("%w: malformed frame", ErrInvalidRequest)))
		return
	}

	var err error
	switch env.Event {
	case EventTrackOrder:
		var orderID string
		if orderID, err = decodeOrderID(env.Data); err == nil {
			err = h.TrackOrder(ctx, s, orderID)
		}
	case EventLocationUpdate:
		var req locationUpdateRequest
		if err = decodePayload(env.Data, &req); err == nil {
			err = h.UpdateLocation(ctx, s, req.OrderID, req.Location)
		}
	case EventOrderStatusUpdate:
		var req statusUpdateRequest
		if err = decodePayload(env.Data, &req); err == nil {
			err = h.UpdateOrderStatus(ctx, s, req.OrderID, req.Status)
		}
	case EventAcceptDelivery:
		var req acceptDeliveryRequest
		if err = decodePayload(env.Data, &req); err == nil {
			err = h.AcceptDelivery(ctx, s, req.OrderID, req.EstimatedTime)
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}

	if err != nil {
		ev := errorEvent(env.Event, err)
		actor := s.Actor()
		switch ev.Code {
		case CodePersistenceFailure:
			log.Printf("[Realtime] %s error for %s (%s): %v", env.Event, actor.ID, actor.Role, err)
		case CodeInvalidRequest:
			log.Printf("[Realtime] Rejected %q from %s (%s): %v", env.Event, actor.ID, actor.Role, err)
		}
		s.Emit(EventError, ev)
	}
}

// Wait blocks until in-flight notification tasks finish. Callers must ensure no
// operation is running concurrently; servers use Shutdown.
func (h *Hub) Wait() {
	h.wg.Wait()
}

// decodeOrderID accepts either a bare order id string or {"orderId": "..."}.
func decodeOrderID(data json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		var obj struct {
			OrderID string `json:"orderId"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", fmt.Errorf("%w: orderId required", ErrInvalidRequest)
		}
		id = obj.OrderID
	}
	if id == "" {
		return "", fmt.Errorf("%w: orderId required", ErrInvalidRequest)
	}
	return id, nil
}

func decodePayload(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidRequest)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

func requireOrderID(orderID string) error {
	if orderID == "" {
		return fmt.Errorf("%w: orderId required", ErrInvalidRequest)
	}
	return nil
}
