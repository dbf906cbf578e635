package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/veyara-realtime/internal/domain/delivery"
	"github.com/example/veyara-realtime/internal/domain/notification"
	"github.com/example/veyara-realtime/internal/domain/order"
	"github.com/example/veyara-realtime/internal/domain/user"
)

// MockStore is an in-memory implementation of store.Store for testing.
// All writes are serialized by a single mutex, which gives ClaimDelivery the
// same conditional-insert semantics as the PostgreSQL store.
type MockStore struct {
	mu            sync.RWMutex
	users         map[string]*user.User
	stores        map[string]string // ownerID -> storeID
	orders        map[string]*order.Order
	deliveries    map[string]*delivery.Delivery // orderID -> delivery
	notifications []*notification.Notification

	// Injected failures
	GetUserErr            error
	GetOrderErr           error
	ListOrdersErr         error
	GetStoreErr           error
	ListDeliveriesErr     error
	UpdateStatusErr       error
	ClaimErr              error
	UpdateLocationErr     error
	CreateNotificationErr error

	// For tracking calls in tests
	ClaimCalls          []ClaimCall
	UpdateStatusCalls   []UpdateStatusCall
	UpdateLocationCalls []UpdateLocationCall
}

// ClaimCall records parameters passed to ClaimDelivery
type ClaimCall struct {
	OrderID   string
	PartnerID string
}

// UpdateStatusCall records parameters passed to UpdateOrderStatusByOwner
type UpdateStatusCall struct {
	OrderID string
	OwnerID string
	Status  order.Status
}

// UpdateLocationCall records parameters passed to UpdatePartnerLocation
type UpdateLocationCall struct {
	OrderID   string
	PartnerID string
	Location  delivery.Location
}

// NewMockStore creates a new MockStore
func NewMockStore() *MockStore {
	return &MockStore{
		users:      make(map[string]*user.User),
		stores:     make(map[string]string),
		orders:     make(map[string]*order.Order),
		deliveries: make(map[string]*delivery.Delivery),
	}
}

// AddUser seeds a user
func (m *MockStore) AddUser(u *user.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// AddStore seeds a store owned by ownerID
func (m *MockStore) AddStore(storeID, ownerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores[ownerID] = storeID
}

// AddOrder seeds an order
func (m *MockStore) AddOrder(o *order.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orders[o.ID] = &cp
}

// AddDelivery seeds a delivery
func (m *MockStore) AddDelivery(d *delivery.Delivery) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.deliveries[d.OrderID] = &cp
}

// Order returns a copy of the stored order without recording a call
func (m *MockStore) Order(id string) (order.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return order.Order{}, false
	}
	return *o, true
}

// Delivery returns a copy of the stored delivery without recording a call
func (m *MockStore) Delivery(orderID string) (delivery.Delivery, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.deliveries[orderID]
	if !ok {
		return delivery.Delivery{}, false
	}
	return *d, true
}

// DeliveryCount returns the number of stored deliveries
func (m *MockStore) DeliveryCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.deliveries)
}

// Notifications returns the appended notifications
func (m *MockStore) Notifications() []*notification.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*notification.Notification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

func (m *MockStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetUserErr != nil {
		return nil, m.GetUserErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockStore) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetOrderErr != nil {
		return nil, m.GetOrderErr
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockStore) ListOrderIDsByCustomer(ctx context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListOrdersErr != nil {
		return nil, m.ListOrdersErr
	}
	var ids []string
	for id, o := range m.orders {
		if o.UserID == userID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MockStore) GetStoreIDByOwner(ctx context.Context, ownerID string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetStoreErr != nil {
		return "", false, m.GetStoreErr
	}
	id, ok := m.stores[ownerID]
	return id, ok, nil
}

func (m *MockStore) UpdateOrderStatusByOwner(ctx context.Context, orderID, ownerID string, status order.Status) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateStatusCalls = append(m.UpdateStatusCalls, UpdateStatusCall{
		OrderID: orderID,
		OwnerID: ownerID,
		Status:  status,
	})

	if m.UpdateStatusErr != nil {
		return nil, m.UpdateStatusErr
	}
	o, ok := m.orders[orderID]
	if !ok || m.stores[ownerID] != o.StoreID {
		return nil, order.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	cp := *o
	return &cp, nil
}

func (m *MockStore) GetDelivery(ctx context.Context, orderID string) (*delivery.Delivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.deliveries[orderID]
	if !ok {
		return nil, delivery.ErrDeliveryNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *MockStore) ListOrderIDsByPartner(ctx context.Context, partnerID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListDeliveriesErr != nil {
		return nil, m.ListDeliveriesErr
	}
	var ids []string
	for orderID, d := range m.deliveries {
		if d.PartnerID == partnerID {
			ids = append(ids, orderID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MockStore) ClaimDelivery(ctx context.Context, d *delivery.Delivery) (*delivery.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ClaimCalls = append(m.ClaimCalls, ClaimCall{OrderID: d.OrderID, PartnerID: d.PartnerID})

	if m.ClaimErr != nil {
		return nil, m.ClaimErr
	}
	o, ok := m.orders[d.OrderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	if existing, ok := m.deliveries[d.OrderID]; ok {
		cp := *existing
		return &cp, delivery.ErrAlreadyClaimed
	}

	cp := *d
	m.deliveries[d.OrderID] = &cp
	o.Status = order.StatusOutForDelivery
	o.UpdatedAt = d.UpdatedAt
	return d, nil
}

func (m *MockStore) UpdatePartnerLocation(ctx context.Context, orderID, partnerID string, loc delivery.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateLocationCalls = append(m.UpdateLocationCalls, UpdateLocationCall{
		OrderID:   orderID,
		PartnerID: partnerID,
		Location:  loc,
	})

	if m.UpdateLocationErr != nil {
		return m.UpdateLocationErr
	}
	d, ok := m.deliveries[orderID]
	if !ok || d.PartnerID != partnerID || !d.Status.Active() {
		return delivery.ErrNotAssigned
	}
	l := loc
	d.PartnerLocation = &l
	d.UpdatedAt = time.Now()
	return nil
}

func (m *MockStore) CreateNotification(ctx context.Context, n *notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateNotificationErr != nil {
		return m.CreateNotificationErr
	}
	m.notifications = append(m.notifications, n)
	return nil
}
