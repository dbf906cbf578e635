package realtime

import (
	"context"
	"errors"
	"testing"

	"github.com/example/veyara-realtime/internal/domain/order"
	"github.com/example/veyara-realtime/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_UpdateOrderStatus_Broadcasts(t *testing.T) {
	hub, st, notifier := newTestHub(Options{})
	seedMarketplace(st)
	customer := newSession(user.RoleCustomer, "customer-1")
	owner := newSession(user.RoleStoreOwner, "owner-1")
	hub.Connect(context.Background(), customer)
	require.NoError(t, hub.TrackOrder(context.Background(), owner, "order-1"))
	drain(t, owner)

	err := hub.UpdateOrderStatus(context.Background(), owner, "order-1", "READY_FOR_PICKUP")
	hub.Wait()

	require.NoError(t, err)
	o, _ := st.Order("order-1")
	assert.Equal(t, order.StatusReadyForPickup, o.Status)

	for _, s := range []*Session{customer, owner} {
		got := drain(t, s)
		require.Equal(t, []string{EventOrderStatus}, eventNames(got))
		ev := decode[OrderStatus](t, got[0])
		assert.Equal(t, "order-1", ev.OrderID)
		assert.Equal(t, order.StatusReadyForPickup, ev.Status)
	}

	calls := notifier.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "customer-1", calls[0].UserID)
	assert.Equal(t, order.StatusReadyForPickup, calls[0].Status)
}

func TestHub_UpdateOrderStatus_EventsKeepPublishOrder(t *testing.T) {
	hub, st, _ := newTestHub(Options{})
	seedMarketplace(st)
	customer := newSession(user.RoleCustomer, "customer-1")
	hub.Connect(context.Background(), customer)
	owner := newSession(user.RoleStoreOwner, "owner-1")

	sequence := []order.Status{order.StatusConfirmed, order.StatusPreparing, order.StatusReadyForPickup}
	for _, status := range sequence {
		require.NoError(t, hub.UpdateOrderStatus(context.Background(), owner, "order-1", string(status)))
	}
	hub.Wait()

	got := drain(t, customer)
	require.Len(t, got, len(sequence))
	for i, env := range got {
		assert.Equal(t, sequence[i], decode[OrderStatus](t, env).Status)
	}
}

func TestHub_UpdateOrderStatus_NotOwner(t *testing.T) {
	hub, st, notifier := newTestHub(Options{})
	seedMarketplace(st)
	customer := newSession(user.RoleCustomer, "customer-1")
	hub.Connect(context.Background(), customer)
	other := newSession(user.RoleStoreOwner, "owner-2")

	err := hub.UpdateOrderStatus(context.Background(), other, "order-1", "CANCELLED")
	hub.Wait()

	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	o, _ := st.Order("order-1")
	assert.Equal(t, order.StatusPreparing, o.Status)
	assert.Empty(t, drain(t, customer))
	assert.Empty(t, notifier.calls())
}

func TestHub_UpdateOrderStatus_WrongRole(t *testing.T) {
	hub, st, _ := newTestHub(Options{})
	seedMarketplace(st)

	err := hub.UpdateOrderStatus(context.Background(), newSession(user.RoleCustomer, "customer-1"), "order-1", "CANCELLED")

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, st.UpdateStatusCalls)
}

func TestHub_UpdateOrderStatus_UnknownStatus(t *testing.T) {
	hub, st, _ := newTestHub(Options{})
	seedMarketplace(st)

	err := hub.UpdateOrderStatus(context.Background(), newSession(user.RoleStoreOwner, "owner-1"), "order-1", "TELEPORTED")

	assert.ErrorIs(t, err, order.ErrInvalidStatus)
	assert.Empty(t, st.UpdateStatusCalls)
}

func TestHub_UpdateOrderStatus_NotificationFailureIsIgnored(t *testing.T) {
	hub, st, notifier := newTestHub(Options{})
	seedMarketplace(st)
	notifier.err = errors.New("smtp down")
	customer := newSession(user.RoleCustomer, "customer-1")
	hub.Connect(context.Background(), customer)

	err := hub.UpdateOrderStatus(context.Background(), newSession(user.RoleStoreOwner, "owner-1"), "order-1", "DELIVERED")
	hub.Wait()

	require.NoError(t, err)
	assert.Len(t, drain(t, customer), 1)
	assert.Len(t, notifier.calls(), 1)
}
