package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/example/veyara-realtime/internal/domain/order"
	"github.com/example/veyara-realtime/internal/domain/user"
	"github.com/example/veyara-realtime/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu     sync.Mutex
	orders []order.Order
	err    error
}

func (f *fakeNotifier) NotifyOrderStatus(ctx context.Context, o *order.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, *o)
	return f.err
}

func (f *fakeNotifier) calls() []order.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]order.Order(nil), f.orders...)
}

func newTestHub(opts Options) (*Hub, *mocks.MockStore, *fakeNotifier) {
	st := mocks.NewMockStore()
	n := &fakeNotifier{}
	return NewHub(NewRegistry(), st, st, n, opts), st, n
}

func newSession(role user.Role, id string) *Session {
	return NewSession(user.Actor{ID: id, Role: role, Status: user.StatusVerified}, 32)
}

// drain returns every frame currently queued for s.
func drain(t *testing.T, s *Session) []Envelope {
	t.Helper()
	var out []Envelope
	for {
		select {
		case frame, ok := <-s.Outbound():
			if !ok {
				return out
			}
			var env Envelope
			require.NoError(t, json.Unmarshal(frame, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func eventNames(envs []Envelope) []string {
	names := make([]string, len(envs))
	for i, e := range envs {
		names[i] = e.Event
	}
	return names
}

func decode[T any](t *testing.T, env Envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func frame(t *testing.T, event string, data any) []byte {
	t.Helper()
	b, err := encodeEnvelope(event, data)
	require.NoError(t, err)
	return b
}

// seedMarketplace creates a customer order at a store with an owner.
func seedMarketplace(st *mocks.MockStore) {
	st.AddStore("store-1", "owner-1")
	st.AddStore("store-2", "owner-2")
	st.AddOrder(&order.Order{ID: "order-1", UserID: "customer-1", StoreID: "store-1", Status: order.StatusPreparing})
	st.AddOrder(&order.Order{ID: "order-2", UserID: "customer-1", StoreID: "store-2", Status: order.StatusPending})
	st.AddOrder(&order.Order{ID: "order-3", UserID: "customer-2", StoreID: "store-1", Status: order.StatusPending})
}
