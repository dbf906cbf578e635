package realtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/example/veyara-realtime/internal/domain/user"
	"github.com/stretchr/testify/assert"
)

func TestRegistry_SubscribeIsIdempotent(t *testing.T) {
	r := NewRegistry()
	s := newSession(user.RoleCustomer, "c1")

	assert.True(t, r.Subscribe(OrderTopic("o1"), s))
	assert.False(t, r.Subscribe(OrderTopic("o1"), s))
	assert.Equal(t, 1, r.SubscriberCount(OrderTopic("o1")))

	delivered := r.Publish(OrderTopic("o1"), EventOrderStatus, OrderStatus{OrderID: "o1"}, nil)

	assert.Equal(t, 1, delivered)
	assert.Len(t, drain(t, s), 1)
}

func TestRegistry_PublishScopedToTopic(t *testing.T) {
	r := NewRegistry()
	a := newSession(user.RoleCustomer, "c1")
	b := newSession(user.RoleCustomer, "c2")
	r.Subscribe(OrderTopic("o1"), a)
	r.Subscribe(OrderTopic("o2"), b)

	r.Publish(OrderTopic("o1"), EventOrderStatus, OrderStatus{OrderID: "o1", Status: "PREPARING"}, nil)

	got := drain(t, a)
	assert.Equal(t, []string{EventOrderStatus}, eventNames(got))
	assert.Equal(t, "o1", decode[OrderStatus](t, got[0]).OrderID)
	assert.Empty(t, drain(t, b))
}

func TestRegistry_PublishExcludesSender(t *testing.T) {
	r := NewRegistry()
	sender := newSession(user.RoleDeliveryPartner, "p1")
	watcher := newSession(user.RoleCustomer, "c1")
	r.Subscribe(OrderTopic("o1"), sender)
	r.Subscribe(OrderTopic("o1"), watcher)

	delivered := r.Publish(OrderTopic("o1"), EventDeliveryLocation, DeliveryLocation{OrderID: "o1"}, sender)

	assert.Equal(t, 1, delivered)
	assert.Empty(t, drain(t, sender))
	assert.Len(t, drain(t, watcher), 1)
}

func TestRegistry_UnsubscribeAll(t *testing.T) {
	r := NewRegistry()
	s := newSession(user.RoleDeliveryPartner, "p1")
	topics := []Topic{UserTopic(user.RoleDeliveryPartner, "p1"), OrderTopic("o1"), DeliveryTopic("o1")}
	for _, topic := range topics {
		r.Subscribe(topic, s)
	}
	assert.ElementsMatch(t, topics, s.Topics())

	r.UnsubscribeAll(s)

	assert.Empty(t, s.Topics())
	for _, topic := range topics {
		assert.Equal(t, 0, r.SubscriberCount(topic))
		assert.Equal(t, 0, r.Publish(topic, EventOrderStatus, OrderStatus{}, nil))
	}
	assert.Empty(t, drain(t, s))
}

func TestRegistry_ClosedSessionIsNotSubscribed(t *testing.T) {
	r := NewRegistry()
	s := newSession(user.RoleCustomer, "c1")
	s.Close()

	assert.False(t, r.Subscribe(OrderTopic("o1"), s))
	assert.Equal(t, 0, r.SubscriberCount(OrderTopic("o1")))
}

func TestRegistry_SlowSessionIsClosed(t *testing.T) {
	r := NewRegistry()
	s := NewSession(user.Actor{ID: "c1", Role: user.RoleCustomer}, 1)
	r.Subscribe(OrderTopic("o1"), s)

	assert.Equal(t, 1, r.Publish(OrderTopic("o1"), EventOrderStatus, OrderStatus{}, nil))
	assert.Equal(t, 0, r.Publish(OrderTopic("o1"), EventOrderStatus, OrderStatus{}, nil))

	assert.True(t, s.Closed())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	const sessions = 50
	topic := OrderTopic("busy")

	var wg sync.WaitGroup
	all := make([]*Session, sessions)
	for i := 0; i < sessions; i++ {
		all[i] = NewSession(user.Actor{ID: fmt.Sprintf("c%d", i), Role: user.RoleCustomer}, 1024)
	}

	for i := 0; i < sessions; i++ {
		wg.Add(2)
		go func(s *Session) {
			defer wg.Done()
			r.Subscribe(topic, s)
			r.Subscribe(OrderTopic(s.Actor().ID), s)
			if s.Actor().ID[len(s.Actor().ID)-1]%2 == 0 {
				r.UnsubscribeAll(s)
			}
		}(all[i])
		go func() {
			defer wg.Done()
			r.Publish(topic, EventOrderStatus, OrderStatus{OrderID: "busy"}, nil)
		}()
	}
	wg.Wait()

	// Sessions whose id ends in an even digit left; the rest remain subscribed
	assert.Equal(t, sessions/2, r.SubscriberCount(topic))
}
