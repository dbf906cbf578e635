package realtime

import (
	"log"
	"sync"

	"github.com/example/veyara-realtime/internal/domain/user"
	"github.com/google/uuid"
)

// Session is the server-side state of one live connection. The actor is fixed
// at creation; topic membership is changed only through the Registry.
type Session struct {
	id    string
	actor user.Actor
	send  chan []byte

	mu     sync.Mutex
	topics map[Topic]struct{}
	closed bool
}

// NewSession creates a session whose outbound queue holds up to buffer frames.
func NewSession(actor user.Actor, buffer int) *Session {
	return &Session{
		id:     uuid.New().String(),
		actor:  actor,
		send:   make(chan []byte, buffer),
		topics: make(map[Topic]struct{}),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Actor() user.Actor { return s.actor }

// Outbound yields encoded frames for the connection writer. It is closed when
// the session closes.
func (s *Session) Outbound() <-chan []byte { return s.send }

// Topics returns a snapshot of the session's subscriptions.
func (s *Session) Topics() []Topic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Topic, 0, len(s.topics))
	for t := range s.topics {
		out = append(out, t)
	}
	return out
}

// Subscribed reports whether the session is a member of topic.
func (s *Session) Subscribed(topic Topic) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.topics[topic]
	return ok
}

// Emit sends a private event to this session only.
func (s *Session) Emit(event string, data any) bool {
	frame, err := encodeEnvelope(event, data)
	if err != nil {
		log.Printf("[Realtime] Failed to encode %s for session %s: %v", event, s.id, err)
		return false
	}
	return s.enqueue(frame)
}

// Close ends the session and closes its outbound queue. Safe to call twice.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// enqueue never blocks. A session that cannot keep up is closed so the
// connection is torn down instead of silently skipping events.
func (s *Session) enqueue(frame []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- frame:
		return true
	default:
		log.Printf("[Realtime] Outbound buffer full, closing session %s (%s %s)", s.id, s.actor.Role, s.actor.ID)
		s.closeLocked()
		return false
	}
}

func (s *Session) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

// track records topic membership; ok is false once the session is closed.
func (s *Session) track(topic Topic) (added, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, false
	}
	if _, exists := s.topics[topic]; exists {
		return false, true
	}
	s.topics[topic] = struct{}{}
	return true, true
}

func (s *Session) untrack(topic Topic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.topics, topic)
}
