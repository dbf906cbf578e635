package realtime

import (
	"hash/fnv"
	"log"
	"sync"
)

const shardCount = 32

// Registry maps topics to their subscribed sessions. Membership is sharded by
// topic; each shard serializes subscribe/unsubscribe against publish, so a
// publish sees a consistent subscriber set and never reaches a session after
// its unsubscribe returned.
type Registry struct {
	shards [shardCount]*shard
}

type shard struct {
	mu     sync.RWMutex
	topics map[Topic]map[*Session]struct{}
}

func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i] = &shard{topics: make(map[Topic]map[*Session]struct{})}
	}
	return r
}

func (r *Registry) shardFor(topic Topic) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(topic))
	return r.shards[h.Sum32()%shardCount]
}

// Subscribe adds s to topic. Subscribing twice is a no-op and closed sessions
// are ignored. Reports whether membership changed.
func (r *Registry) Subscribe(topic Topic, s *Session) bool {
	sh := r.shardFor(topic)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	added, ok := s.track(topic)
	if !ok || !added {
		return false
	}
	members := sh.topics[topic]
	if members == nil {
		members = make(map[*Session]struct{})
		sh.topics[topic] = members
	}
	members[s] = struct{}{}
	return true
}

// Unsubscribe removes s from topic.
func (r *Registry) Unsubscribe(topic Topic, s *Session) {
	sh := r.shardFor(topic)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	s.untrack(topic)
	if members, ok := sh.topics[topic]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(sh.topics, topic)
		}
	}
}

// UnsubscribeAll removes s from every topic it joined.
func (r *Registry) UnsubscribeAll(s *Session) {
	for _, topic := range s.Topics() {
		r.Unsubscribe(topic, s)
	}
}

// Publish delivers event to every subscriber of topic except exclude, which may
// be nil. Returns the number of sessions the event was queued for.
func (r *Registry) Publish(topic Topic, event string, data any, exclude *Session) int {
	frame, err := encodeEnvelope(event, data)
	if err != nil {
		log.Printf("[Realtime] Failed to encode %s for %s: %v", event, topic, err)
		return 0
	}

	sh := r.shardFor(topic)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	delivered := 0
	for s := range sh.topics[topic] {
		if s == exclude {
			continue
		}
		if s.enqueue(frame) {
			delivered++
		}
	}
	return delivered
}

// SubscriberCount returns the number of sessions subscribed to topic.
func (r *Registry) SubscriberCount(topic Topic) int {
	sh := r.shardFor(topic)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return len(sh.topics[topic])
}
