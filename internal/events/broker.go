// Path: internal/events/broker.go
package events

import "sync"

// Topic published by the service after every successful dataset reload.
const TopicDatasetRefreshed = "dataset:refreshed"

// Event is a message passed through the broker.
type Event struct {
	Topic string
	Data  any
}

// Broker is a small in-memory pub/sub hub. The daemon's service publishes
// dataset-refresh events and the SSE endpoint fans them out to connected
// dashboards. Slow subscribers drop events instead of blocking publishers.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string]map[int]chan Event
	nextID      int
}

// NewBroker creates a new event broker.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[string]map[int]chan Event),
	}
}

// Subscribe registers interest in a topic. The returned cancel func must
// be called when the subscriber goes away, or its channel leaks.
func (b *Broker) Subscribe(topic string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[int]chan Event)
	}
	id := b.nextID
	b.nextID++
	ch := make(chan Event, 4)
	b.subscribers[topic][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, ok := b.subscribers[topic][id]; ok {
			delete(b.subscribers[topic], id)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish sends an event to every subscriber of a topic without blocking.
func (b *Broker) Publish(topic string, data any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	event := Event{Topic: topic, Data: data}
	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- event:
		default:
			// Subscriber is not ready, drop the event.
		}
	}
}
