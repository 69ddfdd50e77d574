package mailbox

import "sync"

// WriteEvent describes one successful store write. Payload bytes are not
// carried; watchers pull the message through a normal read.
type WriteEvent struct {
	Slot    uint32 `json:"slot"`
	Channel uint32 `json:"channel"`
	Length  int    `json:"length"`
}

// Bus fans write events out to subscribers. Delivery is best-effort: a
// subscriber whose buffer is full misses the event rather than blocking
// the writer.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan WriteEvent
	next int
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan WriteEvent)}
}

// Subscribe registers a buffered subscription and returns the channel
// plus a cancel function. Cancel closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan WriteEvent, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan WriteEvent, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers event to every subscriber that has buffer space.
func (b *Bus) Publish(event WriteEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribers returns the current subscription count.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
