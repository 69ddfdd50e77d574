package mailbox

import (
	"sync"
)

// MaxMessageSize is the largest payload a channel can hold, in bytes.
const MaxMessageSize = 128

// Key addresses one channel within one slot. Channel spaces of different
// slots never collide even when channel ids repeat across slots.
type Key struct {
	Slot    uint32
	Channel uint32
}

// entry holds the single stored message for one key. The entry mutex
// serializes access to the buffer independently of every other entry.
type entry struct {
	mu  sync.RWMutex
	buf []byte
}

// Store is the concurrency-safe keyed message store. It exclusively owns
// every message buffer it holds; handles only reference it by key.
type Store struct {
	mu         sync.RWMutex
	entries    map[Key]*entry
	maxEntries int // 0 = unlimited

	events *Bus
}

// NewStore creates a store. maxEntries bounds the number of distinct
// (slot, channel) entries; 0 means unbounded.
func NewStore(maxEntries int) *Store {
	return &Store{
		entries:    make(map[Key]*entry),
		maxEntries: maxEntries,
	}
}

// WithEvents attaches an event bus notified after each successful write.
func (s *Store) WithEvents(bus *Bus) *Store {
	s.events = bus
	return s
}

// Write installs data as the message for (slot, channel), replacing any
// prior message. It returns the number of bytes stored.
//
// A failed write leaves the previous message, if any, fully intact.
func (s *Store) Write(slot, channel uint32, data []byte) (int, error) {
	if len(data) == 0 || len(data) > MaxMessageSize {
		return 0, ErrInvalidSize
	}

	key := Key{Slot: slot, Channel: channel}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		s.mu.Lock()
		// Re-check: another writer may have inserted the key while the
		// read lock was released.
		e, ok = s.entries[key]
		if !ok {
			if s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
				s.mu.Unlock()
				return 0, ErrResourceExhausted
			}
			e = &entry{}
			s.entries[key] = e
		}
		s.mu.Unlock()
	}

	// The buffer is replaced wholesale under the entry lock, so a
	// concurrent reader observes either the old or the new message,
	// never a mixture.
	buf := make([]byte, len(data))
	copy(buf, data)

	e.mu.Lock()
	e.buf = buf
	e.mu.Unlock()

	if s.events != nil {
		s.events.Publish(WriteEvent{Slot: slot, Channel: channel, Length: len(buf)})
	}

	return len(buf), nil
}

// Read returns a copy of the message stored for (slot, channel). The
// stored message is left unchanged and remains available for future
// reads and writes.
func (s *Store) Read(slot, channel uint32, capacity int) ([]byte, error) {
	key := Key{Slot: slot, Channel: channel}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNoMessage
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.buf == nil {
		// Entry inserted by a writer that has not installed its buffer
		// yet; indistinguishable from never-written for the caller.
		return nil, ErrNoMessage
	}
	if capacity < len(e.buf) {
		return nil, ErrBufferTooSmall
	}

	out := make([]byte, len(e.buf))
	copy(out, e.buf)
	return out, nil
}

// DropSlot removes every entry belonging to slot and returns how many
// were removed. Reclamation only ever happens through this call, driven
// by the external device-unregistration path.
func (s *Store) DropSlot(slot uint32) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if key.Slot == slot {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Stats describes the store's current occupancy.
type Stats struct {
	Entries    int            `json:"entries"`
	MaxEntries int            `json:"max_entries"`
	PerSlot    map[uint32]int `json:"per_slot"`
}

// Stats returns a snapshot of entry counts.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perSlot := make(map[uint32]int)
	for key := range s.entries {
		perSlot[key.Slot]++
	}
	return Stats{
		Entries:    len(s.entries),
		MaxEntries: s.maxEntries,
		PerSlot:    perSlot,
	}
}
