package device

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/perchos/mailslot/internal/infrastructure/monitoring"
	"github.com/perchos/mailslot/internal/mailbox"
)

// Op is a control operation code, the service-side analogue of an ioctl
// command number.
type Op uint32

const (
	// OpSelectChannel selects the channel targeted by subsequent reads
	// and writes on the handle. The argument is a non-zero channel id.
	OpSelectChannel Op = 1
)

// Errors added by the device layer on top of the mailbox taxonomy.
var (
	// ErrUnknownHandle reports an operation against a handle id that is
	// not open.
	ErrUnknownHandle = errors.New("unknown handle")

	// ErrUnknownSlot reports a lookup of a slot name missing from the
	// device table.
	ErrUnknownSlot = errors.New("unknown slot name")
)

// Manager owns the message store and the table of open handles. It is
// safe for concurrent use; each individual handle is still confined to
// one caller at a time, which the per-handle mutex enforces for callers
// arriving over the network.
type Manager struct {
	mu      sync.RWMutex
	handles map[string]*openHandle // Protected by mu
	store   *mailbox.Store
	table   *Table
	metrics *monitoring.Metrics
}

// openHandle pairs a mailbox handle with a mutex so that two requests
// carrying the same handle id cannot interleave on it.
type openHandle struct {
	mu     sync.Mutex
	handle *mailbox.Handle
}

// NewManager creates a manager around store.
func NewManager(store *mailbox.Store) *Manager {
	return &Manager{
		handles: make(map[string]*openHandle),
		store:   store,
	}
}

// WithTable attaches a device table for name-based slot lookup.
func (m *Manager) WithTable(table *Table) *Manager {
	m.table = table
	return m
}

// WithMetrics adds metrics tracking to the manager.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Open creates a handle bound to slot with no channel selected and
// returns its id. Open never touches the store.
func (m *Manager) Open(slot uint32) string {
	id := uuid.New().String()

	m.mu.Lock()
	m.handles[id] = &openHandle{handle: mailbox.NewHandle(m.store, slot)}
	count := len(m.handles)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SetHandlesOpen(count)
	}
	return id
}

// OpenByName resolves a slot name through the device table and opens it.
func (m *Manager) OpenByName(name string) (string, error) {
	if m.table == nil {
		return "", ErrUnknownSlot
	}
	slot, ok := m.table.Resolve(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSlot, name)
	}
	return m.Open(slot), nil
}

// Control dispatches a control call on a handle. Unrecognized codes fail
// with mailbox.ErrUnknownOperation.
func (m *Manager) Control(handleID string, op Op, arg uint32) error {
	oh, err := m.lookup(handleID)
	if err != nil {
		return err
	}

	oh.mu.Lock()
	defer oh.mu.Unlock()

	switch op {
	case OpSelectChannel:
		return oh.handle.Select(arg)
	default:
		return fmt.Errorf("%w: %d", mailbox.ErrUnknownOperation, op)
	}
}

// Write stores data on the handle's selected channel.
func (m *Manager) Write(handleID string, data []byte) (int, error) {
	oh, err := m.lookup(handleID)
	if err != nil {
		return 0, err
	}

	oh.mu.Lock()
	n, err := oh.handle.Write(data)
	oh.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RecordWrite(outcome(err), n)
		m.metrics.SetEntriesStored(m.store.Stats().Entries)
	}
	return n, err
}

// Read returns the message on the handle's selected channel, bounded by
// the caller's destination capacity.
func (m *Manager) Read(handleID string, capacity int) ([]byte, error) {
	oh, err := m.lookup(handleID)
	if err != nil {
		return nil, err
	}

	oh.mu.Lock()
	msg, err := oh.handle.Read(capacity)
	oh.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RecordRead(outcome(err))
	}
	return msg, err
}

// Selected reports the slot and selected channel of a handle.
func (m *Manager) Selected(handleID string) (slot, channel uint32, err error) {
	oh, err := m.lookup(handleID)
	if err != nil {
		return 0, 0, err
	}

	oh.mu.Lock()
	defer oh.mu.Unlock()
	return oh.handle.Slot(), oh.handle.Selected(), nil
}

// Close discards the handle. Message buffers stay in the store for
// future handles.
func (m *Manager) Close(handleID string) bool {
	m.mu.Lock()
	_, ok := m.handles[handleID]
	if ok {
		delete(m.handles, handleID)
	}
	count := len(m.handles)
	m.mu.Unlock()

	if ok && m.metrics != nil {
		m.metrics.SetHandlesOpen(count)
	}
	return ok
}

// Unregister tears down a slot: every handle bound to it is closed and
// its stored messages are dropped. Returns closed handle and removed
// entry counts.
func (m *Manager) Unregister(slot uint32) (closed, removed int) {
	m.mu.Lock()
	for id, oh := range m.handles {
		if oh.handle.Slot() == slot {
			delete(m.handles, id)
			closed++
		}
	}
	count := len(m.handles)
	m.mu.Unlock()

	removed = m.store.DropSlot(slot)

	if m.metrics != nil {
		m.metrics.SetHandlesOpen(count)
		m.metrics.SetEntriesStored(m.store.Stats().Entries)
	}
	return closed, removed
}

// Handles returns the number of open handles.
func (m *Manager) Handles() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handles)
}

// StoreStats exposes the underlying store occupancy.
func (m *Manager) StoreStats() mailbox.Stats {
	return m.store.Stats()
}

// Table returns the attached device table, or nil.
func (m *Manager) Table() *Table {
	return m.table
}

func (m *Manager) lookup(handleID string) (*openHandle, error) {
	m.mu.RLock()
	oh, ok := m.handles[handleID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, handleID)
	}
	return oh, nil
}

// outcome maps an operation error to a metrics label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, mailbox.ErrInvalidSize):
		return "invalid_size"
	case errors.Is(err, mailbox.ErrNoChannelSelected):
		return "no_channel"
	case errors.Is(err, mailbox.ErrNoMessage):
		return "no_message"
	case errors.Is(err, mailbox.ErrBufferTooSmall):
		return "buffer_too_small"
	case errors.Is(err, mailbox.ErrResourceExhausted):
		return "exhausted"
	default:
		return "error"
	}
}
