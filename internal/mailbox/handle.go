package mailbox

// Handle tracks one open use of a slot: the owning slot id, fixed at
// creation, and the currently selected channel. A handle is owned by a
// single caller and is not safe for concurrent use; the store it points
// at is.
type Handle struct {
	store    *Store
	slot     uint32
	selected uint32 // 0 = unselected
}

// NewHandle creates a handle bound to slot with no channel selected.
func NewHandle(store *Store, slot uint32) *Handle {
	return &Handle{store: store, slot: slot}
}

// Slot returns the slot id the handle was opened against.
func (h *Handle) Slot() uint32 {
	return h.slot
}

// Selected returns the selected channel id, or 0 if none is selected.
func (h *Handle) Selected() uint32 {
	return h.selected
}

// Select records channel as the target of subsequent reads and writes.
// Re-selecting simply switches the target; there is no terminal state.
func (h *Handle) Select(channel uint32) error {
	if channel == 0 {
		return ErrInvalidChannel
	}
	h.selected = channel
	return nil
}

// Write stores data on the selected channel of the handle's slot.
func (h *Handle) Write(data []byte) (int, error) {
	if h.selected == 0 {
		return 0, ErrNoChannelSelected
	}
	return h.store.Write(h.slot, h.selected, data)
}

// Read returns the message stored on the selected channel, failing if
// capacity cannot hold it in full.
func (h *Handle) Read(capacity int) ([]byte, error) {
	if h.selected == 0 {
		return nil, ErrNoChannelSelected
	}
	return h.store.Read(h.slot, h.selected, capacity)
}
