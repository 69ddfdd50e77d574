// Package mailbox implements the slot/channel message store and the
// per-handle channel-selection protocol.
//
// A slot is a device instance; every slot partitions a namespace of
// non-zero channel ids. Each (slot, channel) pair holds at most one
// message of 1-128 bytes. Writes replace the stored message atomically;
// reads return a copy and never consume it.
//
// Concurrency model:
//   - The key -> entry mapping is guarded by a store-level RWMutex used
//     only for lookup and insertion.
//   - Each entry carries its own RWMutex, so readers and writers of
//     unrelated channels never contend.
//   - Handles are single-owner and need no synchronization.
//
// Example Usage:
//
//	store := mailbox.NewStore(0)
//	h := mailbox.NewHandle(store, 0)
//	h.Select(7)
//	h.Write([]byte("Hello, World!"))
//	msg, _ := h.Read(128)
package mailbox
