// Package mailbox exposes the slot/channel mailbox device as a service
// provider.
//
// Tools mirror the device file-operation surface: open a slot, select a
// channel, write or read the single stored message, close the handle.
// Message payloads are 1-128 bytes; a channel keeps only the most recent
// write.
//
// Example Usage:
//
//	handleID := mailbox.open(slot: 0)
//	mailbox.select(handle_id: handleID, channel: 7)
//	mailbox.write(handle_id: handleID, data: "Hello, World!")
//	result := mailbox.read(handle_id: handleID, capacity: 128)
//	mailbox.close(handle_id: handleID)
package mailbox
