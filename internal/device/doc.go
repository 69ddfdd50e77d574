// Package device maps file-operation semantics onto the mailbox core.
//
// The Manager plays the role of the driver's file-operation table: open
// creates a handle bound to a slot, a control call selects the channel,
// write/read move whole messages, close discards the handle. It owns one
// explicit mailbox.Store instance; nothing in the package is process-wide
// state.
//
// Slots can optionally be declared in a YAML device table so callers can
// address them by name instead of raw id.
package device
