// Package ws streams store write events to WebSocket watchers.
//
// A watcher connects to /watch (optionally scoped with ?slot=N) and
// receives one JSON event per successful write: slot, channel, and
// message length. Events are notifications only; the message itself is
// fetched through a normal read, so store semantics stay pull-based.
package ws
