// Command server runs the mailslot service: per-slot channel mailboxes
// exposed over HTTP with a WebSocket watch stream and Prometheus
// metrics.
package main
