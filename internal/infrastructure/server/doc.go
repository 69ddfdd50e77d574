// Package server wires the mailslot service together: store, device
// manager, provider registry, HTTP surface, watch stream, and metrics.
package server
