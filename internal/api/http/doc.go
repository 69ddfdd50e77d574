// Package http implements the REST surface of the mailslot service:
// handle lifecycle, channel selection, message transfer, device table
// listing, and service registry access.
package http
