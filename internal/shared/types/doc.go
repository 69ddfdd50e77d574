// Package types holds the shared data structures of the mailslot
// service: provider definitions, execution results, and API request
// shapes.
package types
