// Package resilience provides a circuit breaker used by the mailslot
// API client to stop hammering an unreachable service.
//
// The breaker is closed while calls succeed, opens after repeated
// transport failures, and after a timeout lets a limited number of
// probe requests through before closing again.
package resilience
