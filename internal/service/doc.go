// Package service provides the service registry for provider management.
//
// The registry maintains a catalog of service providers and routes tool
// execution to them by tool-id prefix.
//
// Components:
//   - Registry: Central service catalog
//   - Provider: Interface for service implementations
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(mailboxProvider)
//	result, err := registry.Execute(ctx, "mailbox.write", params, appCtx)
package service
