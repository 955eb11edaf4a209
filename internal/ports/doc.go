// Package ports defines the interfaces (ports) that connect the dispatch core
// to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Transport]: Delivers one request body to the collector
//   - [Encoder]: Serializes events to JSON
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//   - [Clock]: Current time source for the time default
//   - [HostnameFunc]: Resolves the local hostname for the host default
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// libraries (net/http, goccy/go-json, benbjohnson/clock).
package ports
