// Package domain contains the core entities and value objects for hecship.
//
// This package is the innermost layer. It has no dependencies on transport,
// encoding or logging and holds only the data shapes the dispatch core moves
// around.
//
// # Entities
//
//   - [Event]: an open key/value telemetry record with reserved time/host keys
//   - [Batch]: serialized events packed under a byte budget
//   - [Unit]: the item carried on the dispatch queue to a worker
//   - [Receipt]: a per-unit completion token for opt-in acknowledgment
package domain
