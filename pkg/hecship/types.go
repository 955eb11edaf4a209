package hecship

import (
	"github.com/bft-labs/hecship/internal/app"
	"github.com/bft-labs/hecship/internal/domain"
)

// Event is a mapping of field names to JSON-encodable values.
// The keys "time" and "host" are filled in when absent; present values are
// never overwritten. The caller's map is not modified.
type Event = domain.Event

// Receipt resolves with the outcome of one asynchronous submission.
type Receipt = domain.Receipt

// State represents the lifecycle state of a Client.
type State = app.State

// Lifecycle states.
const (
	// StateNew is the state after New and before Open.
	StateNew = app.StateNew
	// StateRunning accepts submissions and delivers them.
	StateRunning = app.StateRunning
	// StateClosing rejects submissions while outstanding work drains.
	StateClosing = app.StateClosing
	// StateClosed is terminal.
	StateClosed = app.StateClosed
)

// Errors returned by the client. Check them with errors.Is.
var (
	ErrSerialization   = domain.ErrSerialization
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrTransport       = domain.ErrTransport
	ErrQueueFull       = domain.ErrQueueFull
	ErrDropped         = domain.ErrDropped
	ErrClosed          = domain.ErrClosed
	ErrNotOpen         = domain.ErrNotOpen
	ErrAlreadyOpen     = domain.ErrAlreadyOpen
	ErrShutdownTimeout = domain.ErrShutdownTimeout
)
