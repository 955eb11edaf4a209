package domain

import "errors"

// Domain errors represent error conditions in the hecship domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrSerialization is returned when an event payload cannot be encoded.
	ErrSerialization = errors.New("hecship: event serialization failed")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("hecship: invalid configuration")

	// ErrTransport wraps network failures and non-success collector responses.
	// It is never returned by the submission API; it reaches receipts and
	// outcome handlers only.
	ErrTransport = errors.New("hecship: transport failure")

	// ErrQueueFull is returned when the dispatch queue is at capacity and the
	// overflow policy is reject.
	ErrQueueFull = errors.New("hecship: dispatch queue full")

	// ErrDropped completes the receipt of a unit evicted by the drop-oldest policy.
	ErrDropped = errors.New("hecship: unit dropped by overflow policy")

	// ErrClosed is returned when submitting to a client that is closing or closed.
	ErrClosed = errors.New("hecship: client closed")

	// ErrNotOpen is returned when submitting before Open() was called.
	ErrNotOpen = errors.New("hecship: client not open")

	// ErrAlreadyOpen is returned when Open() is called on an open client.
	ErrAlreadyOpen = errors.New("hecship: already open")

	// ErrShutdownTimeout is returned when Close() could not drain in time.
	ErrShutdownTimeout = errors.New("hecship: shutdown timeout")
)
