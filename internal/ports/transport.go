package ports

import "context"

// Transport delivers request bodies to the collector endpoint.
type Transport interface {
	// Deliver issues one request carrying body.
	// Returns nil on a 2xx response. Any other outcome is an error wrapping
	// domain.ErrTransport. Implementations must not retry.
	Deliver(ctx context.Context, body []byte) error
}

// TransportFunc adapts an ordinary function to the Transport interface.
type TransportFunc func(ctx context.Context, body []byte) error

// Deliver calls f(ctx, body).
func (f TransportFunc) Deliver(ctx context.Context, body []byte) error {
	return f(ctx, body)
}
