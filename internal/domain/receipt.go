package domain

import (
	"context"
	"sync"
)

// Receipt is a completion token for a single unit. It resolves exactly once
// with the delivery outcome: nil on a 2xx response, an ErrTransport-wrapped
// error on failure, or ErrDropped/ErrQueueFull when the overflow policy
// discarded the unit.
type Receipt struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewReceipt creates an unresolved receipt.
func NewReceipt() *Receipt {
	return &Receipt{done: make(chan struct{})}
}

func (r *Receipt) complete(err error) {
	r.once.Do(func() {
		r.err = err
		close(r.done)
	})
}

// Done returns a channel closed once the outcome is known.
func (r *Receipt) Done() <-chan struct{} {
	return r.done
}

// Err returns the outcome. Valid only after Done is closed.
func (r *Receipt) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// Wait blocks until the outcome is known or ctx is done.
func (r *Receipt) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
