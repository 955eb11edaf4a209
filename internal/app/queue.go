package app

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bft-labs/hecship/internal/domain"
	"github.com/bft-labs/hecship/internal/ports"
	"github.com/bft-labs/hecship/pkg/log"
)

// OverflowPolicy decides what Put does when the queue is at capacity.
type OverflowPolicy int

const (
	// OverflowBlock makes Put wait until a worker frees a slot.
	OverflowBlock OverflowPolicy = iota
	// OverflowDropOldest evicts the oldest queued unit to make room.
	OverflowDropOldest
	// OverflowReject makes Put fail with domain.ErrQueueFull.
	OverflowReject
)

// String returns the configuration name of the policy.
func (p OverflowPolicy) String() string {
	switch p {
	case OverflowBlock:
		return "block"
	case OverflowDropOldest:
		return "drop-oldest"
	case OverflowReject:
		return "reject"
	default:
		return "unknown"
	}
}

// ParseOverflowPolicy maps a configuration name to a policy.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "block":
		return OverflowBlock, nil
	case "drop-oldest", "drop_oldest":
		return OverflowDropOldest, nil
	case "reject":
		return OverflowReject, nil
	default:
		return OverflowBlock, fmt.Errorf("%w: unknown overflow policy %q", domain.ErrInvalidConfig, s)
	}
}

// DropFunc is told about units the queue discarded under its overflow policy.
type DropFunc func(u *domain.Unit, reason error)

// DispatchQueue is a thread-safe FIFO of units awaiting delivery.
//
// It counts outstanding work as queued plus in-flight units. A unit leaves
// the count when a worker calls Done, or when the overflow policy drops it.
// Wait blocks until the count reaches zero.
type DispatchQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	drained  *sync.Cond

	items    []*domain.Unit
	capacity int
	policy   OverflowPolicy
	pending  int
	seq      uint64
	closed   bool

	clock  ports.Clock
	onDrop DropFunc
	logger log.Logger
}

// NewDispatchQueue creates a queue holding at most capacity units.
// A capacity of zero means unbounded.
func NewDispatchQueue(capacity int, policy OverflowPolicy, clk ports.Clock, onDrop DropFunc, logger log.Logger) *DispatchQueue {
	q := &DispatchQueue{
		items:    make([]*domain.Unit, 0),
		capacity: capacity,
		policy:   policy,
		clock:    clk,
		onDrop:   onDrop,
		logger:   logger,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	q.drained = sync.NewCond(&q.mu)
	return q
}

// Put appends u to the tail of the queue.
// Returns domain.ErrClosed after Close and domain.ErrQueueFull when the
// reject policy refuses the unit. A refused unit's receipt is completed
// with the returned error.
func (q *DispatchQueue) Put(u *domain.Unit) error {
	q.mu.Lock()

	var dropped *domain.Unit
	for q.full() && !q.closed {
		switch q.policy {
		case OverflowReject:
			q.mu.Unlock()
			u.Complete(domain.ErrQueueFull)
			return domain.ErrQueueFull
		case OverflowDropOldest:
			dropped = q.popFront()
			q.pending--
		default:
			q.notFull.Wait()
		}
	}

	if q.closed {
		q.mu.Unlock()
		u.Complete(domain.ErrClosed)
		return domain.ErrClosed
	}

	q.seq++
	u.Seq = q.seq
	u.EnqueuedAt = q.clock.Now()
	q.items = append(q.items, u)
	q.pending++
	depth := len(q.items)
	q.notEmpty.Signal()
	q.mu.Unlock()

	if dropped != nil {
		q.drop(dropped)
	}

	q.logger.Debug("unit enqueued",
		log.Uint64("seq", u.Seq),
		log.String("kind", u.Kind.String()),
		log.Int("events", len(u.Events)),
		log.Int("bytes", u.Bytes),
		log.Int("depth", depth),
	)
	return nil
}

// Take removes and returns the head of the queue, blocking while it is empty.
// Returns false once the queue is closed and fully drained of queued units.
func (q *DispatchQueue) Take() (*domain.Unit, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}

	u := q.popFront()
	q.notFull.Signal()
	return u, true
}

// Done marks one taken unit as processed.
func (q *DispatchQueue) Done() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.pending <= 0 {
		panic("app: DispatchQueue.Done called more times than units were taken")
	}
	q.pending--
	if q.pending == 0 {
		q.drained.Broadcast()
	}
}

// Wait blocks until every queued and in-flight unit has been processed.
// This is a global barrier across all producers.
func (q *DispatchQueue) Wait() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.pending > 0 {
		q.drained.Wait()
	}
}

// Close stops accepting units. Queued units remain available to Take.
func (q *DispatchQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Len returns the number of queued units, excluding in-flight ones.
func (q *DispatchQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Pending returns the number of queued plus in-flight units.
func (q *DispatchQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

// full reports whether a bounded queue has no free slot. Caller holds mu.
func (q *DispatchQueue) full() bool {
	return q.capacity > 0 && len(q.items) >= q.capacity
}

// popFront removes the head. Caller holds mu and ensures the queue is non-empty.
func (q *DispatchQueue) popFront() *domain.Unit {
	u := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return u
}

func (q *DispatchQueue) drop(u *domain.Unit) {
	q.logger.Warn("unit dropped by overflow policy",
		log.Uint64("seq", u.Seq),
		log.Int("events", len(u.Events)),
		log.String("policy", q.policy.String()),
	)
	u.Complete(domain.ErrDropped)
	if q.onDrop != nil {
		q.onDrop(u, domain.ErrDropped)
	}
}
