package hecship

import (
	"time"

	"github.com/bft-labs/hecship/internal/app"
	"github.com/bft-labs/hecship/internal/domain"
)

// OutcomeHandler receives notifications about deliveries and lifecycle changes.
// Delivery callbacks run on worker goroutines and may be concurrent;
// implementations should return quickly. Embed BaseOutcomeHandler to
// implement only the callbacks you need.
type OutcomeHandler interface {
	OnStateChange(event StateChangeEvent)
	OnDelivered(event DeliveredEvent)
	OnFailed(event FailedEvent)
	OnDropped(event DroppedEvent)
}

// BaseOutcomeHandler provides no-op implementations of every callback.
type BaseOutcomeHandler struct{}

func (BaseOutcomeHandler) OnStateChange(StateChangeEvent) {}
func (BaseOutcomeHandler) OnDelivered(DeliveredEvent)     {}
func (BaseOutcomeHandler) OnFailed(FailedEvent)           {}
func (BaseOutcomeHandler) OnDropped(DroppedEvent)         {}

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// UnitInfo identifies the unit an outcome refers to.
type UnitInfo struct {
	// Seq is the enqueue sequence number
	Seq uint64

	// Kind is "batch" or "single"
	Kind string

	// Events is the number of events in the unit
	Events int

	// Bytes is the body size before the separators
	Bytes int
}

// DeliveredEvent reports a unit accepted by the collector with a 2xx response.
type DeliveredEvent struct {
	UnitInfo
	Duration time.Duration
}

// FailedEvent reports a unit whose delivery failed. Err wraps ErrTransport
// unless the delivery was cancelled by a shutdown timeout.
type FailedEvent struct {
	UnitInfo
	Err      error
	Duration time.Duration
}

// DroppedEvent reports a unit evicted by the drop-oldest overflow policy.
type DroppedEvent struct {
	UnitInfo
	Reason error
}

func unitInfo(u *domain.Unit) UnitInfo {
	return UnitInfo{
		Seq:    u.Seq,
		Kind:   u.Kind.String(),
		Events: len(u.Events),
		Bytes:  u.Bytes,
	}
}

// outcomeAdapter adapts OutcomeHandler to the internal observer interfaces.
type outcomeAdapter struct {
	handler OutcomeHandler
}

func (o *outcomeAdapter) OnStateChange(previous, current app.State, reason string) {
	if o.handler == nil {
		return
	}
	o.handler.OnStateChange(StateChangeEvent{Previous: previous, Current: current, Reason: reason})
}

func (o *outcomeAdapter) OnDelivered(u *domain.Unit, d time.Duration) {
	if o.handler == nil {
		return
	}
	o.handler.OnDelivered(DeliveredEvent{UnitInfo: unitInfo(u), Duration: d})
}

func (o *outcomeAdapter) OnFailed(u *domain.Unit, err error, d time.Duration) {
	if o.handler == nil {
		return
	}
	o.handler.OnFailed(FailedEvent{UnitInfo: unitInfo(u), Err: err, Duration: d})
}

func (o *outcomeAdapter) onDropped(u *domain.Unit, reason error) {
	if o.handler == nil {
		return
	}
	o.handler.OnDropped(DroppedEvent{UnitInfo: unitInfo(u), Reason: reason})
}
