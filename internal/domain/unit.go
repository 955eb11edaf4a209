package domain

import "time"

// UnitKind tells which submission path produced a Unit.
type UnitKind int

const (
	// UnitBatch carries a batch cut by the accumulator.
	UnitBatch UnitKind = iota
	// UnitSingle carries one immediately submitted event.
	UnitSingle
)

// String returns a human-readable representation of the kind.
func (k UnitKind) String() string {
	switch k {
	case UnitBatch:
		return "batch"
	case UnitSingle:
		return "single"
	default:
		return "unknown"
	}
}

// Unit is the atomic item carried on the dispatch queue to a worker.
type Unit struct {
	// Kind is the submission path that produced the unit
	Kind UnitKind

	// Events are the members, delivered in order
	Events []SerializedEvent

	// Bytes is the summed length of Events
	Bytes int

	// Seq is assigned by the queue on enqueue and increases monotonically
	Seq uint64

	// EnqueuedAt is set by the queue on enqueue
	EnqueuedAt time.Time

	// Receipt is completed with the delivery outcome when non-nil
	Receipt *Receipt
}

// NewBatchUnit wraps a batch. The batch must not be used after the call.
func NewBatchUnit(b *Batch) *Unit {
	return &Unit{
		Kind:   UnitBatch,
		Events: b.Events,
		Bytes:  b.TotalBytes,
	}
}

// NewSingleUnit wraps one serialized event as a singleton unit.
func NewSingleUnit(ev SerializedEvent) *Unit {
	return &Unit{
		Kind:   UnitSingle,
		Events: []SerializedEvent{ev},
		Bytes:  len(ev),
	}
}

// Body joins the members with a single space into one request body.
func (u *Unit) Body() []byte {
	if len(u.Events) == 0 {
		return nil
	}
	body := make([]byte, 0, u.Bytes+len(u.Events)-1)
	for i, ev := range u.Events {
		if i > 0 {
			body = append(body, ' ')
		}
		body = append(body, ev...)
	}
	return body
}

// Complete resolves the unit's receipt, if any.
func (u *Unit) Complete(err error) {
	if u.Receipt != nil {
		u.Receipt.complete(err)
	}
}
