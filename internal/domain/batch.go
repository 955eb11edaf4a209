package domain

// Batch is an ordered group of serialized events shipped as one request body.
// It maintains the invariant that TotalBytes equals the summed length of Events.
type Batch struct {
	// Events holds the members in append order
	Events []SerializedEvent

	// TotalBytes is the sum of all member lengths
	TotalBytes int
}

// NewBatch creates a new empty batch.
func NewBatch() *Batch {
	return &Batch{
		Events: make([]SerializedEvent, 0),
	}
}

// Add appends a serialized event to the batch.
func (b *Batch) Add(ev SerializedEvent) {
	b.Events = append(b.Events, ev)
	b.TotalBytes += len(ev)
}

// Fits reports whether n more bytes stay within maxBytes.
func (b *Batch) Fits(n, maxBytes int) bool {
	return b.TotalBytes+n <= maxBytes
}

// Size returns the number of events in the batch.
func (b *Batch) Size() int {
	return len(b.Events)
}

// Empty returns true if the batch has no events.
func (b *Batch) Empty() bool {
	return len(b.Events) == 0
}
