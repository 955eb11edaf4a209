package app

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/bft-labs/hecship/internal/domain"
	"github.com/bft-labs/hecship/internal/ports"
	"github.com/bft-labs/hecship/pkg/log"
)

// UnitSink accepts finished units. *DispatchQueue satisfies it.
type UnitSink interface {
	Put(u *domain.Unit) error
	Wait()
}

// Accumulator packs serialized events into batches bounded by maxBytes.
//
// A batch is cut before the event that would push it past the budget, so a
// flushed batch never contains the event that triggered it. An event larger
// than the budget is not split; it travels alone in its own batch.
//
// Append and Flush are safe for concurrent use. Units are put on the sink
// while the accumulator lock is held, so batches enter the queue in the
// order they were cut.
type Accumulator struct {
	mu       sync.Mutex
	batch    *domain.Batch
	maxBytes int

	sink    UnitSink
	encoder ports.Encoder
	clock   ports.Clock
	host    string
	logger  log.Logger
}

// NewAccumulator creates an accumulator that cuts batches at maxBytes.
// host and the clock supply the host/time defaults.
func NewAccumulator(maxBytes int, sink UnitSink, encoder ports.Encoder, clk ports.Clock, host string, logger log.Logger) *Accumulator {
	return &Accumulator{
		batch:    domain.NewBatch(),
		maxBytes: maxBytes,
		sink:     sink,
		encoder:  encoder,
		clock:    clk,
		host:     host,
		logger:   logger,
	}
}

// Serialize applies the host/time defaults to a copy of ev and encodes it.
func (a *Accumulator) Serialize(ev domain.Event) (domain.SerializedEvent, error) {
	now := strconv.FormatInt(a.clock.Now().Unix(), 10)
	b, err := a.encoder.Marshal(ev.WithDefaults(a.host, now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSerialization, err)
	}
	return domain.SerializedEvent(b), nil
}

// Append serializes ev and adds it to the current batch, first handing the
// current batch to the sink if ev would not fit.
//
// If the sink refuses the cut batch, its error is returned; the refused
// batch is gone and ev still starts the next batch.
func (a *Accumulator) Append(ev domain.Event) error {
	payload, err := a.Serialize(ev)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var cutErr error
	if !a.batch.Empty() && !a.batch.Fits(len(payload), a.maxBytes) {
		a.logger.Debug("auto flush",
			log.Int("events", a.batch.Size()),
			log.Int("bytes", a.batch.TotalBytes),
			log.Int("next_bytes", len(payload)),
		)
		cutErr = a.cutLocked()
	}

	a.batch.Add(payload)
	if len(payload) > a.maxBytes {
		a.logger.Warn("event exceeds batch budget, sending unsplit",
			log.Int("bytes", len(payload)),
			log.Int("max_batch_bytes", a.maxBytes),
		)
	}
	return cutErr
}

// Flush hands the current batch to the sink and blocks until the sink has
// drained all outstanding work, from every producer. Flushing an empty
// accumulator enqueues nothing and only waits.
func (a *Accumulator) Flush() error {
	err := a.Cut()
	a.sink.Wait()
	return err
}

// Cut hands the current batch to the sink without waiting for delivery.
// It is a no-op on an empty accumulator.
func (a *Accumulator) Cut() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.batch.Empty() {
		return nil
	}
	a.logger.Debug("manual flush",
		log.Int("events", a.batch.Size()),
		log.Int("bytes", a.batch.TotalBytes),
	)
	return a.cutLocked()
}

// Pending returns the event count and byte size of the unsent batch.
func (a *Accumulator) Pending() (events, bytes int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.batch.Size(), a.batch.TotalBytes
}

// cutLocked enqueues the current batch and starts a fresh one. Caller holds mu.
func (a *Accumulator) cutLocked() error {
	u := domain.NewBatchUnit(a.batch)
	a.batch = domain.NewBatch()
	return a.sink.Put(u)
}
