package main

import (
	"errors"
	"sync/atomic"

	"github.com/bft-labs/hecship/internal/ports"
	"github.com/bft-labs/hecship/pkg/hecship"
	"github.com/bft-labs/hecship/pkg/log"
)

// shipper turns JSON lines into client submissions.
type shipper struct {
	client    *hecship.Client
	decoder   ports.Encoder
	immediate bool
	logger    log.Logger

	submitted int
	skipped   int
	rejected  int
}

// handle decodes one line and submits it. Lines that are not JSON objects
// and events the queue refuses are logged and skipped.
func (s *shipper) handle(line []byte) error {
	var ev hecship.Event
	if err := s.decoder.Unmarshal(line, &ev); err != nil || ev == nil {
		s.skipped++
		s.logger.Warn("skipping line that is not a JSON object", log.Err(err), log.Int("bytes", len(line)))
		return nil
	}

	var err error
	if s.immediate {
		err = s.client.Send(ev)
	} else {
		err = s.client.Append(ev)
	}

	switch {
	case err == nil:
		s.submitted++
		return nil
	case errors.Is(err, hecship.ErrSerialization):
		s.skipped++
		s.logger.Warn("skipping event", log.Err(err))
		return nil
	case errors.Is(err, hecship.ErrQueueFull):
		s.rejected++
		s.logger.Warn("queue full, batch rejected", log.Err(err))
		if !s.immediate {
			// the event that triggered the cut is still in the new batch
			s.submitted++
		}
		return nil
	default:
		return err
	}
}

// deliveryCounter tallies delivery outcomes for the exit summary.
type deliveryCounter struct {
	hecship.BaseOutcomeHandler

	delivered atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
	events    atomic.Int64
}

func (d *deliveryCounter) OnDelivered(e hecship.DeliveredEvent) {
	d.delivered.Add(1)
	d.events.Add(int64(e.Events))
}

func (d *deliveryCounter) OnFailed(hecship.FailedEvent)   { d.failed.Add(1) }
func (d *deliveryCounter) OnDropped(hecship.DroppedEvent) { d.dropped.Add(1) }
