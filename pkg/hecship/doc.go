// Package hecship provides an embeddable client for HTTP event collectors.
//
// Events are key-value maps serialized to JSON. They are either accumulated
// into size-bounded batches or sent immediately, and a fixed pool of worker
// goroutines POSTs them to the collector's /services/collector/event endpoint.
//
// # Basic Usage
//
//	cfg := hecship.DefaultConfig()
//	cfg.Token = "your-token"
//	cfg.CollectorHost = "collector.example.com"
//
//	client, err := hecship.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Open(); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	_ = client.Append(hecship.Event{"event": "login", "user": "ada"})
//	_ = client.Flush()
//
// # Batching
//
// [Client.Append] adds an event to the current batch. When the next event
// would push the serialized size past MaxBatchBytes, the batch is handed to
// the dispatch queue first. A single event larger than MaxBatchBytes is sent
// alone, unsplit. [Client.Flush] hands over the current batch and blocks until
// all outstanding work from every producer has finished.
//
// # Immediate Sends
//
// [Client.Send] bypasses the batch and waits like Flush. [Client.SendAsync]
// returns a [Receipt] that resolves with the outcome of that one request.
//
// # Outcomes
//
// Delivery failures are never retried and never returned from Append, Flush or
// Send. Observe them through receipts or an [OutcomeHandler]:
//
//	client, err := hecship.New(cfg, hecship.WithOutcomeHandler(handler))
//
// # Queue Overflow
//
// The dispatch queue holds QueueCapacity units. When it is full, Overflow
// decides: "block" waits for a free slot, "drop-oldest" evicts the oldest
// queued unit and "reject" fails the submission with [ErrQueueFull].
//
// # Lifecycle States
//
// A Client moves through [StateNew], [StateRunning], [StateClosing] and
// [StateClosed]. Use [Client.Status] to query the current state.
package hecship
