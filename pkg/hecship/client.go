package hecship

import (
	"context"
	"os"
	"sync"

	"github.com/benbjohnson/clock"

	httpAdapter "github.com/bft-labs/hecship/internal/adapters/http"
	jsonAdapter "github.com/bft-labs/hecship/internal/adapters/json"
	"github.com/bft-labs/hecship/internal/app"
	"github.com/bft-labs/hecship/internal/domain"
	"github.com/bft-labs/hecship/internal/ports"
	"github.com/bft-labs/hecship/pkg/log"
)

// Client submits events to an HTTP event collector.
// Use New() to create an instance, Open() to start delivery workers and
// Close() to drain and stop them. All methods are safe for concurrent use.
type Client struct {
	config    Config
	host      string
	uri       string
	lifecycle *app.Lifecycle
	queue     *app.DispatchQueue
	pool      *app.WorkerPool
	acc       *app.Accumulator
	logger    log.Logger

	// gate orders submissions against the Running -> Closing transition.
	gate sync.RWMutex
}

// Stats is a point-in-time view of outstanding work.
type Stats struct {
	// BatchEvents is the number of events in the unsent batch
	BatchEvents int

	// BatchBytes is the serialized size of the unsent batch
	BatchBytes int

	// Queued is the number of units waiting for a worker
	Queued int

	// Pending is the number of queued plus in-flight units
	Pending int
}

// New creates a Client with the given configuration.
// The client is created in StateNew; call Open() before submitting.
// Returns an error wrapping ErrInvalidConfig if configuration is invalid.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := app.ParseOverflowPolicy(cfg.Overflow)
	if err != nil {
		return nil, err
	}

	o := options{
		clock:    clock.New(),
		hostname: os.Hostname,
		logger:   log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.encoder == nil {
		o.encoder = jsonAdapter.NewEncoder()
	}

	logger := o.logger
	uri := cfg.URI()
	if o.transport == nil {
		if o.httpClient == nil {
			o.httpClient = httpAdapter.NewHTTPClient(cfg.HTTPTimeout, cfg.InsecureSkipVerify)
		}
		o.transport = httpAdapter.NewTransport(o.httpClient, httpAdapter.Config{
			URI:        uri,
			Token:      cfg.Token,
			AuthScheme: cfg.AuthScheme,
			UserAgent:  UserAgent,
			Gzip:       cfg.Gzip,
		}, log.With(logger, log.String("component", "transport")))
	}

	host := cfg.LocalHost
	if host == "" {
		host = resolveHostname(o.hostname, logger)
	}

	outcomes := &outcomeAdapter{handler: o.outcomeHandler}
	queue := app.NewDispatchQueue(cfg.QueueCapacity, policy, o.clock, outcomes.onDropped,
		log.With(logger, log.String("component", "queue")))

	c := &Client{
		config:    cfg,
		host:      host,
		uri:       uri,
		lifecycle: app.NewLifecycle(logger, outcomes),
		queue:     queue,
		pool: app.NewWorkerPool(queue, o.transport, cfg.Workers, o.clock, outcomes,
			log.With(logger, log.String("component", "pool")), cfg.Debug),
		acc: app.NewAccumulator(cfg.MaxBatchBytes, queue, o.encoder, o.clock, host,
			log.With(logger, log.String("component", "accumulator"))),
		logger:    logger,
	}

	logger.Info("client created",
		log.String("uri", uri),
		log.String("host", host),
		log.Int("workers", cfg.Workers),
		log.Int("queue_capacity", cfg.QueueCapacity),
		log.String("overflow", policy.String()),
		log.Int("max_batch_bytes", cfg.MaxBatchBytes),
	)
	if cfg.InsecureSkipVerify {
		logger.Warn("TLS certificate verification disabled")
	}
	return c, nil
}

// Open starts the delivery workers and begins accepting submissions.
// Returns ErrAlreadyOpen if the client is running and ErrClosed after Close.
func (c *Client) Open() error {
	c.gate.Lock()
	defer c.gate.Unlock()

	if err := c.lifecycle.TransitionTo(app.StateRunning, "Open() called"); err != nil {
		return err
	}
	c.pool.Start(context.Background())
	return nil
}

// Close stops accepting submissions, hands the unsent batch to the queue and
// waits up to ShutdownTimeout for every queued and in-flight unit to finish.
// Workers have exited when Close returns. Deliveries still in flight at the
// deadline are cancelled and ErrShutdownTimeout is returned.
// Returns ErrNotOpen if the client was never opened and ErrClosed if it is
// already closing or closed.
func (c *Client) Close() error {
	c.gate.Lock()
	err := c.lifecycle.TransitionTo(app.StateClosing, "Close() called")
	c.gate.Unlock()
	if err != nil {
		return err
	}

	if cutErr := c.acc.Cut(); cutErr != nil {
		c.logger.Warn("final batch not enqueued", log.Err(cutErr))
	}

	stopErr := c.pool.Stop(c.config.ShutdownTimeout)
	reason := "graceful shutdown"
	if stopErr != nil {
		reason = "shutdown timeout"
	}
	_ = c.lifecycle.TransitionTo(app.StateClosed, reason)
	return stopErr
}

// Append adds ev to the current batch. When ev would push the batch past
// MaxBatchBytes, the batch is handed to the queue first and ev starts the
// next one. Append does not wait for delivery.
//
// Returns ErrSerialization if ev cannot be encoded, ErrNotOpen or ErrClosed
// outside the running state, and ErrQueueFull when an automatic cut is
// refused by the reject overflow policy.
func (c *Client) Append(ev Event) error {
	c.gate.RLock()
	defer c.gate.RUnlock()

	if err := c.lifecycle.Accepting(); err != nil {
		return err
	}
	return c.acc.Append(ev)
}

// Flush hands the current batch to the queue, if it has any events, then
// blocks until every unit submitted by any producer has been delivered or
// has failed. Flush on an empty batch enqueues nothing and only waits.
func (c *Client) Flush() error {
	c.gate.RLock()
	err := c.lifecycle.Accepting()
	c.gate.RUnlock()
	if err != nil {
		return err
	}
	return c.acc.Flush()
}

// Send submits ev as its own request, bypassing the batch, and blocks until
// every unit submitted so far, from any producer, has finished. A delivery
// failure is not returned; observe it with SendAsync or an OutcomeHandler.
func (c *Client) Send(ev Event) error {
	if err := c.submit(ev, nil); err != nil {
		return err
	}
	c.queue.Wait()
	return nil
}

// SendAsync submits ev as its own request and returns without waiting.
// The receipt resolves with the delivery outcome. On error the receipt is nil.
func (c *Client) SendAsync(ev Event) (*Receipt, error) {
	r := domain.NewReceipt()
	if err := c.submit(ev, r); err != nil {
		return nil, err
	}
	return r, nil
}

// WaitUntilDone blocks until every queued and in-flight unit has finished.
// The unsent batch is not included; use Flush for that.
func (c *Client) WaitUntilDone() {
	c.queue.Wait()
}

// Status returns the current lifecycle state.
func (c *Client) Status() State {
	return c.lifecycle.State()
}

// URI returns the collector endpoint.
func (c *Client) URI() string {
	return c.uri
}

// Host returns the host name stamped into events without one.
func (c *Client) Host() string {
	return c.host
}

// Stats returns a snapshot of outstanding work.
func (c *Client) Stats() Stats {
	events, bytes := c.acc.Pending()
	return Stats{
		BatchEvents: events,
		BatchBytes:  bytes,
		Queued:      c.queue.Len(),
		Pending:     c.queue.Pending(),
	}
}

func (c *Client) submit(ev Event, r *domain.Receipt) error {
	payload, err := c.acc.Serialize(ev)
	if err != nil {
		return err
	}
	u := domain.NewSingleUnit(payload)
	u.Receipt = r

	c.gate.RLock()
	defer c.gate.RUnlock()

	if err := c.lifecycle.Accepting(); err != nil {
		return err
	}
	return c.queue.Put(u)
}

// resolveHostname returns the local host name, or "unknown" if it cannot be resolved.
func resolveHostname(fn ports.HostnameFunc, logger log.Logger) string {
	h, err := fn()
	if err != nil || h == "" {
		logger.Warn("hostname lookup failed, using \"unknown\"", log.Err(err))
		return "unknown"
	}
	return h
}
