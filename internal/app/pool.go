package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/hecship/internal/domain"
	"github.com/bft-labs/hecship/internal/ports"
	"github.com/bft-labs/hecship/pkg/log"
)

// DeliveryObserver is called after every delivery attempt.
// Calls come from worker goroutines and may be concurrent.
type DeliveryObserver interface {
	OnDelivered(u *domain.Unit, duration time.Duration)
	OnFailed(u *domain.Unit, err error, duration time.Duration)
}

// WorkerPool runs a fixed number of workers pulling units from a queue and
// handing their bodies to a transport. Failures are not retried.
type WorkerPool struct {
	queue     *DispatchQueue
	transport ports.Transport
	size      int
	clock     ports.Clock
	observer  DeliveryObserver
	logger    log.Logger
	debug     bool

	mu      sync.Mutex
	group   *errgroup.Group
	cancel  context.CancelFunc
	started bool
}

// NewWorkerPool creates a pool of size workers. Workers start on Start.
func NewWorkerPool(queue *DispatchQueue, transport ports.Transport, size int, clk ports.Clock, observer DeliveryObserver, logger log.Logger, debug bool) *WorkerPool {
	return &WorkerPool{
		queue:     queue,
		transport: transport,
		size:      size,
		clock:     clk,
		observer:  observer,
		logger:    logger,
		debug:     debug,
	}
}

// Size returns the fixed number of workers.
func (p *WorkerPool) Size() int {
	return p.size
}

// Start spawns the workers. ctx bounds in-flight deliveries; it should
// outlive normal operation and is cancelled by Stop on timeout.
func (p *WorkerPool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.group = &errgroup.Group{}

	for i := 0; i < p.size; i++ {
		id := i
		p.group.Go(func() error {
			p.work(runCtx, id)
			return nil
		})
	}

	p.logger.Info("worker pool started", log.Int("workers", p.size))
}

// Stop closes the queue, lets the workers drain what is queued and waits for
// them to exit. If that takes longer than timeout, in-flight deliveries are
// cancelled and domain.ErrShutdownTimeout is returned once workers exit.
func (p *WorkerPool) Stop(timeout time.Duration) error {
	p.queue.Close()

	p.mu.Lock()
	group, cancel := p.group, p.cancel
	p.mu.Unlock()
	if group == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		_ = group.Wait()
		close(done)
	}()

	select {
	case <-done:
		cancel()
		p.logger.Info("worker pool stopped")
		return nil
	case <-p.clock.After(timeout):
		p.logger.Warn("shutdown timeout, cancelling in-flight deliveries",
			log.Duration("timeout", timeout),
			log.Int("pending", p.queue.Pending()),
		)
		cancel()
		<-done
		return domain.ErrShutdownTimeout
	}
}

func (p *WorkerPool) work(ctx context.Context, id int) {
	wlog := log.With(p.logger, log.Int("worker", id))
	for {
		u, ok := p.queue.Take()
		if !ok {
			return
		}
		p.deliver(ctx, u, wlog)
	}
}

// deliver sends one unit and always marks it done, even if the transport panics.
func (p *WorkerPool) deliver(ctx context.Context, u *domain.Unit, wlog log.Logger) {
	start := p.clock.Now()
	var err error

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: transport panic: %v", domain.ErrTransport, r)
		}
		p.finish(u, err, p.clock.Now().Sub(start), wlog)
	}()

	err = p.transport.Deliver(ctx, u.Body())
}

func (p *WorkerPool) finish(u *domain.Unit, err error, took time.Duration, wlog log.Logger) {
	defer p.queue.Done()

	u.Complete(err)

	if err != nil {
		fields := []log.Field{
			log.Err(err),
			log.Uint64("seq", u.Seq),
			log.String("kind", u.Kind.String()),
			log.Int("events", len(u.Events)),
			log.Int("bytes", u.Bytes),
		}
		if p.debug {
			wlog.Debug("delivery failed", fields...)
		} else {
			wlog.Warn("delivery failed", fields...)
		}
		if p.observer != nil {
			p.observer.OnFailed(u, err, took)
		}
		return
	}

	if p.debug {
		wlog.Debug("unit delivered",
			log.Uint64("seq", u.Seq),
			log.Int("events", len(u.Events)),
			log.Int("bytes", u.Bytes),
			log.Duration("duration", took),
		)
	}
	if p.observer != nil {
		p.observer.OnDelivered(u, took)
	}
}
