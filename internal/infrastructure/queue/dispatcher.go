// Package queue moves order event publishing off the request path.
package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrQueueFull is returned when a worker's buffer has no room. The event is dropped.
var ErrQueueFull = errors.New("event queue full")

// ErrClosed is returned for events enqueued after Close.
var ErrClosed = errors.New("event queue closed")

type job struct {
	userID  string
	placed  *domain.Order
	orderID string
	status  domain.OrderStatus
}

// Dispatcher implements ports.OrderEventPublisher by handing events to a fixed
// set of workers that forward them to next. Events are sharded by user id, so
// one user's events are published in the order they were enqueued.
type Dispatcher struct {
	workers []chan job
	next    ports.OrderEventPublisher
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, next ports.OrderEventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		next:    next,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers keep draining after ctx is
// cancelled and stop once Close has been called and their buffer is empty.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) OrderPlaced(_ context.Context, order domain.Order) error {
	return d.enqueue(job{userID: order.IdentityID, placed: &order})
}

func (d *Dispatcher) OrderStatusUpdated(_ context.Context, identityID, orderID string, status domain.OrderStatus) error {
	return d.enqueue(job{userID: identityID, orderID: orderID, status: status})
}

// enqueue never blocks: a full buffer drops the event.
func (d *Dispatcher) enqueue(j job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.workers[d.shardIndex(j.userID)] <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for queued ones to be published.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
	return nil
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	defer d.wg.Done()
	for j := range ch {
		var err error
		if j.placed != nil {
			err = d.next.OrderPlaced(ctx, *j.placed)
		} else {
			err = d.next.OrderStatusUpdated(ctx, j.userID, j.orderID, j.status)
		}
		if err != nil {
			d.log.Warn().Err(err).
				Str("user_id", j.userID).
				Int("worker_id", id).
				Msg("order event publish failed")
		}
	}
}
