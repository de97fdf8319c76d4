package worker

import (
	"context"
	"sync"
	"time"

	"github.com/okian/engage/internal/adapters/mq/queue"
	"github.com/okian/engage/pkg/logger"
	"github.com/okian/engage/pkg/metrics"
)

type route struct {
	sink   Sink
	queue  *queue.InMemoryQueue
	worker *InMemoryWorker
}

// Dispatcher fans notifications out to sinks. Each sink has its own queue
// and worker, so a slow sink neither blocks the caller nor reorders another
// sink's stream. Notify never blocks: a notification that does not fit in a
// sink's queue is dropped for that sink and counted.
type Dispatcher struct {
	routes   []route
	capacity int

	mu       sync.Mutex
	started  bool
	stopped  bool
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewDispatcher creates a dispatcher delivering to sinks.
func NewDispatcher(sinks []Sink, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		capacity: 1024,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Discard(),
	}

	for _, opt := range opts {
		opt(d)
	}

	for _, s := range sinks {
		q := queue.NewInMemoryQueue(queue.WithCapacity(d.capacity), queue.WithName(s.Name()))
		d.routes = append(d.routes, route{
			sink:   s,
			queue:  q,
			worker: NewInMemoryWorker(q, s, WithLogger(d.logger)),
		})
	}

	return d
}

// Start launches one worker per sink.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true

	for _, r := range d.routes {
		go r.worker.Run(ctx)
	}
	go d.startMetricsUpdater(ctx)

	d.logger.Info(ctx, "notification dispatcher started", logger.Int("sinks", len(d.routes)))
}

// Notify enqueues n for every sink without blocking. Cancellation of ctx is
// ignored; only a full or closed queue drops a notification.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) { //nolint:gocritic // hugeParam: passed by value for channel semantics
	ctx = context.WithoutCancel(ctx)
	for _, r := range d.routes {
		if err := r.queue.Enqueue(ctx, n); err != nil {
			metrics.RecordNotificationDropped(r.sink.Name())
			d.logger.Warn(ctx, "notification dropped",
				logger.String("sink", r.sink.Name()),
				logger.String("kind", string(n.Kind)),
				logger.Error(err),
			)
		}
	}
}

func (d *Dispatcher) startMetricsUpdater(ctx context.Context) {
	defer close(d.done)

	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.shutdown:
			return
		case <-ticker.C:
			for _, r := range d.routes {
				r.queue.Len(ctx)
			}
		}
	}
}

// Shutdown stops accepting notifications, lets every worker drain its queue
// and waits for them, bounded by ctx.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	started := d.started
	d.mu.Unlock()

	for _, r := range d.routes {
		if err := r.queue.Close(); err != nil {
			d.logger.Error(ctx, "error closing queue", logger.String("sink", r.sink.Name()), logger.Error(err))
		}
	}
	close(d.shutdown)

	if !started {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, dispatcherShutdownTimeout)
	defer cancel()

	for _, r := range d.routes {
		select {
		case <-r.worker.Done():
		case <-shutdownCtx.Done():
			d.logger.Warn(ctx, "worker shutdown timed out", logger.String("sink", r.sink.Name()))
			return shutdownCtx.Err()
		}
	}
	select {
	case <-d.done:
	case <-shutdownCtx.Done():
		return shutdownCtx.Err()
	}

	d.logger.Info(ctx, "notification dispatcher stopped")
	return nil
}
