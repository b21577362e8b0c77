package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/medishare/donation-gateway/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans notifications out to a fixed set of workers using
// consistent hashing on the recipient, so each user's messages are delivered
// in order. Delivery is fire-and-forget: failures are logged, never returned.
type Dispatcher struct {
	workers []chan ports.Notification
	sink    ports.NotificationSink
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.NotificationSink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.Notification, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Notify enqueues a notification for the worker responsible for its
// recipient. Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Notify(n ports.Notification) {
	d.workers[d.shardIndex(n.Recipient)] <- n
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sink.Deliver(ctx, n); err != nil {
				d.log.Error().Err(err).
					Str("recipient", n.Recipient).
					Int("worker_id", id).
					Msg("notification delivery failed")
			}
		}
	}
}

// LogSink delivers notifications to the structured log. It stands in for the
// front end's toast channel until a real push transport exists.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Deliver(_ context.Context, n ports.Notification) error {
	s.log.Info().
		Str("recipient", n.Recipient).
		Str("level", n.Level).
		Msg(n.Message)
	return nil
}
