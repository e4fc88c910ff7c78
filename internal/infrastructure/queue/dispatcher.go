package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/notekeep/notes-system/internal/core/domain"
	"github.com/notekeep/notes-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// DropCounter is notified every time an event is discarded because its
// worker queue is full.
type DropCounter interface {
	Inc()
}

// Dispatcher routes audit events to a fixed set of workers using
// consistent hashing on the user id, so the events of one user are
// stored in the order they were recorded.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	service ports.AuditService
	dropped DropCounter
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. dropped may be nil.
func NewDispatcher(numWorkers int, service ports.AuditService, dropped DropCounter, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		service: service,
		dropped: dropped,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record hands an event to the worker responsible for its user. It never
// blocks: when that worker's queue is full the event is dropped.
func (d *Dispatcher) Record(event domain.AuditEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	select {
	case d.workers[d.shardIndex(shardKey(event))] <- event:
	default:
		if d.dropped != nil {
			d.dropped.Inc()
		}
		d.log.Warn().
			Str("action", string(event.Action)).
			Str("user_id", event.UserID).
			Msg("audit queue full, event dropped")
	}
}

func shardKey(event domain.AuditEvent) string {
	if event.UserID != "" {
		return event.UserID
	}
	return event.Username
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("action", string(event.Action)).
					Str("user_id", event.UserID).
					Int("worker_id", id).
					Msg("audit event processing failed")
			}
		}
	}
}
