package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
	"github.com/couchcryptid/zhvi-dashboard/internal/observability"
)

// BatchLoader writes multiple snapshot events to the sink.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.SnapshotEvent) error
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
	// finalFlushTimeout bounds the last write attempt after shutdown.
	finalFlushTimeout = 5 * time.Second
)

// EventPublisher buffers snapshot events in a bounded queue and writes them
// in batches from its own goroutine. Publish never blocks: when the queue is
// full the event is dropped and counted.
type EventPublisher struct {
	loader        BatchLoader
	logger        *slog.Logger
	metrics       *observability.Metrics
	queue         chan domain.SnapshotEvent
	batchSize     int
	flushInterval time.Duration
}

// NewEventPublisher creates a publisher. queueSize bounds the number of
// events waiting to be written.
func NewEventPublisher(l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int, flushInterval time.Duration, queueSize int) *EventPublisher {
	return &EventPublisher{
		loader:        l,
		logger:        logger,
		metrics:       metrics,
		queue:         make(chan domain.SnapshotEvent, max(queueSize, 1)),
		batchSize:     max(batchSize, 1),
		flushInterval: flushInterval,
	}
}

// Publish enqueues ev for the next batch.
func (p *EventPublisher) Publish(ev domain.SnapshotEvent) {
	select {
	case p.queue <- ev:
	default:
		p.metrics.EventsDropped.Inc()
		p.logger.Warn("publish queue full, dropping snapshot event", "key", ev.Key(), "session_id", ev.SessionID)
	}
}

// Run drains the queue until the context is cancelled, then makes one last
// attempt to write whatever was collected.
func (p *EventPublisher) Run(ctx context.Context) error {
	p.logger.Info("event publisher started", "batch_size", p.batchSize, "flush_interval", p.flushInterval)
	p.metrics.PublisherRunning.Set(1)
	defer p.metrics.PublisherRunning.Set(0)

	backoff := initialBackoff
	for {
		batch, open := p.collectBatch(ctx)
		if !open {
			p.logger.Info("event publisher stopping", "reason", ctx.Err(), "pending", len(batch))
			p.finalFlush(batch)
			return nil
		}
		if len(batch) == 0 {
			continue
		}
		if !p.loadWithRetry(ctx, batch, &backoff) {
			p.finalFlush(batch)
			return nil
		}
	}
}

// collectBatch waits for up to batchSize events or one flush interval,
// whichever comes first. Returns false once the context is done.
func (p *EventPublisher) collectBatch(ctx context.Context) ([]domain.SnapshotEvent, bool) {
	batch := make([]domain.SnapshotEvent, 0, p.batchSize)
	timer := time.NewTimer(p.flushInterval)
	defer timer.Stop()

	for len(batch) < p.batchSize {
		select {
		case <-ctx.Done():
			return p.drain(batch), false
		case ev := <-p.queue:
			batch = append(batch, ev)
		case <-timer.C:
			return batch, true
		}
	}
	return batch, true
}

// drain moves whatever is queued right now into batch.
func (p *EventPublisher) drain(batch []domain.SnapshotEvent) []domain.SnapshotEvent {
	for {
		select {
		case ev := <-p.queue:
			batch = append(batch, ev)
		default:
			return batch
		}
	}
}

// loadWithRetry writes batch, backing off between failures. Returns false if
// the publisher should stop.
func (p *EventPublisher) loadWithRetry(ctx context.Context, batch []domain.SnapshotEvent, backoff *time.Duration) bool {
	for {
		err := p.loader.LoadBatch(ctx, batch)
		if err == nil {
			p.metrics.EventsPublished.Add(float64(len(batch)))
			p.metrics.PublishBatchSize.Observe(float64(len(batch)))
			*backoff = initialBackoff
			return true
		}
		p.metrics.PublishErrors.Inc()
		p.logger.Error("load batch failed", "error", err, "batch_size", len(batch))
		if !p.backoffOrStop(ctx, backoff) {
			return false
		}
	}
}

func (p *EventPublisher) finalFlush(batch []domain.SnapshotEvent) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), finalFlushTimeout)
	defer cancel()
	if err := p.loader.LoadBatch(ctx, batch); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("final flush failed, events lost", "error", err, "batch_size", len(batch))
		return
	}
	p.metrics.EventsPublished.Add(float64(len(batch)))
	p.metrics.PublishBatchSize.Observe(float64(len(batch)))
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the publisher should stop.
func (p *EventPublisher) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

func nextBackoff(current, limit time.Duration) time.Duration {
	next := current * 2
	if next > limit {
		return limit
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
