// Package pipeline delivers raised alerts to a sink in the background, so
// request handlers never wait on the broker.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/smart-city-service/internal/domain"
	"github.com/couchcryptid/smart-city-service/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
	maxAttempts    = 5
	flushTimeout   = 5 * time.Second
)

// BatchLoader writes a batch of alert events to the destination.
type BatchLoader interface {
	Publish(ctx context.Context, events []domain.AlertEvent) error
}

// Pipeline queues alert events and delivers them in batches with retries.
// It satisfies the same Publish contract as its loader, so it can sit
// between the service and the sink.
type Pipeline struct {
	queue     chan domain.AlertEvent
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	batchSize int

	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// New creates a Pipeline holding up to queueSize undelivered alerts.
func New(loader BatchLoader, logger *slog.Logger, metrics *observability.Metrics, queueSize, batchSize int) *Pipeline {
	return &Pipeline{
		queue:          make(chan domain.AlertEvent, max(queueSize, 1)),
		loader:         loader,
		logger:         logger,
		metrics:        metrics,
		batchSize:      max(batchSize, 1),
		initialBackoff: initialBackoff,
		maxBackoff:     maxBackoff,
	}
}

// Publish enqueues events without blocking. Events that do not fit are
// dropped, counted, and reported in the returned error.
func (p *Pipeline) Publish(_ context.Context, events []domain.AlertEvent) error {
	dropped := 0
	for _, e := range events {
		select {
		case p.queue <- e:
		default:
			dropped++
		}
	}
	p.metrics.AlertQueueDepth.Set(float64(len(p.queue)))
	if dropped > 0 {
		p.metrics.AlertDeliveries.WithLabelValues("dropped").Add(float64(dropped))
		return fmt.Errorf("alert queue full: dropped %d of %d", dropped, len(events))
	}
	return nil
}

// Run delivers queued alerts until the context is cancelled, then makes one
// bounded attempt to flush what is left.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("alert pipeline started", "batch_size", p.batchSize, "queue_size", cap(p.queue))
	p.metrics.AlertPipelineRunning.Set(1)
	defer p.metrics.AlertPipelineRunning.Set(0)

	for {
		batch, ok := p.nextBatch(ctx)
		if !ok {
			p.logger.Info("alert pipeline stopping", "reason", ctx.Err(), "pending", len(p.queue))
			p.flush(ctx)
			return nil
		}
		p.deliver(ctx, batch)
	}
}

// nextBatch blocks for the first event, then takes whatever else is already
// queued up to batchSize. Returns false once the context is cancelled.
func (p *Pipeline) nextBatch(ctx context.Context) ([]domain.AlertEvent, bool) {
	var first domain.AlertEvent
	select {
	case <-ctx.Done():
		return nil, false
	case first = <-p.queue:
	}

	batch := append(make([]domain.AlertEvent, 0, p.batchSize), first)
	for len(batch) < p.batchSize {
		select {
		case e := <-p.queue:
			batch = append(batch, e)
		default:
			p.metrics.AlertQueueDepth.Set(float64(len(p.queue)))
			return batch, true
		}
	}
	p.metrics.AlertQueueDepth.Set(float64(len(p.queue)))
	return batch, true
}

// deliver publishes one batch, retrying with exponential backoff. The batch
// is dropped after maxAttempts failures or when the context ends; shutdown
// leftovers are handled by flush.
func (p *Pipeline) deliver(ctx context.Context, batch []domain.AlertEvent) {
	p.metrics.AlertBatchSize.Observe(float64(len(batch)))
	backoff := p.initialBackoff

	for attempt := 1; ; attempt++ {
		err := p.loader.Publish(ctx, batch)
		if err == nil {
			p.metrics.AlertDeliveries.WithLabelValues("delivered").Add(float64(len(batch)))
			return
		}
		if attempt >= maxAttempts || ctx.Err() != nil {
			p.logger.Error("alert batch dropped", "error", err, "batch_size", len(batch), "attempts", attempt)
			p.metrics.AlertDeliveries.WithLabelValues("dropped").Add(float64(len(batch)))
			return
		}

		p.logger.Warn("alert batch failed, retrying", "error", err, "batch_size", len(batch), "backoff", backoff)
		p.metrics.AlertDeliveries.WithLabelValues("retried").Add(float64(len(batch)))
		if !retry.SleepWithContext(ctx, backoff) {
			p.metrics.AlertDeliveries.WithLabelValues("dropped").Add(float64(len(batch)))
			return
		}
		backoff = retry.NextBackoff(backoff, p.maxBackoff)
	}
}

// flush drains the queue in one publish per batch, detached from the
// cancelled run context but bounded by flushTimeout.
func (p *Pipeline) flush(ctx context.Context) {
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
	defer cancel()

	for len(p.queue) > 0 {
		batch, ok := p.nextBatch(flushCtx)
		if !ok {
			p.logger.Error("alert flush timed out", "pending", len(p.queue))
			p.metrics.AlertDeliveries.WithLabelValues("dropped").Add(float64(len(p.queue)))
			return
		}
		if err := p.loader.Publish(flushCtx, batch); err != nil {
			p.logger.Error("alert flush failed", "error", err, "batch_size", len(batch), "pending", len(p.queue))
			p.metrics.AlertDeliveries.WithLabelValues("dropped").Add(float64(len(batch) + len(p.queue)))
			return
		}
		p.metrics.AlertDeliveries.WithLabelValues("delivered").Add(float64(len(batch)))
	}
}
