package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/optbazar/storefront-api/internal/idempotency"
	"github.com/optbazar/storefront-api/internal/logger"
	"github.com/optbazar/storefront-api/internal/orders"
	"github.com/optbazar/storefront-api/internal/store"
)

var errInFlight = errors.New("notification already in progress")

// Processor turns order.created queue events into Telegram notifications.
// Each order is announced at most once, guarded by an idempotency key.
type Processor struct {
	orders   OrderReader
	idem     *idempotency.Store
	notifier Notifier
	metrics  Counter
}

// NewProcessor wires a processor. metrics may be nil.
func NewProcessor(orders OrderReader, idem *idempotency.Store, notifier Notifier, metrics Counter) *Processor {
	return &Processor{
		orders:   orders,
		idem:     idem,
		notifier: notifier,
		metrics:  metrics,
	}
}

// Handle processes an SQS batch. Messages that fail are reported back as
// batch item failures so only they are redelivered.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	logger.L().Info("received sqs batch", zap.Int("records", len(ev.Records)))

	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			logger.L().Error("message failed",
				zap.String("message_id", rec.MessageId),
				zap.Error(err),
			)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: rec.MessageId,
			})
		}
	}
	return resp, nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	log := logger.L().With(zap.String("layer", "worker"), zap.String("message_id", rec.MessageId))

	var ev orders.OrderCreatedEvent
	if err := json.Unmarshal([]byte(rec.Body), &ev); err != nil {
		// a malformed body never succeeds on redelivery
		log.Error("dropping malformed message", zap.Error(err), zap.String("body", rec.Body))
		return nil
	}
	if ev.EventType != orders.EventOrderCreated || ev.OrderID == "" {
		log.Warn("ignoring event", zap.String("event_type", ev.EventType), zap.String("order_id", ev.OrderID))
		return nil
	}
	log = log.With(zap.String("order_id", ev.OrderID))

	key := notifyKeyPrefix + ev.OrderID
	existing, owned, err := p.idem.Begin(ctx, key, ev.OrderID)
	if err != nil {
		return err
	}
	if !owned {
		if existing.Status == idempotency.StatusDone {
			log.Info("order already notified")
			return nil
		}
		return errInFlight
	}

	o, err := p.orders.Get(ctx, ev.OrderID)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("order deleted before notification")
		return p.idem.MarkDone(ctx, key, ev.OrderID, "", 0)
	}
	if err != nil {
		p.fail(ctx, log, key, err)
		return fmt.Errorf("load order: %w", err)
	}
	if o.Status == orders.StatusCancelled {
		log.Info("order cancelled, skipping notification")
		return p.idem.MarkDone(ctx, key, o.ID, "", 0)
	}

	if err := p.notifier.OrderCreated(ctx, o); err != nil {
		p.fail(ctx, log, key, err)
		return fmt.Errorf("notify: %w", err)
	}
	if err := p.idem.MarkDone(ctx, key, o.ID, "", 0); err != nil {
		// the message is already out; a redelivery would announce it twice
		log.Error("failed to mark notification done", zap.Error(err))
	}

	if p.metrics != nil {
		dims := map[string]string{"OrderSource": string(o.OrderSource)}
		if err := p.metrics.Count(ctx, MetricOrdersNotified, 1, dims); err != nil {
			log.Warn("failed to record metric", zap.Error(err))
		}
	}

	log.Info("order notified")
	return nil
}

func (p *Processor) fail(ctx context.Context, log *zap.Logger, key string, cause error) {
	if err := p.idem.MarkFailed(ctx, key, cause.Error()); err != nil {
		log.Error("failed to mark notification failed", zap.Error(err))
	}
}
