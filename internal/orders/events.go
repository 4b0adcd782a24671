package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const EventOrderCreated = "order.created"

// OrderCreatedEvent is the message published to the orders queue.
type OrderCreatedEvent struct {
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	TotalAmount float64   `json:"total_amount"`
	OrderSource Source    `json:"order_source"`
	CreatedAt   time.Time `json:"created_at"`
}

// MessageSender delivers a raw message body with string attributes.
type MessageSender interface {
	Send(ctx context.Context, body string, attributes map[string]string) error
}

// QueuePublisher publishes OrderCreatedEvent messages through a MessageSender.
type QueuePublisher struct {
	sender MessageSender
}

func NewQueuePublisher(sender MessageSender) *QueuePublisher {
	return &QueuePublisher{sender: sender}
}

func (p *QueuePublisher) OrderCreated(ctx context.Context, o Order) error {
	ev := OrderCreatedEvent{
		EventType:   EventOrderCreated,
		OrderID:     o.ID,
		TotalAmount: o.TotalAmount,
		OrderSource: o.OrderSource,
		CreatedAt:   o.CreatedAt,
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.sender.Send(ctx, string(body), map[string]string{
		"event_type": EventOrderCreated,
		"order_id":   o.ID,
	})
}
