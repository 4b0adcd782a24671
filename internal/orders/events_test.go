package orders

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	body  string
	attrs map[string]string
}

func (c *captureSender) Send(ctx context.Context, body string, attrs map[string]string) error {
	c.body = body
	c.attrs = attrs
	return nil
}

func TestQueuePublisher_OrderCreated(t *testing.T) {
	sender := &captureSender{}
	p := NewQueuePublisher(sender)
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	err := p.OrderCreated(context.Background(), Order{
		ID:          "o-1",
		TotalAmount: 500,
		OrderSource: SourceTelegram,
		CreatedAt:   created,
	})
	require.NoError(t, err)

	var ev OrderCreatedEvent
	require.NoError(t, json.Unmarshal([]byte(sender.body), &ev))
	assert.Equal(t, EventOrderCreated, ev.EventType)
	assert.Equal(t, "o-1", ev.OrderID)
	assert.Equal(t, SourceTelegram, ev.OrderSource)
	assert.True(t, created.Equal(ev.CreatedAt))
	assert.Equal(t, "o-1", sender.attrs["order_id"])
}
