package orders

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/optbazar/storefront-api/internal/logger"
	"github.com/optbazar/storefront-api/internal/store"
)

type fakePublisher struct {
	events []Order
	err    error
}

func (f *fakePublisher) OrderCreated(ctx context.Context, o Order) error {
	f.events = append(f.events, o)
	return f.err
}

func sampleOrder() Order {
	return Order{
		Items: []Item{
			{ProductID: "p1", Name: "Огурцы", Price: 50, Quantity: 10},
		},
		CustomerInfo: Customer{Name: "Иван", Phone: "+79990000000", Address: "Новосибирск"},
		TotalAmount:  500,
	}
}

func newTestService(pub EventPublisher) (*Service, *time.Time) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := NewService(store.NewMemoryCollection[Order](), pub)
	s.nowFunc = func() time.Time { return now }
	return s, &now
}

func TestCreate_Defaults(t *testing.T) {
	pub := &fakePublisher{}
	s, _ := newTestService(pub)

	o, err := s.Create(context.Background(), sampleOrder())
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, StatusAccepted, o.Status)
	assert.Equal(t, SourceWeb, o.OrderSource)
	assert.Equal(t, 500.0, o.TotalAmount)
	require.Len(t, pub.events, 1)
	assert.Equal(t, o.ID, pub.events[0].ID)
}

func TestCreate_UnknownSourceFallsBackToWeb(t *testing.T) {
	s, _ := newTestService(nil)

	o := sampleOrder()
	o.OrderSource = "fax"
	created, err := s.Create(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, SourceWeb, created.OrderSource)

	o.OrderSource = SourceTelegram
	created, err = s.Create(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, SourceTelegram, created.OrderSource)
}

func TestCreate_TotalMismatchIsEchoedAndLogged(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	s, _ := newTestService(nil)
	in := sampleOrder()
	in.TotalAmount = 1

	o, err := s.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1.0, o.TotalAmount)

	logs := observed.FilterMessage("order total does not match items").All()
	assert.Len(t, logs, 1)
}

func TestCreate_PublishFailureDoesNotFailOrder(t *testing.T) {
	s, _ := newTestService(&fakePublisher{err: errors.New("queue down")})

	o, err := s.Create(context.Background(), sampleOrder())
	require.NoError(t, err)

	got, err := s.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestList_NewestFirst(t *testing.T) {
	s, now := newTestService(nil)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		t0 := now.Add(time.Duration(i) * time.Minute)
		s.nowFunc = func() time.Time { return t0 }
		o, err := s.Create(ctx, sampleOrder())
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestUpdateStatus(t *testing.T) {
	s, _ := newTestService(nil)
	ctx := context.Background()

	o, err := s.Create(ctx, sampleOrder())
	require.NoError(t, err)

	// any status may follow any other
	for _, st := range []Status{StatusCompleted, StatusAccepted, StatusCancelled} {
		updated, err := s.UpdateStatus(ctx, o.ID, st)
		require.NoError(t, err)
		assert.Equal(t, st, updated.Status)
		assert.Equal(t, o.Items, updated.Items)
	}

	_, err = s.UpdateStatus(ctx, o.ID, Status("Shipped"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = s.UpdateStatus(ctx, "missing", StatusCompleted)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBulkDelete(t *testing.T) {
	s, _ := newTestService(nil)
	ctx := context.Background()

	a, _ := s.Create(ctx, sampleOrder())
	b, _ := s.Create(ctx, sampleOrder())
	c, _ := s.Create(ctx, sampleOrder())

	n, err := s.BulkDelete(ctx, []string{a.ID, c.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, _ := s.List(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)
}

func TestParseStatus(t *testing.T) {
	for _, st := range Statuses {
		got, ok := ParseStatus(string(st))
		assert.True(t, ok)
		assert.Equal(t, st, got)
	}
	_, ok := ParseStatus("")
	assert.False(t, ok)
	_, ok = ParseStatus("принят")
	assert.False(t, ok)
}

func TestOrder_MarshalJSON(t *testing.T) {
	o := sampleOrder()
	o.ID = "abc"

	raw, err := json.Marshal(o)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "abc", m["id"])
	assert.Equal(t, "abc", m["_id"])
	assert.Contains(t, m, "customerInfo")
	assert.Equal(t, "+79990000000", m["clientPhone"])
	assert.Equal(t, "Иван", m["clientName"])
	assert.Equal(t, 500.0, m["totalAmount"])
}

func TestTotalsMatch(t *testing.T) {
	o := Order{Items: []Item{{Price: 0.1, Quantity: 3}}, TotalAmount: 0.3}
	assert.True(t, TotalsMatch(o))
	o.TotalAmount = 0.4
	assert.False(t, TotalsMatch(o))
}
