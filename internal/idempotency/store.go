package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/optbazar/storefront-api/internal/store"
)

// ErrRequestMismatch is returned when a key is reused for a different request.
var ErrRequestMismatch = errors.New("idempotency key reused with a different request")

// Store tracks idempotency keys on top of any document collection.
type Store struct {
	records   store.Collection[Record]
	ttlWindow time.Duration
	lease     time.Duration
	nowFunc   func() time.Time
}

type Option func(*Store)

// WithLease sets how long an IN_PROGRESS record is honoured before another
// caller may take it over.
func WithLease(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lease = d
		}
	}
}

// NewStore returns a Store. ttlWindow <= 0 selects DefaultTTL.
func NewStore(records store.Collection[Record], ttlWindow time.Duration, opts ...Option) *Store {
	if ttlWindow <= 0 {
		ttlWindow = DefaultTTL
	}
	s := &Store{
		records:   records,
		ttlWindow: ttlWindow,
		lease:     DefaultLease,
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) newRecord(key, orderID, requestHash string) Record {
	now := s.nowFunc()
	return Record{
		Key:         key,
		Status:      StatusInProgress,
		OrderID:     orderID,
		RequestHash: requestHash,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(s.ttlWindow).Unix(),
	}
}

// retakeable reports whether r no longer blocks a new holder. An IN_PROGRESS
// record stops blocking once its lease runs out.
func (s *Store) retakeable(r Record) bool {
	now := s.nowFunc()
	switch {
	case r.Status == StatusFailed, r.Expired(now):
		return true
	case r.Status == StatusInProgress:
		return !now.Before(r.UpdatedAt.Add(s.lease))
	}
	return false
}

// Begin reserves key with status IN_PROGRESS.
//
// It returns (record, true, nil) when the caller now owns the key, either
// because it was free or because the previous record no longer blocks it
// (see retakeable). It returns (existing, false, nil) when another request
// holds or completed it.
func (s *Store) Begin(ctx context.Context, key, orderID string) (*Record, bool, error) {
	return s.BeginRequest(ctx, key, orderID, "")
}

// BeginRequest is Begin for keys bound to a request fingerprint. When the key
// is held under a different requestHash it returns the existing record and
// ErrRequestMismatch.
func (s *Store) BeginRequest(ctx context.Context, key, orderID, requestHash string) (*Record, bool, error) {
	rec := s.newRecord(key, orderID, requestHash)
	err := s.records.Insert(ctx, rec)
	if err == nil {
		return &rec, true, nil
	}
	if !errors.Is(err, store.ErrConflict) {
		return nil, false, fmt.Errorf("reserve key: %w", err)
	}

	existing, err := s.records.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		// deleted between the insert and the read
		if err := s.records.Insert(ctx, rec); err != nil {
			return nil, false, fmt.Errorf("reserve key: %w", err)
		}
		return &rec, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load key: %w", err)
	}

	if s.retakeable(existing) {
		if err := s.records.Replace(ctx, rec); err != nil {
			return nil, false, fmt.Errorf("retake key: %w", err)
		}
		return &rec, true, nil
	}
	// records written without a fingerprint match any request
	if existing.RequestHash != "" && existing.RequestHash != requestHash {
		return &existing, false, ErrRequestMismatch
	}
	return &existing, false, nil
}

// Get returns the record for key, or (nil, nil) if there is none.
func (s *Store) Get(ctx context.Context, key string) (*Record, error) {
	rec, err := s.records.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &rec, nil
}

// MarkDone sets status to DONE and stores the response to replay.
func (s *Store) MarkDone(ctx context.Context, key, orderID, responseBody string, responseStatus int) error {
	_, err := store.Modify(ctx, s.records, key, func(r *Record) error {
		r.Status = StatusDone
		if orderID != "" {
			r.OrderID = orderID
		}
		r.ResponseBody = responseBody
		r.ResponseStatus = responseStatus
		r.UpdatedAt = s.nowFunc()
		return nil
	})
	if err != nil {
		return fmt.Errorf("mark done: %w", err)
	}
	return nil
}

// MarkFailed marks the record FAILED so the key can be retried.
func (s *Store) MarkFailed(ctx context.Context, key, note string) error {
	_, err := store.Modify(ctx, s.records, key, func(r *Record) error {
		r.Status = StatusFailed
		r.Note = note
		r.UpdatedAt = s.nowFunc()
		return nil
	})
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}
