package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryCollection keeps items in insertion order in process memory.
type MemoryCollection[T Entity] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

func NewMemoryCollection[T Entity]() *MemoryCollection[T] {
	return &MemoryCollection[T]{items: make(map[string]T)}
}

func (m *MemoryCollection[T]) NewID() string {
	return uuid.NewString()
}

func (m *MemoryCollection[T]) Insert(ctx context.Context, item T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := item.EntityID()
	if _, ok := m.items[id]; ok {
		return ErrConflict
	}
	m.items[id] = item
	m.order = append(m.order, id)
	return nil
}

func (m *MemoryCollection[T]) Get(ctx context.Context, id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return item, nil
}

func (m *MemoryCollection[T]) List(ctx context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out, nil
}

func (m *MemoryCollection[T]) Replace(ctx context.Context, item T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := item.EntityID()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	m.items[id] = item
	return nil
}

func (m *MemoryCollection[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.remove(id) {
		return ErrNotFound
	}
	return nil
}

func (m *MemoryCollection[T]) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, id := range ids {
		if m.remove(id) {
			n++
		}
	}
	return n, nil
}

// remove must be called with mu held.
func (m *MemoryCollection[T]) remove(id string) bool {
	if _, ok := m.items[id]; !ok {
		return false
	}
	delete(m.items, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}
