// Package history keeps a bounded list of recent recognitions.
package history

import (
	"context"
	"sync"

	"github.com/yatralens/backend/internal/domain"
)

const defaultCapacity = 50

// MemoryHistory is a fixed-capacity ring of recognitions, newest first on read
type MemoryHistory struct {
	mu       sync.RWMutex
	items    []*domain.Recognition
	next     int
	full     bool
	capacity int
}

// NewMemoryHistory creates a history holding at most capacity entries
func NewMemoryHistory(capacity int) *MemoryHistory {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &MemoryHistory{
		items:    make([]*domain.Recognition, capacity),
		capacity: capacity,
	}
}

// Add records a recognition, overwriting the oldest when full
func (h *MemoryHistory) Add(ctx context.Context, recognition *domain.Recognition) error {
	if recognition == nil {
		return domain.ErrInvalidRequest
	}

	copied := *recognition

	h.mu.Lock()
	defer h.mu.Unlock()

	h.items[h.next] = &copied
	h.next = (h.next + 1) % h.capacity
	if h.next == 0 {
		h.full = true
	}
	return nil
}

// Recent returns up to limit recognitions, newest first. limit <= 0 means all.
func (h *MemoryHistory) Recent(ctx context.Context, limit int) ([]*domain.Recognition, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	size := h.next
	if h.full {
		size = h.capacity
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]*domain.Recognition, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (h.next - 1 - i + h.capacity) % h.capacity
		copied := *h.items[idx]
		out = append(out, &copied)
	}
	return out, nil
}

// Len returns the number of stored recognitions
func (h *MemoryHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.full {
		return h.capacity
	}
	return h.next
}
