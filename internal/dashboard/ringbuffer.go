package dashboard

import "sync"

const defaultBufferSize = 1000

// RingBuffer is a thread-safe circular buffer that keeps the newest
// items once full.
type RingBuffer[T any] struct {
	mu    sync.RWMutex
	items []T
	head  int
	count int
}

// NewRingBuffer creates a ring buffer with the given capacity.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		capacity = defaultBufferSize
	}
	return &RingBuffer[T]{items: make([]T, capacity)}
}

// Add inserts an item, overwriting the oldest if full.
func (rb *RingBuffer[T]) Add(item T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	size := len(rb.items)
	if rb.count == size {
		rb.items[rb.head] = item
		rb.head = (rb.head + 1) % size
		return
	}
	rb.items[(rb.head+rb.count)%size] = item
	rb.count++
}

// All returns all items in insertion order (oldest first).
func (rb *RingBuffer[T]) All() []T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	result := make([]T, rb.count)
	for i := range result {
		result[i] = rb.items[(rb.head+i)%len(rb.items)]
	}
	return result
}

// Last returns up to n of the newest items, oldest first.
func (rb *RingBuffer[T]) Last(n int) []T {
	all := rb.All()
	if n <= 0 || n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}

// Len returns the number of items in the buffer.
func (rb *RingBuffer[T]) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count
}
