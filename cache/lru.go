package cache

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// LRU is a fixed-capacity map that evicts its least recently used entry.
// Get and Contains count as uses. A zero capacity retains nothing.
// It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	items    *simplelru.LRU[K, V] // nil when capacity is 0
	capacity int
}

// NewLRU creates an LRU holding at most capacity entries.
// A negative capacity is treated as 0.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	l := &LRU[K, V]{capacity: max(capacity, 0)}
	if l.capacity > 0 {
		// simplelru only rejects non-positive sizes
		items, err := simplelru.NewLRU[K, V](l.capacity, nil)
		if err != nil {
			panic(err)
		}
		l.items = items
	}
	return l
}

// Get returns the value for key and marks it most recently used.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	if l.items == nil {
		var zero V
		return zero, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items.Get(key)
}

// Contains reports whether key is present and marks it most recently used.
func (l *LRU[K, V]) Contains(key K) bool {
	_, ok := l.Get(key)
	return ok
}

// Add inserts or replaces key, evicting the least recently used entry when
// full. It reports whether an eviction happened.
func (l *LRU[K, V]) Add(key K, value V) (evicted bool) {
	if l.items == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items.Add(key, value)
}

// Remove deletes key and reports whether it was present.
func (l *LRU[K, V]) Remove(key K) bool {
	if l.items == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items.Remove(key)
}

// Purge empties the map and returns how many entries it held.
func (l *LRU[K, V]) Purge() int {
	if l.items == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	n := l.items.Len()
	l.items.Purge()
	return n
}

// Keys returns the keys from least to most recently used.
func (l *LRU[K, V]) Keys() []K {
	if l.items == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items.Keys()
}

// Len returns the number of entries.
func (l *LRU[K, V]) Len() int {
	if l.items == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items.Len()
}

// Cap returns the capacity fixed at construction.
func (l *LRU[K, V]) Cap() int {
	return l.capacity
}
