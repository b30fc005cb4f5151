package client

import "sync"

// listState holds the last successful fetch. A failed fetch records the
// error and keeps the previous items.
type listState[T any] struct {
	mu      sync.RWMutex
	items   []T
	err     error
	loading bool
}

func (l *listState[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Err is the error of the most recent fetch, nil after a success.
func (l *listState[T]) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

func (l *listState[T]) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

func (l *listState[T]) begin() {
	l.mu.Lock()
	l.loading = true
	l.mu.Unlock()
}

func (l *listState[T]) finish(items []T, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	l.err = err
	if err == nil {
		l.items = items
	}
}
