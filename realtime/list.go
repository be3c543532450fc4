package realtime

import (
	"sync"
	"time"
)

// Record is anything the store hands out with an identity and a server timestamp.
type Record interface {
	Key() string
	Version() time.Time
}

type overlay[T Record] struct {
	value T
	base  time.Time
}

// List is an ordered in-memory copy of a table kept current by change events.
//
// Reconciliation is by server timestamp: an event older than the held copy
// is dropped, a delete leaves a tombstone so a late update cannot bring the
// row back, and local optimistic edits sit in an overlay until a server
// event at or after their base version replaces them.
type List[T Record] struct {
	mu         sync.RWMutex
	order      []string
	items      map[string]T
	tombstones map[string]time.Time
	overlays   map[string]overlay[T]
}

func NewList[T Record]() *List[T] {
	return &List[T]{
		items:      make(map[string]T),
		tombstones: make(map[string]time.Time),
		overlays:   make(map[string]overlay[T]),
	}
}

// Reset replaces the contents with a fresh snapshot.
func (l *List[T]) Reset(snapshot []T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.order = l.order[:0]
	l.items = make(map[string]T, len(snapshot))
	l.tombstones = make(map[string]time.Time)
	l.overlays = make(map[string]overlay[T])
	for _, rec := range snapshot {
		if _, dup := l.items[rec.Key()]; dup {
			continue
		}
		l.order = append(l.order, rec.Key())
		l.items[rec.Key()] = rec
	}
}

// Upsert applies an INSERT or UPDATE. It reports whether the list changed.
func (l *List[T]) Upsert(rec T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := rec.Key()
	if deletedAt, ok := l.tombstones[key]; ok {
		if !rec.Version().After(deletedAt) {
			return false
		}
		delete(l.tombstones, key)
	}

	if held, ok := l.items[key]; ok {
		if rec.Version().Before(held.Version()) {
			return false
		}
		l.items[key] = rec
	} else {
		l.order = append(l.order, key)
		l.items[key] = rec
	}

	if ov, ok := l.overlays[key]; ok && !rec.Version().Before(ov.base) {
		delete(l.overlays, key)
	}
	return true
}

// Remove applies a DELETE observed at the given server time.
func (l *List[T]) Remove(key string, at time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if held, ok := l.items[key]; ok && at.Before(held.Version()) {
		return false
	}
	if prev, ok := l.tombstones[key]; !ok || at.After(prev) {
		l.tombstones[key] = at
	}
	delete(l.overlays, key)

	if _, ok := l.items[key]; !ok {
		return false
	}
	delete(l.items, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// ApplyOptimistic shows a local edit until the server confirms or contradicts it.
// It returns false when the record is unknown.
func (l *List[T]) ApplyOptimistic(rec T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	held, ok := l.items[rec.Key()]
	if !ok {
		return false
	}
	l.overlays[rec.Key()] = overlay[T]{value: rec, base: held.Version()}
	return true
}

// Rollback discards the local edit and restores the server copy.
func (l *List[T]) Rollback(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.overlays, key)
}

func (l *List[T]) Get(key string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if ov, ok := l.overlays[key]; ok {
		return ov.value, true
	}
	rec, ok := l.items[key]
	return rec, ok
}

// Items returns the visible rows in arrival order.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]T, 0, len(l.order))
	for _, key := range l.order {
		if ov, ok := l.overlays[key]; ok {
			out = append(out, ov.value)
			continue
		}
		out = append(out, l.items[key])
	}
	return out
}

func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}

// PruneTombstones forgets deletes older than cutoff.
func (l *List[T]) PruneTombstones(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for key, at := range l.tombstones {
		if at.Before(cutoff) {
			delete(l.tombstones, key)
			n++
		}
	}
	return n
}
