// Package realtime fans newly created records out to in-process subscribers
// and websocket clients.
package realtime

import (
	"sync"
)

// Feed delivers every published value to the subscribers registered at
// publish time. Callbacks run on the publisher's goroutine and must not block.
type Feed[T any] struct {
	mu   sync.RWMutex
	next uint64
	subs map[uint64]func(T)
}

func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: map[uint64]func(T){}}
}

// Subscribe registers fn and returns a disposer that detaches it. The
// disposer may be called any number of times.
func (f *Feed[T]) Subscribe(fn func(T)) (dispose func()) {
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

func (f *Feed[T]) Publish(v T) {
	f.mu.RLock()
	targets := make([]func(T), 0, len(f.subs))
	for _, fn := range f.subs {
		targets = append(targets, fn)
	}
	f.mu.RUnlock()

	for _, fn := range targets {
		fn(v)
	}
}

func (f *Feed[T]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
