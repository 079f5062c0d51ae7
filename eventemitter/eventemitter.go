// Package eventemitter dispatches typed events to registered listeners.
//
// Listeners run synchronously, in registration order, on the goroutine that
// calls Emit. A listener that must not block should start its own goroutine.
//
// Example:
//
//	e := eventemitter.New[[]string]()
//	token := e.AddListener("put", func(ctx context.Context, ids []string) { fmt.Println(ids) })
//	e.Emit(ctx, "put", []string{"a"}) // Output: [a]
//	e.RemoveListener("put", token)
package eventemitter

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
)

// ListenerToken identifies a registered listener.
type ListenerToken uint64

// Listener handles one event payload.
type Listener[T any] func(ctx context.Context, payload T)

type entry[T any] struct {
	token    ListenerToken
	listener Listener[T]
}

// Emitter holds listeners for any number of named events. It is safe for
// concurrent use.
type Emitter[T any] struct {
	mu        sync.RWMutex
	events    map[string][]entry[T]
	lastToken atomic.Uint64
}

func New[T any]() *Emitter[T] {
	return &Emitter[T]{events: make(map[string][]entry[T])}
}

// AddListener registers l for event and returns a token for removing it.
func (e *Emitter[T]) AddListener(event string, l Listener[T]) ListenerToken {
	token := ListenerToken(e.lastToken.Add(1))
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events[event] = append(e.events[event], entry[T]{token: token, listener: l})
	return token
}

// RemoveListener unregisters the listener with token from event.
func (e *Emitter[T]) RemoveListener(event string, token ListenerToken) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	entries := e.events[event]
	i := slices.IndexFunc(entries, func(en entry[T]) bool { return en.token == token })
	if i < 0 {
		return false
	}
	// Clone so a concurrent Emit keeps iterating its own snapshot.
	entries = slices.Delete(slices.Clone(entries), i, i+1)
	if len(entries) == 0 {
		delete(e.events, event)
	} else {
		e.events[event] = entries
	}
	return true
}

// RemoveAllListeners unregisters every listener of event.
func (e *Emitter[T]) RemoveAllListeners(event string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.events[event]; !ok {
		return false
	}
	delete(e.events, event)
	return true
}

// ListenerCount returns the number of listeners registered for event.
func (e *Emitter[T]) ListenerCount(event string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.events[event])
}

// Emit calls every listener of event with payload and reports whether there
// were any. Listeners may add or remove listeners; changes apply to the next
// Emit.
func (e *Emitter[T]) Emit(ctx context.Context, event string, payload T) bool {
	e.mu.RLock()
	entries := e.events[event]
	e.mu.RUnlock()
	if len(entries) == 0 {
		return false
	}
	for _, en := range entries {
		en.listener(ctx, payload)
	}
	return true
}

// Target is an emitter bound to a single event name.
type Target[T any] struct {
	emitter *Emitter[T]
	event   string
}

func NewTarget[T any](event string) *Target[T] {
	return &Target[T]{emitter: New[T](), event: event}
}

func (t *Target[T]) EventName() string {
	return t.event
}

func (t *Target[T]) AddListener(l Listener[T]) ListenerToken {
	return t.emitter.AddListener(t.event, l)
}

func (t *Target[T]) RemoveListener(token ListenerToken) bool {
	return t.emitter.RemoveListener(t.event, token)
}

func (t *Target[T]) RemoveAllListeners() bool {
	return t.emitter.RemoveAllListeners(t.event)
}

func (t *Target[T]) ListenerCount() int {
	return t.emitter.ListenerCount(t.event)
}

func (t *Target[T]) Emit(ctx context.Context, payload T) bool {
	return t.emitter.Emit(ctx, t.event, payload)
}
