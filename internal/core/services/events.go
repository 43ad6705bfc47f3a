package services

import "sync"

// emitter fans an event out to its listeners in subscription order.
type emitter[T any] struct {
	mu        sync.Mutex
	nextID    int
	listeners []listener[T]
}

type listener[T any] struct {
	id int
	fn func(T)
}

// subscribe registers fn and returns a function removing it again.
func (e *emitter[T]) subscribe(fn func(T)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { e.remove(id) })
	}
}

func (e *emitter[T]) remove(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// fire calls every listener with event. Listeners run outside the lock so
// they may subscribe or unsubscribe.
func (e *emitter[T]) fire(event T) {
	e.mu.Lock()
	snapshot := make([]listener[T], len(e.listeners))
	copy(snapshot, e.listeners)
	e.mu.Unlock()

	for _, l := range snapshot {
		l.fn(event)
	}
}

// clear drops every listener.
func (e *emitter[T]) clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = nil
}

// subscriptions is the set of resources owned by one session. Releasing it
// tears everything down once, in reverse acquisition order.
type subscriptions struct {
	mu       sync.Mutex
	fns      []func()
	released bool
}

// add takes ownership of release. If the set was already released the
// resource is released immediately.
func (s *subscriptions) add(release func()) {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		release()
		return
	}
	s.fns = append(s.fns, release)
	s.mu.Unlock()
}

// release runs every registered release function exactly once.
func (s *subscriptions) release() {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	s.released = true
	fns := s.fns
	s.fns = nil
	s.mu.Unlock()

	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
