package panel

import "sync"

// handlers calls its listeners in registration order.
type handlers[T any] struct {
	mu     sync.Mutex
	nextID int
	list   []handler[T]
}

type handler[T any] struct {
	id int
	fn func(T)
}

func (h *handlers[T]) add(fn func(T)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.list = append(h.list, handler[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *handlers[T]) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, l := range h.list {
		if l.id == id {
			h.list = append(h.list[:i:i], h.list[i+1:]...)
			return
		}
	}
}

func (h *handlers[T]) fire(arg T) {
	h.mu.Lock()
	list := append([]handler[T](nil), h.list...)
	h.mu.Unlock()

	for _, l := range list {
		l.fn(arg)
	}
}

// eventBus dispatches named viewer events to their listeners.
type eventBus struct {
	mu     sync.Mutex
	events map[string]*handlers[struct{}]
}

func (b *eventBus) get(event string) *handlers[struct{}] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.events == nil {
		b.events = make(map[string]*handlers[struct{}])
	}
	h, ok := b.events[event]
	if !ok {
		h = &handlers[struct{}]{}
		b.events[event] = h
	}
	return h
}

func (b *eventBus) on(event string, fn func()) func() {
	return b.get(event).add(func(struct{}) { fn() })
}

func (b *eventBus) dispatch(event string) {
	b.get(event).fire(struct{}{})
}
