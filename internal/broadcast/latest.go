package broadcast

import "sync"

// Latest publishes state where only the newest value matters.
type Latest[T any] struct {
	mu     sync.Mutex
	value  T
	has    bool
	subs   map[uint64]chan T
	nextID uint64
	closed bool
}

// NewLatest returns a publisher with no current value.
func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{subs: make(map[uint64]chan T)}
}

// NewLatestWith returns a publisher whose current value is initial.
func NewLatestWith[T any](initial T) *Latest[T] {
	l := NewLatest[T]()
	l.value, l.has = initial, true
	return l
}

// Publish replaces the current value and offers it to every subscriber,
// displacing any value a subscriber has not read yet.
func (l *Latest[T]) Publish(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.value, l.has = v, true
	for _, ch := range l.subs {
		offer(ch, v)
	}
}

// Value returns the current value and whether one was ever published.
func (l *Latest[T]) Value() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.has
}

// Subscribe registers a reader. The current value, if any, is delivered
// first.
func (l *Latest[T]) Subscribe() *Subscription[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan T, 1)
	if l.closed {
		close(ch)
		return &Subscription[T]{C: ch, cancel: func() {}}
	}
	if l.has {
		ch <- l.value
	}
	id := l.nextID
	l.nextID++
	l.subs[id] = ch
	return &Subscription[T]{C: ch, cancel: func() { l.unsubscribe(id) }}
}

func (l *Latest[T]) unsubscribe(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ch, ok := l.subs[id]; ok {
		delete(l.subs, id)
		close(ch)
	}
}

// Close closes every subscriber channel. Later publishes are ignored.
func (l *Latest[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for id, ch := range l.subs {
		delete(l.subs, id)
		close(ch)
	}
}

// offer puts v into a single-slot channel, evicting an unread value.
// Callers hold the publisher lock, so they are the only sender.
func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
