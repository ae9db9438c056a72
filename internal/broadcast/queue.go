package broadcast

import "sync"

// Queue publishes events that every subscriber must see, in order.
type Queue[T any] struct {
	mu     sync.Mutex
	subs   map[uint64]*queueSub[T]
	nextID uint64
	closed bool
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{subs: make(map[uint64]*queueSub[T])}
}

// Publish appends v to every subscriber's queue. It never blocks on readers.
func (q *Queue[T]) Publish(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	for _, s := range q.subs {
		s.push(v)
	}
}

// Subscribe registers a reader that receives every value published after
// this call.
func (q *Queue[T]) Subscribe() *Subscription[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make(chan T)
	if q.closed {
		close(out)
		return &Subscription[T]{C: out, cancel: func() {}}
	}
	s := &queueSub[T]{
		out:    out,
		wake:   make(chan struct{}, 1),
		cancel: make(chan struct{}),
	}
	id := q.nextID
	q.nextID++
	q.subs[id] = s
	go s.pump()
	return &Subscription[T]{C: out, cancel: func() { q.unsubscribe(id) }}
}

func (q *Queue[T]) unsubscribe(id uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if s, ok := q.subs[id]; ok {
		delete(q.subs, id)
		close(s.cancel)
	}
}

// Close stops accepting values. Subscribers still receive what was queued
// before their channel closes.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	for id, s := range q.subs {
		delete(q.subs, id)
		s.finish()
	}
}

type queueSub[T any] struct {
	mu     sync.Mutex
	buf    []T
	done   bool
	out    chan T
	wake   chan struct{}
	cancel chan struct{}
}

func (s *queueSub[T]) push(v T) {
	s.mu.Lock()
	s.buf = append(s.buf, v)
	s.mu.Unlock()
	s.signal()
}

func (s *queueSub[T]) finish() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
	s.signal()
}

func (s *queueSub[T]) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *queueSub[T]) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.buf) == 0 {
			done := s.done
			s.mu.Unlock()
			if done {
				return
			}
			select {
			case <-s.wake:
				continue
			case <-s.cancel:
				return
			}
		}
		v := s.buf[0]
		var zero T
		s.buf[0] = zero
		s.buf = s.buf[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.cancel:
			return
		}
	}
}
