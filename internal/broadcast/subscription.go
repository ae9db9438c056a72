package broadcast

import "sync"

// Subscription is one reader's view of a publisher.
type Subscription[T any] struct {
	// C delivers values. It is closed after Unsubscribe or when the
	// publisher closes.
	C <-chan T

	once   sync.Once
	cancel func()
}

// Unsubscribe stops delivery. It is safe to call more than once.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(s.cancel)
}
