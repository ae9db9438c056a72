package broadcast

import (
	"testing"
	"time"
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed unexpectedly")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for value")
	}
	var zero T
	return zero
}

func expectClosed[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for close")
	}
}

func TestLatestKeepsOnlyNewest(t *testing.T) {
	l := NewLatest[int]()
	sub := l.Subscribe()
	defer sub.Unsubscribe()

	for i := 1; i <= 5; i++ {
		l.Publish(i)
	}
	if got := recv(t, sub.C); got != 5 {
		t.Fatalf("expected newest value 5, got %d", got)
	}
	select {
	case v := <-sub.C:
		t.Fatalf("intermediate value %d should have been dropped", v)
	default:
	}
}

func TestLatestDeliversCurrentOnSubscribe(t *testing.T) {
	l := NewLatestWith("idle")
	if v, ok := l.Value(); !ok || v != "idle" {
		t.Fatalf("expected initial value, got %q %v", v, ok)
	}
	sub := l.Subscribe()
	if got := recv(t, sub.C); got != "idle" {
		t.Fatalf("got %q", got)
	}

	empty := NewLatest[string]().Subscribe()
	select {
	case v := <-empty.C:
		t.Fatalf("no value was published, got %q", v)
	default:
	}
}

func TestLatestCloseAndUnsubscribe(t *testing.T) {
	l := NewLatest[int]()
	a, b := l.Subscribe(), l.Subscribe()

	a.Unsubscribe()
	a.Unsubscribe()
	expectClosed(t, a.C)

	l.Close()
	expectClosed(t, b.C)

	l.Publish(1)
	if _, ok := l.Value(); ok {
		t.Fatalf("publish after close should be ignored")
	}
	expectClosed(t, l.Subscribe().C)
}

func TestQueueKeepsEveryValueInOrder(t *testing.T) {
	q := NewQueue[int]()
	sub := q.Subscribe()
	defer sub.Unsubscribe()

	const n = 1000
	for i := 0; i < n; i++ {
		q.Publish(i)
	}
	for i := 0; i < n; i++ {
		if got := recv(t, sub.C); got != i {
			t.Fatalf("expected %d, got %d", i, got)
		}
	}
}

func TestQueueFansOut(t *testing.T) {
	q := NewQueue[string]()
	a, b := q.Subscribe(), q.Subscribe()
	q.Publish("x")
	q.Publish("y")

	for _, sub := range []*Subscription[string]{a, b} {
		if got := recv(t, sub.C); got != "x" {
			t.Fatalf("got %q", got)
		}
		if got := recv(t, sub.C); got != "y" {
			t.Fatalf("got %q", got)
		}
	}
}

func TestQueueCloseDrainsPending(t *testing.T) {
	q := NewQueue[int]()
	sub := q.Subscribe()
	q.Publish(1)
	q.Publish(2)
	q.Close()
	q.Publish(3)

	if got := recv(t, sub.C); got != 1 {
		t.Fatalf("got %d", got)
	}
	if got := recv(t, sub.C); got != 2 {
		t.Fatalf("got %d", got)
	}
	expectClosed(t, sub.C)
}

func TestQueueUnsubscribeStopsDelivery(t *testing.T) {
	q := NewQueue[int]()
	sub := q.Subscribe()
	q.Publish(1)
	sub.Unsubscribe()

	// The pump may already hold the first value; after that the channel closes.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.C:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("subscription channel was not closed")
		}
	}
}
