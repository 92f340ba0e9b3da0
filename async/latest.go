package async

import (
	"sync"
)

// Latest is a broadcast that remembers the last value published to it.
// A new subscriber first receives that value and then every value published
// after it subscribed, in publish order.
//
// Publish never blocks: each subscriber owns an unbounded queue that a
// dedicated goroutine drains into the subscriber's channel. This lets callers
// publish while holding their own locks without waiting on slow readers.
//
//	l := async.NewLatest([]int{})
//	ch, cancel := l.Subscribe()
//	defer cancel()
//	l.Publish([]int{1, 2})
//	<-ch // []int{}
//	<-ch // []int{1, 2}
type Latest[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[int]*subscription[T]
	nextID int
	closed bool
}

func NewLatest[T any](initial T) *Latest[T] {
	return &Latest[T]{
		value: initial,
		subs:  make(map[int]*subscription[T]),
	}
}

// Publish records v as the latest value and queues it to every subscriber.
// Returns false if the broadcast was already closed.
func (l *Latest[T]) Publish(v T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.value = v
	for _, s := range l.subs {
		s.push(v)
	}
	return true
}

// Value returns the last published value.
func (l *Latest[T]) Value() T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value
}

// Subscribe returns a channel that replays the latest value and then follows
// live updates. The channel is closed once the subscription is cancelled, or
// once the broadcast is closed and every queued value was delivered.
// Subscribing to a closed broadcast yields the final value and then a closed channel.
func (l *Latest[T]) Subscribe() (<-chan T, func()) {
	s := newSubscription[T]()

	l.mu.Lock()
	s.push(l.value)
	id := l.nextID
	l.nextID++
	if l.closed {
		s.finish()
	} else {
		l.subs[id] = s
	}
	l.mu.Unlock()

	go s.pump()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
			close(s.quit)
		})
	}
	return s.out, cancel
}

// NumSubscribers returns the number of live subscriptions.
func (l *Latest[T]) NumSubscribers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// Close stops accepting values. Subscribers still receive what was queued
// before Close and then see their channel closed. Close is idempotent.
func (l *Latest[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for id, s := range l.subs {
		s.finish()
		delete(l.subs, id)
	}
}

type subscription[T any] struct {
	mu       sync.Mutex
	pending  []T
	finished bool
	wake     chan struct{}
	quit     chan struct{}
	out      chan T
}

func newSubscription[T any]() *subscription[T] {
	return &subscription[T]{
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		out:  make(chan T),
	}
}

func (s *subscription[T]) push(v T) {
	s.mu.Lock()
	s.pending = append(s.pending, v)
	s.mu.Unlock()
	s.signal()
}

func (s *subscription[T]) finish() {
	s.mu.Lock()
	s.finished = true
	s.mu.Unlock()
	s.signal()
}

func (s *subscription[T]) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription[T]) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			finished := s.finished
			s.mu.Unlock()
			if finished {
				return
			}
			select {
			case <-s.wake:
				continue
			case <-s.quit:
				return
			}
		}
		v := s.pending[0]
		var zero T
		s.pending[0] = zero
		s.pending = s.pending[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.quit:
			return
		}
	}
}
