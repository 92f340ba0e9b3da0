// Package clock wraps the calls we make to the stdlib time package so that
// tick-driven code can be advanced by hand in tests.
package clock

import (
	"sync"
	"time"
)

// Ticker wraps the stdlib time.Ticker struct.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type ticker struct {
	*time.Ticker
}

func (t *ticker) C() <-chan time.Time { return t.Ticker.C }

// Clock defines the calls we make to the stdlib time package.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	NewTicker(d time.Duration) Ticker
}

type realClock struct{}

func (realClock) Now() time.Time                   { return time.Now() }
func (realClock) Since(t time.Time) time.Duration  { return time.Since(t) }
func (realClock) NewTicker(d time.Duration) Ticker { return &ticker{time.NewTicker(d)} }

var stdlibClock = realClock{}

// New returns a Clock backed by the stdlib 'time' package.
func New() Clock { return stdlibClock }

// Manual is a Clock whose time only moves when Advance is called.
// Tickers created from it fire once for every full period crossed by Advance.
// Each fire is a blocking send, so Advance returns only after every live ticker
// has received its ticks (or was stopped).
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

func NewManual(now time.Time) *Manual {
	return &Manual{now: now}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Since(t time.Time) time.Duration {
	return m.Now().Sub(t)
}

func (m *Manual) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("non-positive interval for Manual.NewTicker")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTicker{
		ch:     make(chan time.Time),
		done:   make(chan struct{}),
		period: d,
		next:   m.now.Add(d),
	}
	m.tickers = append(m.tickers, t)
	return t
}

// Advance moves the clock forward by d, firing tickers in deadline order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var due *manualTicker
		live := m.tickers[:0]
		for _, t := range m.tickers {
			if t.stopped() {
				continue
			}
			live = append(live, t)
			if !t.next.After(target) && (due == nil || t.next.Before(due.next)) {
				due = t
			}
		}
		m.tickers = live
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		at := due.next
		m.now = at
		due.next = at.Add(due.period)
		m.mu.Unlock()

		due.fire(at)
	}
}

type manualTicker struct {
	ch     chan time.Time
	done   chan struct{}
	once   sync.Once
	period time.Duration
	next   time.Time
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.once.Do(func() { close(t.done) })
}

func (t *manualTicker) stopped() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func (t *manualTicker) fire(at time.Time) {
	select {
	case t.ch <- at:
	case <-t.done:
	}
}
