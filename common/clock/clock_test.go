package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualNowAndSince(t *testing.T) {
	start := time.Unix(100, 0)
	m := NewManual(start)
	assert.Equal(t, start, m.Now())

	m.Advance(3 * time.Second)
	assert.Equal(t, start.Add(3*time.Second), m.Now())
	assert.Equal(t, 3*time.Second, m.Since(start))
}

func TestManualTickerFiresOncePerPeriod(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	tk := m.NewTicker(100 * time.Millisecond)

	got := make(chan time.Time, 10)
	go func() {
		for i := 0; i < 3; i++ {
			got <- <-tk.C()
		}
	}()

	m.Advance(350 * time.Millisecond)
	assert.Equal(t, time.Unix(0, 0).Add(100*time.Millisecond), <-got)
	assert.Equal(t, time.Unix(0, 0).Add(200*time.Millisecond), <-got)
	assert.Equal(t, time.Unix(0, 0).Add(300*time.Millisecond), <-got)
	assert.Equal(t, time.Unix(0, 0).Add(350*time.Millisecond), m.Now())
}

func TestManualStoppedTickerDoesNotBlock(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	tk := m.NewTicker(time.Millisecond)
	tk.Stop()
	tk.Stop()

	// nobody reads from tk.C(), Advance must still return.
	m.Advance(time.Second)
	assert.Equal(t, time.Unix(1, 0), m.Now())
}

func TestRealClock(t *testing.T) {
	c := New()
	tk := c.NewTicker(time.Millisecond)
	defer tk.Stop()
	select {
	case <-tk.C():
	case <-time.After(time.Second):
		t.Fatal("expected real ticker to fire")
	}
	assert.True(t, c.Since(c.Now().Add(-time.Second)) >= time.Second)
}
