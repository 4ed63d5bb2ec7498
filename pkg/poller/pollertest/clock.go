// Package pollertest provides a virtual clock for driving poller.Await in tests
// without real sleeping.
package pollertest

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Clock is a manually advanced clock. Timers created from it fire as soon as
// they are started, advancing the clock by the requested duration.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward, e.g. to simulate a slow check.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Since reports the time elapsed on this clock since t.
func (c *Clock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Sleeps returns every duration a timer was started with, in order.
func (c *Clock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// NewTimer satisfies poller.Options.NewTimer.
func (c *Clock) NewTimer() backoff.Timer {
	return &timer{clock: c, ch: make(chan time.Time, 1)}
}

type timer struct {
	clock *Clock
	ch    chan time.Time
}

func (t *timer) Start(d time.Duration) {
	t.clock.mu.Lock()
	t.clock.now = t.clock.now.Add(d)
	t.clock.sleeps = append(t.clock.sleeps, d)
	now := t.clock.now
	t.clock.mu.Unlock()

	select {
	case <-t.ch:
	default:
	}
	t.ch <- now
}

func (t *timer) C() <-chan time.Time {
	return t.ch
}

func (t *timer) Stop() {}
