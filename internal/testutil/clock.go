package testutil

import (
	"sync"
	"time"
)

// DeterministicClock is a store clock whose readings advance by one
// second per call from a fixed epoch, so cached rows compare equal
// across runs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	epoch time.Time
	ticks int64
}

// NewDeterministicClock creates a clock starting at 2024-01-01T00:00:00Z.
//
// The first call to Now() returns the epoch plus one second.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{epoch: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now advances the clock and returns the new reading.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks++
	return c.epoch.Add(time.Duration(c.ticks) * time.Second)
}

// Reset rewinds the clock to its epoch.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = 0
}
