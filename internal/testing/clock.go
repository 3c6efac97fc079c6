package testing

import "sync"

// DefaultStart is the clock reading of a new ManualClock, 2023-11-14 UTC.
const DefaultStart uint64 = 1_700_000_000

// ManualClock provides a controllable clock for testing time-dependent behavior.
type ManualClock struct {
	mu      sync.RWMutex
	current uint64
}

// NewManualClock creates a new ManualClock set to DefaultStart.
func NewManualClock() *ManualClock {
	return &ManualClock{current: DefaultStart}
}

// NewManualClockAt creates a new ManualClock set to the specified time.
func NewManualClockAt(t uint64) *ManualClock {
	return &ManualClock{current: t}
}

// Now returns the current time on the clock, in unix seconds.
func (c *ManualClock) Now() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Advance moves the clock forward by d seconds.
func (c *ManualClock) Advance(d uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current += d
}

// Set sets the clock to a specific time.
func (c *ManualClock) Set(t uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}
