package hal

import (
	"sync"
	"time"
)

// RealClock measures wall time and really sleeps.
type RealClock struct {
	// start is the reference point for Now.
	start time.Time
}

// NewRealClock returns a wall clock starting now.
func NewRealClock() *RealClock {
	return &RealClock{start: time.Now()}
}

// Now returns the wall time elapsed since the clock was created.
func (c *RealClock) Now() time.Duration {
	return time.Since(c.start)
}

// Sleep blocks the calling goroutine for d.
func (c *RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// VirtualClock is a clock that only moves when slept on.
// Tests use it to run the loop with zero wall time.
type VirtualClock struct {
	// now is the current virtual time.
	now time.Duration
	// mu protects now.
	mu sync.Mutex
}

// NewVirtualClock returns a virtual clock at time zero.
func NewVirtualClock() *VirtualClock {
	return new(VirtualClock)
}

// Now returns the current virtual time.
func (c *VirtualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Sleep advances the virtual time by d and returns immediately.
func (c *VirtualClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.now += d
}

// Ensure clocks implement Clock.
var (
	_ Clock = (*RealClock)(nil)
	_ Clock = (*VirtualClock)(nil)
)
