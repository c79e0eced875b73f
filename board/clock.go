// ABOUTME: Clock abstraction for created_at/updated_at timestamps.
// ABOUTME: SystemClock never goes backwards, even if the wall clock is stepped.
package board

import (
	"sync"
	"time"
)

// Clock supplies timestamps for card and rule records.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns UTC wall-clock time, clamped so successive readings are
// non-decreasing.
type SystemClock struct {
	mu   sync.Mutex
	last time.Time
}

// Now returns the current UTC time, or the previous reading if the wall clock
// moved backwards since then.
func (c *SystemClock) Now() time.Time {
	now := time.Now().UTC()
	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Before(c.last) {
		return c.last
	}
	c.last = now
	return now
}
