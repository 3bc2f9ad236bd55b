package core

import (
	"time"
)

// Clock measures seconds since it was created. Readings never go backwards.
type Clock struct {
	start time.Time
	now   func() time.Time
	last  float32
	prev  time.Time
}

func NewClock() *Clock {
	return NewClockWithSource(time.Now)
}

// NewClockWithSource lets tests drive the clock.
func NewClockWithSource(now func() time.Time) *Clock {
	start := now()
	return &Clock{
		start: start,
		now:   now,
		prev:  start,
	}
}

// Elapsed returns seconds since construction.
func (c *Clock) Elapsed() float32 {
	e := float32(c.now().Sub(c.start).Seconds())
	if e < c.last {
		return c.last
	}
	c.last = e
	return e
}

// Delta returns the time since the previous Delta call.
func (c *Clock) Delta() time.Duration {
	now := c.now()
	dt := now.Sub(c.prev)
	c.prev = now
	if dt < 0 {
		return 0
	}
	return dt
}
