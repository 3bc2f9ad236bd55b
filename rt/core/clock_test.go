package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }

func TestClock_Elapsed(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	c := NewClockWithSource(ft.now)

	assert.Equal(t, float32(0), c.Elapsed())

	ft.t = ft.t.Add(1500 * time.Millisecond)
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-6)

	ft.t = ft.t.Add(16 * time.Millisecond)
	assert.InDelta(t, 1.516, c.Elapsed(), 1e-6)
}

func TestClock_NeverGoesBackwards(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	c := NewClockWithSource(ft.now)

	ft.t = ft.t.Add(2 * time.Second)
	assert.InDelta(t, 2.0, c.Elapsed(), 1e-6)

	ft.t = ft.t.Add(-time.Second)
	assert.InDelta(t, 2.0, c.Elapsed(), 1e-6)

	ft.t = ft.t.Add(3 * time.Second)
	assert.InDelta(t, 4.0, c.Elapsed(), 1e-6)
}

func TestClock_Delta(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	c := NewClockWithSource(ft.now)

	ft.t = ft.t.Add(16 * time.Millisecond)
	assert.Equal(t, 16*time.Millisecond, c.Delta())
	assert.Equal(t, time.Duration(0), c.Delta())

	ft.t = ft.t.Add(-time.Millisecond)
	assert.Equal(t, time.Duration(0), c.Delta())
}

func TestClock_RealTimeMonotonic(t *testing.T) {
	c := NewClock()
	prev := c.Elapsed()
	for i := 0; i < 1000; i++ {
		e := c.Elapsed()
		assert.GreaterOrEqual(t, e, prev)
		prev = e
	}
}
