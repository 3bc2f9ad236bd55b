package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steppedProfiler(steps ...time.Duration) *Profiler {
	p := NewProfiler()
	t := time.Unix(0, 0)
	i := 0
	p.now = func() time.Time {
		if i < len(steps) {
			t = t.Add(steps[i])
			i++
		}
		return t
	}
	return p
}

func TestProfiler_Scope(t *testing.T) {
	// Each Scope call and each stop reads the clock once.
	p := steppedProfiler(0, 2*time.Millisecond, 0, 4*time.Millisecond, 0, time.Millisecond)

	p.Scope("draw")()
	p.Scope("draw")()
	p.Scope("controls")()

	assert.Equal(t, []string{"draw", "controls"}, p.Order)
	draw := p.Scopes["draw"]
	require.NotNil(t, draw)
	assert.Equal(t, 2, draw.Calls)
	assert.Equal(t, 4*time.Millisecond, draw.Last)
	assert.Equal(t, 4*time.Millisecond, draw.Worst)
	assert.Equal(t, 3*time.Millisecond, draw.Mean())
	assert.Equal(t, time.Millisecond, p.Scopes["controls"].Last)
}

func TestProfiler_Reset(t *testing.T) {
	p := steppedProfiler(0, time.Millisecond)
	p.Scope("draw")()
	p.AddCount("frames", 3)

	p.Reset()
	assert.Equal(t, ScopeStats{}, *p.Scopes["draw"])
	assert.Equal(t, time.Duration(0), p.Scopes["draw"].Mean())
	assert.Equal(t, []string{"draw"}, p.Order)
	assert.Equal(t, 3, p.Counts["frames"])
}

func TestProfiler_Summary(t *testing.T) {
	p := steppedProfiler(0, 1500*time.Microsecond)
	p.Scope("draw")()
	p.SetCount("instances", 1000)
	p.AddCount("frames", 1)
	p.AddCount("frames", 1)

	s := p.Summary()
	assert.Contains(t, s, "Timings (CPU):")
	assert.Contains(t, s, "draw           : mean 1.50 ms, worst 1.50 ms (1)")
	assert.Contains(t, s, "frames         : 2")
	assert.Contains(t, s, "instances      : 1000")
	assert.Less(t, strings.Index(s, "frames"), strings.Index(s, "instances"))
}
