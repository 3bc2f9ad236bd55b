package app

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ScopeStats holds the timings of one named span of a frame since the last
// Reset.
type ScopeStats struct {
	Last  time.Duration
	Worst time.Duration
	Total time.Duration
	Calls int
}

func (s ScopeStats) Mean() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

// Profiler times named spans of the frame loop and keeps counters for the
// periodic debug summary. It is used from the render goroutine only.
type Profiler struct {
	Scopes map[string]*ScopeStats
	Counts map[string]int
	Order  []string

	now func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes: make(map[string]*ScopeStats),
		Counts: make(map[string]int),
		now:    time.Now,
	}
}

// Scope starts timing name and returns the func that stops it:
//
//	defer p.Scope("draw")()
func (p *Profiler) Scope(name string) func() {
	st, ok := p.Scopes[name]
	if !ok {
		st = &ScopeStats{}
		p.Scopes[name] = st
		p.Order = append(p.Order, name)
	}
	start := p.now()
	return func() {
		d := p.now().Sub(start)
		st.Last = d
		st.Total += d
		st.Calls++
		st.Worst = max(st.Worst, d)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

func (p *Profiler) AddCount(name string, delta int) {
	p.Counts[name] += delta
}

// Reset starts a new reporting window. Scope order and counters survive.
func (p *Profiler) Reset() {
	for _, st := range p.Scopes {
		*st = ScopeStats{}
	}
}

// Summary renders scope timings in first-seen order, then counters sorted
// by name.
func (p *Profiler) Summary() string {
	var sb strings.Builder

	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.Order {
		st := p.Scopes[name]
		fmt.Fprintf(&sb, "  %-15s: mean %.2f ms, worst %.2f ms (%d)\n",
			name, millis(st.Mean()), millis(st.Worst), st.Calls)
	}

	sb.WriteString("Counters:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-15s: %d\n", k, p.Counts[k])
	}
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
