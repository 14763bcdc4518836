package runloop

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by an explicit virtual clock.
//
// Manual is not safe for concurrent use; it is meant to be owned by the
// goroutine that also owns the compositor.
type Manual struct {
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	m        *Manual
	deadline time.Duration
	seq      uint64
	fn       func()
	active   bool
}

// NewManual returns a Manual scheduler with its clock at zero.
func NewManual() *Manual {
	return &Manual{}
}

// AfterFunc schedules f to run once the clock has advanced by d.
// Negative durations are treated as zero.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, deadline: m.now + d, seq: m.seq, fn: f, active: true}
	m.timers = append(m.timers, t)
	return t
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration { return m.now }

// Pending returns the number of timers still waiting to fire.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.timers {
		if t.active {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and fires every timer whose deadline
// has been reached, in deadline order. Timers scheduled by a callback also
// fire if they fall due within the same window. It returns the number of
// callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := m.now + d
	fired := 0
	for {
		t := m.next(target)
		if t == nil {
			break
		}
		if t.deadline > m.now {
			m.now = t.deadline
		}
		t.active = false
		m.remove(t)
		t.fn()
		fired++
	}
	m.now = target
	return fired
}

// RunPending fires the timers that are already due without moving the clock.
func (m *Manual) RunPending() int {
	return m.Advance(0)
}

func (m *Manual) next(limit time.Duration) *manualTimer {
	due := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if t.active && t.deadline <= limit {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (m *Manual) remove(t *manualTimer) {
	for i, x := range m.timers {
		if x == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

func (t *manualTimer) Stop() bool {
	if !t.active {
		return false
	}
	t.active = false
	t.m.remove(t)
	return true
}

func (t *manualTimer) Active() bool { return t.active }
