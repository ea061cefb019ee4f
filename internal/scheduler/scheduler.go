// Package scheduler abstracts deferred execution so the review timers
// can run on real clocks in production and on virtual time in tests.
package scheduler

import (
	"sort"
	"sync"
	"time"
)

type Scheduler interface {
	// After runs fn once, d after the call. Implementations never block
	// the caller.
	After(d time.Duration, fn func())
}

// Timer is the production scheduler backed by time.AfterFunc.
type Timer struct{}

func NewTimer() *Timer {
	return &Timer{}
}

func (*Timer) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Manual is a virtual-time scheduler. Nothing fires until Advance moves
// the clock; tasks due by the new time run synchronously in schedule
// order, including tasks armed by other tasks during the same Advance.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	nextSeq int
	tasks   []manualTask
}

type manualTask struct {
	at  time.Duration
	seq int
	fn  func()
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) After(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// seq must keep growing across removals so ties at the same due
	// time always break toward the task armed first.
	m.tasks = append(m.tasks, manualTask{
		at:  m.now + d,
		seq: m.nextSeq,
		fn:  fn,
	})
	m.nextSeq++
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		idx := -1
		for i, t := range m.tasks {
			if t.at > target {
				continue
			}
			if idx == -1 || t.at < m.tasks[idx].at || (t.at == m.tasks[idx].at && t.seq < m.tasks[idx].seq) {
				idx = i
			}
		}
		if idx == -1 {
			m.now = target
			m.mu.Unlock()
			return
		}
		task := m.tasks[idx]
		m.tasks = append(m.tasks[:idx], m.tasks[idx+1:]...)
		if task.at > m.now {
			m.now = task.at
		}
		m.mu.Unlock()

		task.fn()
	}
}

// Pending returns the number of tasks not yet due.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// PendingAt lists the due offsets of queued tasks, soonest first.
func (m *Manual) PendingAt() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]time.Duration, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t.at)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
