// Package clock schedules cancellable delayed actions. Everything timer
// driven in the engine (connect deadlines, tournament countdowns, stage
// settle windows) goes through a Scheduler so tests can drive time with a
// fake clock.
package clock

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type Scheduler struct {
	clk clockwork.Clock

	mu   sync.Mutex
	next int
	task map[int]clockwork.Timer
}

func NewScheduler(clk clockwork.Clock) *Scheduler {
	return &Scheduler{clk: clk, task: make(map[int]clockwork.Timer)}
}

func (s *Scheduler) Now() time.Time { return s.clk.Now() }

// Task identifies a scheduled action. Cancelling a task that already fired
// or was cancelled is a no-op.
type Task struct {
	id int
	s  *Scheduler
}

// Schedule runs fn after d on its own goroutine. The returned task can be
// cancelled; whether the cancel won the race is reported by Cancel.
func (s *Scheduler) Schedule(d time.Duration, fn func()) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	timer := s.clk.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.task, id)
		s.mu.Unlock()
		fn()
	})
	s.task[id] = timer
	return &Task{id: id, s: s}
}

func (t *Task) Cancel() bool {
	if t == nil {
		return false
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	timer, ok := t.s.task[t.id]
	if !ok {
		return false
	}
	delete(t.s.task, t.id)
	return timer.Stop()
}

// Ticker returns a ticker on the scheduler's clock, so polling loops
// stay drivable by a fake clock in tests.
func (s *Scheduler) Ticker(d time.Duration) clockwork.Ticker {
	return s.clk.NewTicker(d)
}

// Pending reports how many tasks are waiting to fire.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.task)
}
