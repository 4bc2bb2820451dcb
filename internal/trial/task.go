// Package trial runs one coordinated start of N workers and measures how
// far apart they actually began.
package trial

import (
	"sync/atomic"

	"github.com/agbru/cojoin/internal/clock"
	"github.com/agbru/cojoin/internal/cojoiner"
	"github.com/agbru/cojoin/internal/rendezvous"
)

// Task is one worker of a trial. It waits on the shared cojoiner, stamps
// its start time and runs the payload.
type Task struct {
	cojoiner cojoiner.Cojoiner
	clock    clock.Clock
	payload  func() error
	start    atomic.Int64
}

// NewTask returns a task bound to c. A nil payload does nothing.
func NewTask(c cojoiner.Cojoiner, clk clock.Clock, payload func() error) *Task {
	return &Task{cojoiner: c, clock: clk, payload: payload}
}

// Run is the task body submitted to the pool.
func (t *Task) Run(p *rendezvous.Party) error {
	if err := t.cojoiner.RunWaiter(p); err != nil {
		return err
	}
	t.start.Store(t.clock.Nanotime())
	if t.payload == nil {
		return nil
	}
	return t.payload()
}

// StartTime returns the recorded start timestamp. It is only meaningful
// after Run has returned.
func (t *Task) StartTime() int64 {
	return t.start.Load()
}
