// Package pool provides an unbounded, cached pool of worker goroutines.
//
// Submitted tasks are handed to a parked idle worker when one is available
// and otherwise start a new worker, so Submit never blocks and never
// queues. Workers that stay idle for the keep-alive period exit. The pool
// is meant to be shared by many short-lived batches of tasks, where reusing
// warm workers avoids paying goroutine start-up on every batch.
package pool

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agbru/cojoin/internal/rendezvous"
)

// DefaultKeepAlive is how long an idle worker waits for work before exiting.
const DefaultKeepAlive = 60 * time.Second

var (
	// ErrPoolShutdown is returned by Submit after Shutdown.
	ErrPoolShutdown = errors.New("pool: shut down")

	// ErrTaskPanicked wraps the value recovered from a panicking task.
	ErrTaskPanicked = errors.New("pool: task panicked")
)

// Task is a unit of work. It receives the party that represents the worker
// running it, through which the task can be interrupted.
type Task func(p *rendezvous.Party) error

// Future is the handle of a submitted task.
type Future struct {
	party *rendezvous.Party
	done  chan struct{}
	err   error
}

// Wait blocks until the task has finished and returns its error. There is
// no timeout.
func (f *Future) Wait() error {
	<-f.done
	return f.err
}

// Done returns a channel closed when the task finishes.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Interrupt interrupts the task's party.
func (f *Future) Interrupt() {
	f.party.Interrupt()
}

type job struct {
	task   Task
	future *Future
}

// Pool is a cached worker pool. The zero value is not usable; call New.
type Pool struct {
	keepAlive time.Duration
	handoff   chan *job
	quit      chan struct{}

	mu       sync.Mutex
	shutdown bool

	wg      sync.WaitGroup
	workers atomic.Int64
	idle    atomic.Int64
}

// New returns a pool whose idle workers exit after keepAlive. A
// non-positive keepAlive selects DefaultKeepAlive.
func New(keepAlive time.Duration) *Pool {
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	return &Pool{
		keepAlive: keepAlive,
		handoff:   make(chan *job),
		quit:      make(chan struct{}),
	}
}

// Submit schedules task and returns its handle. Once Submit returns the
// task has been accepted by a worker, though it may not have started yet.
func (p *Pool) Submit(task Task) (*Future, error) {
	j := &job{
		task:   task,
		future: &Future{party: rendezvous.NewParty(), done: make(chan struct{})},
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shutdown {
		return nil, ErrPoolShutdown
	}
	select {
	case p.handoff <- j:
	default:
		p.wg.Add(1)
		p.workers.Add(1)
		go p.worker(j)
	}
	return j.future, nil
}

func (p *Pool) worker(j *job) {
	defer p.wg.Done()
	defer p.workers.Add(-1)

	idle := time.NewTimer(p.keepAlive)
	defer idle.Stop()
	for {
		run(j)

		p.idle.Add(1)
		idle.Reset(p.keepAlive)
		select {
		case j = <-p.handoff:
			p.idle.Add(-1)
		case <-idle.C:
			p.idle.Add(-1)
			return
		case <-p.quit:
			p.idle.Add(-1)
			return
		}
	}
}

func run(j *job) {
	defer close(j.future.done)
	defer func() {
		if r := recover(); r != nil {
			j.future.err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	j.future.err = j.task(j.future.party)
}

// Shutdown stops accepting tasks and waits for running tasks to finish.
// Running tasks are not interrupted. Calling it more than once is safe.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if !p.shutdown {
		p.shutdown = true
		close(p.quit)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of live worker goroutines.
func (p *Pool) Workers() int {
	return int(p.workers.Load())
}

// Idle returns the number of workers parked waiting for a task.
func (p *Pool) Idle() int {
	return int(p.idle.Load())
}
