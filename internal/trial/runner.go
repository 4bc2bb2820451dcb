package trial

import (
	"errors"
	"fmt"
	"sync"

	"github.com/agbru/cojoin/internal/clock"
	"github.com/agbru/cojoin/internal/cojoiner"
	apperrors "github.com/agbru/cojoin/internal/errors"
	"github.com/agbru/cojoin/internal/pool"
)

// Submitter accepts tasks for asynchronous execution.
type Submitter interface {
	Submit(task pool.Task) (*pool.Future, error)
}

// Result holds the skews of one trial, in nanoseconds, in submission order.
type Result struct {
	Skews []int64
	Min   int64
	Max   int64
	Total int64
}

// Runner executes trials on a shared pool.
type Runner struct {
	// Parties is the number of workers per trial.
	Parties int
	// Pool runs the workers.
	Pool Submitter
	// Clock stamps start times. Nil selects clock.Monotonic.
	Clock clock.Clock
	// Payload is the timed work each worker does after its start stamp.
	Payload func() error
}

// Run executes one trial against c: it submits Parties tasks sharing c,
// signals c once every task has been accepted, waits for all of them and
// computes each worker's skew from the earliest start.
//
// Any worker failure fails the trial; no partial result is returned. The
// wait for workers has no timeout, so a worker that never returns stalls
// the caller.
func (r *Runner) Run(c cojoiner.Cojoiner) (Result, error) {
	if r.Parties <= 0 {
		return Result{}, apperrors.NewConfigError("trial needs a positive party count, got %d", r.Parties)
	}
	clk := r.Clock
	if clk == nil {
		clk = clock.Monotonic
	}

	tasks := make([]*Task, r.Parties)
	futures := make([]*pool.Future, 0, r.Parties)
	for i := range tasks {
		tasks[i] = NewTask(c, clk, r.Payload)
		f, err := r.Pool.Submit(tasks[i].Run)
		if err != nil {
			complete(c, futures, r.Parties-len(futures))
			return Result{}, apperrors.WrapError(err, "submitting worker %d", i)
		}
		futures = append(futures, f)
	}

	signalErr := c.RunSignaller()
	if signalErr != nil {
		abandon(futures)
		return Result{}, signalErr
	}

	var errs []error
	for i, f := range futures {
		if err := f.Wait(); err != nil {
			errs = append(errs, fmt.Errorf("worker %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return Result{}, errors.Join(errs...)
	}

	starts := make([]int64, len(tasks))
	for i, t := range tasks {
		starts[i] = t.StartTime()
	}
	return Skews(starts), nil
}

// complete finishes the rendezvous of a trial whose submissions stopped
// part way. Stand-in waiters on their own goroutines take the places of the
// missing workers, so barriers and phasers sized for the full party count
// still trip; then c is signalled and every accepted worker is joined.
func complete(c cojoiner.Cojoiner, futures []*pool.Future, missing int) {
	var standIns sync.WaitGroup
	for range missing {
		standIns.Add(1)
		go func() {
			defer standIns.Done()
			_ = c.RunWaiter(nil)
		}()
	}
	_ = c.RunSignaller()
	for _, f := range futures {
		_ = f.Wait()
	}
	standIns.Wait()
}

// abandon interrupts workers left behind by a failed trial so that those
// parked interruptibly can return. They are not waited for.
func abandon(futures []*pool.Future) {
	for _, f := range futures {
		f.Interrupt()
	}
}

// Skews computes each start's distance from the earliest start.
func Skews(starts []int64) Result {
	if len(starts) == 0 {
		return Result{}
	}
	res := Result{Skews: make([]int64, len(starts)), Min: starts[0]}
	for _, s := range starts[1:] {
		if s < res.Min {
			res.Min = s
		}
	}
	for i, s := range starts {
		d := s - res.Min
		res.Skews[i] = d
		if d > res.Max {
			res.Max = d
		}
		res.Total += d
	}
	return res
}
