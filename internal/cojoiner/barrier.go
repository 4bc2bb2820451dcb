package cojoiner

import (
	"errors"

	"github.com/agbru/cojoin/internal/rendezvous"
)

// CyclicBarrier parks workers on a barrier sized to the worker count. The
// last worker to arrive releases the rest, so RunSignaller has nothing to
// do. A broken barrier is a fatal coordination error.
type CyclicBarrier struct {
	barrier *rendezvous.Barrier
}

// NewCyclicBarrier returns a barrier cojoiner for the given number of workers.
func NewCyclicBarrier(workers int) Cojoiner {
	return &CyclicBarrier{barrier: rendezvous.NewBarrier(workers)}
}

// RunWaiter waits at the barrier. Interrupts are retried and re-raised; a
// retry after an interrupt finds the barrier broken and fails.
func (c *CyclicBarrier) RunWaiter(p *rendezvous.Party) error {
	interrupted := p.Interrupted()
	for {
		_, err := c.barrier.Await(p)
		switch {
		case err == nil:
			if interrupted {
				p.Interrupt()
			}
			return nil
		case errors.Is(err, rendezvous.ErrInterrupted):
			interrupted = true
		default:
			if interrupted {
				p.Interrupt()
			}
			return coordinationError(CyclicBarrierName, err)
		}
	}
}

// RunSignaller does nothing; release is implied by the last arrival.
func (c *CyclicBarrier) RunSignaller() error { return nil }
