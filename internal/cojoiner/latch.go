package cojoiner

import (
	"errors"

	"github.com/agbru/cojoin/internal/rendezvous"
)

// CountdownLatch parks workers on a single-count latch. The latch is single
// use: after the first RunSignaller every current and future RunWaiter
// returns at once, and further signals are no-ops.
type CountdownLatch struct {
	latch *rendezvous.Latch
}

// NewCountdownLatch returns a latch cojoiner with the latch closed.
func NewCountdownLatch() Cojoiner {
	return &CountdownLatch{latch: rendezvous.NewLatch(1)}
}

// RunWaiter waits for the latch, retrying across interrupts and re-raising
// the interrupt status once released.
func (c *CountdownLatch) RunWaiter(p *rendezvous.Party) error {
	interrupted := p.Interrupted()
	for {
		err := c.latch.Await(p)
		if err == nil {
			if interrupted {
				p.Interrupt()
			}
			return nil
		}
		if !errors.Is(err, rendezvous.ErrInterrupted) {
			return err
		}
		interrupted = true
	}
}

// RunSignaller opens the latch.
func (c *CountdownLatch) RunSignaller() error {
	c.latch.CountDown()
	return nil
}
