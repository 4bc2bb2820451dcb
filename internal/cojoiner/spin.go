package cojoiner

import (
	"runtime"
	"sync/atomic"

	"github.com/agbru/cojoin/internal/rendezvous"
)

// spinYieldMask controls how often a spinning waiter yields its P. Without
// the occasional yield, more spinners than Ps would delay the signaller
// until the runtime preempts one of them.
const spinYieldMask = 1<<16 - 1

// VolatileSpin busy-waits on an atomic flag. It burns CPU while parked but
// has the lowest wake-up latency, since no scheduler wake is involved.
type VolatileSpin struct {
	ready atomic.Bool
}

// NewVolatileSpin returns a spinning cojoiner with the flag down.
func NewVolatileSpin() Cojoiner { return &VolatileSpin{} }

// RunWaiter spins until the flag is raised.
func (v *VolatileSpin) RunWaiter(*rendezvous.Party) error {
	for spins := 1; !v.ready.Load(); spins++ {
		if spins&spinYieldMask == 0 {
			runtime.Gosched()
		}
	}
	return nil
}

// RunSignaller raises the flag.
func (v *VolatileSpin) RunSignaller() error {
	v.ready.Store(true)
	return nil
}
