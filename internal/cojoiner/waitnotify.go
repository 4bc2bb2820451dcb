package cojoiner

import (
	"sync"

	"github.com/agbru/cojoin/internal/rendezvous"
)

// WaitNotify parks workers on a condition variable guarded by a mutex and
// releases them with a broadcast.
type WaitNotify struct {
	mu    sync.Mutex
	cond  *sync.Cond
	ready bool
}

// NewWaitNotify returns a condition-variable cojoiner.
func NewWaitNotify() Cojoiner {
	w := &WaitNotify{}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// RunWaiter waits on the condition until released. Wake-ups without the
// predicate set, including those caused by an interrupt, go back to
// waiting; an interrupt seen on the way is re-raised on p at the end.
func (w *WaitNotify) RunWaiter(p *rendezvous.Party) error {
	restore := p.OnInterrupt(func() {
		w.mu.Lock()
		w.cond.Broadcast()
		w.mu.Unlock()
	})

	w.mu.Lock()
	interrupted := p.Interrupted()
	for !w.ready {
		w.cond.Wait()
		if p.Interrupted() {
			interrupted = true
		}
	}
	w.mu.Unlock()
	restore()

	if interrupted {
		p.Interrupt()
	}
	return nil
}

// RunSignaller sets the predicate and wakes every waiter.
func (w *WaitNotify) RunSignaller() error {
	w.mu.Lock()
	w.ready = true
	w.cond.Broadcast()
	w.mu.Unlock()
	return nil
}
