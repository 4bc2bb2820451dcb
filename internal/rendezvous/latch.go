package rendezvous

import (
	"fmt"
	"sync/atomic"
)

// Latch lets goroutines wait until a count reaches zero. It is single use:
// once open it stays open, and further CountDown calls are no-ops.
type Latch struct {
	count atomic.Int64
	done  chan struct{}
}

// NewLatch returns a latch that opens after count calls to CountDown.
// It panics if count is negative.
func NewLatch(count int) *Latch {
	if count < 0 {
		panic(fmt.Sprintf("rendezvous: negative latch count %d", count))
	}
	l := &Latch{done: make(chan struct{})}
	l.count.Store(int64(count))
	if count == 0 {
		close(l.done)
	}
	return l
}

// CountDown decrements the count, opening the latch when it reaches zero.
func (l *Latch) CountDown() {
	for {
		c := l.count.Load()
		if c == 0 {
			return
		}
		if l.count.CompareAndSwap(c, c-1) {
			if c == 1 {
				close(l.done)
			}
			return
		}
	}
}

// Count returns the current count.
func (l *Latch) Count() int64 {
	return l.count.Load()
}

// Done returns a channel that is closed when the latch opens.
func (l *Latch) Done() <-chan struct{} {
	return l.done
}

// Await blocks until the latch opens. If p is interrupted before or during
// the wait, Await returns ErrInterrupted and clears the status.
func (l *Latch) Await(p *Party) error {
	if p.Interrupted() {
		return ErrInterrupted
	}
	for {
		select {
		case <-l.done:
			return nil
		case <-p.InterruptC():
			if p.Interrupted() {
				return ErrInterrupted
			}
		}
	}
}
