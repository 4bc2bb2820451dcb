package rendezvous

import (
	"fmt"
	"sync"
)

// generation is one cycle of a Barrier. trip is closed when the generation
// either completes or breaks; broken is written before the close.
type generation struct {
	broken bool
	trip   chan struct{}
}

func newGeneration() *generation {
	return &generation{trip: make(chan struct{})}
}

// Barrier is a reusable rendezvous for a fixed number of parties. The last
// party to arrive releases the others and starts the next generation, so no
// external signal is involved. Interrupting a waiting party, or calling
// Reset, breaks the current generation: every party waiting on it, and every
// party arriving afterwards until Reset, receives ErrBrokenBarrier.
type Barrier struct {
	mu      sync.Mutex
	parties int
	count   int
	gen     *generation
}

// NewBarrier returns a barrier for the given number of parties.
// It panics if parties is not positive.
func NewBarrier(parties int) *Barrier {
	if parties <= 0 {
		panic(fmt.Sprintf("rendezvous: barrier needs a positive party count, got %d", parties))
	}
	return &Barrier{parties: parties, count: parties, gen: newGeneration()}
}

// Parties returns the number of parties required to trip the barrier.
func (b *Barrier) Parties() int {
	return b.parties
}

// NumberWaiting returns the number of parties currently parked.
func (b *Barrier) NumberWaiting() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.parties - b.count
}

// IsBroken reports whether the current generation is broken.
func (b *Barrier) IsBroken() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen.broken
}

// Await waits until all parties have arrived. It returns the arrival index
// of the caller, parties-1 for the first to arrive and 0 for the last.
//
// An interrupted party breaks the barrier and gets ErrInterrupted with its
// status cleared; all others get ErrBrokenBarrier.
func (b *Barrier) Await(p *Party) (int, error) {
	b.mu.Lock()
	g := b.gen
	if g.broken {
		b.mu.Unlock()
		return -1, ErrBrokenBarrier
	}
	if p.Interrupted() {
		b.breakLocked()
		b.mu.Unlock()
		return -1, ErrInterrupted
	}

	b.count--
	index := b.count
	if index == 0 {
		b.nextGenerationLocked()
		b.mu.Unlock()
		return 0, nil
	}
	b.mu.Unlock()

	for {
		select {
		case <-g.trip:
			return outcome(g, index)
		case <-p.InterruptC():
			b.mu.Lock()
			if g == b.gen && !g.broken {
				if p.Interrupted() {
					b.breakLocked()
					b.mu.Unlock()
					return index, ErrInterrupted
				}
				b.mu.Unlock()
				continue
			}
			b.mu.Unlock()
			// The generation already completed or broke; the interrupt
			// arrived too late to matter and stays pending on p.
			<-g.trip
			return outcome(g, index)
		}
	}
}

func outcome(g *generation, index int) (int, error) {
	if g.broken {
		return index, ErrBrokenBarrier
	}
	return index, nil
}

// Reset breaks the current generation, releasing any waiters with
// ErrBrokenBarrier, and starts a fresh one.
func (b *Barrier) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.gen.broken {
		b.breakLocked()
	}
	b.gen = newGeneration()
	b.count = b.parties
}

func (b *Barrier) breakLocked() {
	b.gen.broken = true
	b.count = b.parties
	close(b.gen.trip)
}

func (b *Barrier) nextGenerationLocked() {
	close(b.gen.trip)
	b.count = b.parties
	b.gen = newGeneration()
}
