package rendezvous

import (
	"fmt"
	"math"
	"sync"
)

// Phaser is a reusable barrier whose number of parties may change over
// time. A phase completes, and the phase number advances, once every
// registered party has arrived. When the last registered party deregisters
// the phaser terminates; from then on phase numbers are negative and waits
// return immediately.
type Phaser struct {
	mu         sync.Mutex
	phase      int32
	parties    int
	unarrived  int
	terminated bool
	advance    chan struct{}
}

// NewPhaser returns a phaser with the given number of registered parties.
// It panics if parties is negative.
func NewPhaser(parties int) *Phaser {
	if parties < 0 {
		panic(fmt.Sprintf("rendezvous: negative phaser party count %d", parties))
	}
	return &Phaser{parties: parties, unarrived: parties, advance: make(chan struct{})}
}

// Register adds a party to the current phase and returns the phase number.
func (p *Phaser) Register() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.terminated {
		return p.phaseLocked(), ErrTerminated
	}
	p.parties++
	p.unarrived++
	return p.phaseLocked(), nil
}

// Arrive records the arrival of one party without waiting and returns the
// arrival phase number.
func (p *Phaser) Arrive() (int, error) {
	phase, _, err := p.arrive(false)
	return phase, err
}

// ArriveAndDeregister records an arrival and removes the party, which may
// complete the phase for the remaining parties.
func (p *Phaser) ArriveAndDeregister() (int, error) {
	phase, _, err := p.arrive(true)
	return phase, err
}

// ArriveAndAwaitAdvance records an arrival and waits for the other parties.
// It returns the new phase number, negative if the phaser terminated.
func (p *Phaser) ArriveAndAwaitAdvance() (int, error) {
	_, advance, err := p.arrive(false)
	if err != nil {
		return 0, err
	}
	<-advance
	return p.Phase(), nil
}

// AwaitAdvance waits for the given phase to complete. It returns at once
// if the phaser is already past that phase or terminated.
func (p *Phaser) AwaitAdvance(phase int) int {
	p.mu.Lock()
	if p.terminated || int(p.phase) != phase {
		defer p.mu.Unlock()
		return p.phaseLocked()
	}
	advance := p.advance
	p.mu.Unlock()
	<-advance
	return p.Phase()
}

// arrive returns the arrival phase and the channel that closes when that
// phase advances.
func (p *Phaser) arrive(deregister bool) (int, <-chan struct{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.terminated {
		return p.phaseLocked(), p.advance, nil
	}
	if p.unarrived == 0 {
		return p.phaseLocked(), nil, ErrUnregisteredArrival
	}
	phase := int(p.phase)
	advance := p.advance
	p.unarrived--
	if deregister {
		p.parties--
	}
	if p.unarrived == 0 {
		p.advanceLocked()
	}
	return phase, advance, nil
}

func (p *Phaser) advanceLocked() {
	close(p.advance)
	if p.parties == 0 {
		p.terminated = true
		return
	}
	if p.phase == math.MaxInt32 {
		p.phase = 0
	} else {
		p.phase++
	}
	p.unarrived = p.parties
	p.advance = make(chan struct{})
}

// Phase returns the current phase number, negative once terminated.
func (p *Phaser) Phase() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phaseLocked()
}

func (p *Phaser) phaseLocked() int {
	if p.terminated {
		return int(p.phase | math.MinInt32)
	}
	return int(p.phase)
}

// RegisteredParties returns the number of registered parties.
func (p *Phaser) RegisteredParties() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parties
}

// UnarrivedParties returns the number of parties yet to arrive at the
// current phase.
func (p *Phaser) UnarrivedParties() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unarrived
}

// IsTerminated reports whether all parties have deregistered.
func (p *Phaser) IsTerminated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.terminated
}
