package rendezvous

import "sync"

// Party is the identity of one waiting goroutine and carries its interrupt
// status. The zero value is ready to use. A nil *Party is valid everywhere a
// party is accepted and is never interrupted.
type Party struct {
	mu          sync.Mutex
	interrupted bool
	signal      chan struct{}
	hook        func()
}

// NewParty returns a party with a clear interrupt status.
func NewParty() *Party {
	return &Party{}
}

func (p *Party) signalLocked() chan struct{} {
	if p.signal == nil {
		p.signal = make(chan struct{}, 1)
	}
	return p.signal
}

// Interrupt sets the interrupt status and wakes the party if it is parked in
// an interruptible wait.
func (p *Party) Interrupt() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.interrupted = true
	select {
	case p.signalLocked() <- struct{}{}:
	default:
	}
	hook := p.hook
	p.mu.Unlock()
	if hook != nil {
		hook()
	}
}

// Interrupted reports whether the party was interrupted and clears the status.
func (p *Party) Interrupted() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	was := p.interrupted
	p.interrupted = false
	select {
	case <-p.signalLocked():
	default:
	}
	return was
}

// IsInterrupted reports the interrupt status without clearing it.
func (p *Party) IsInterrupted() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interrupted
}

// InterruptC returns a channel that becomes readable when the party is
// interrupted. A receive from it is only a wake-up; the status must be
// checked with Interrupted. The nil party returns a nil channel.
func (p *Party) InterruptC() <-chan struct{} {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signalLocked()
}

// OnInterrupt installs f to be called after every Interrupt until the
// returned function is called. It lets waits that park on something other
// than a channel, such as a sync.Cond, be woken by an interruption.
func (p *Party) OnInterrupt(f func()) (restore func()) {
	if p == nil {
		return func() {}
	}
	p.mu.Lock()
	prev := p.hook
	p.hook = f
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		p.hook = prev
		p.mu.Unlock()
	}
}
