package rendezvous

import "errors"

var (
	// ErrInterrupted is returned by an interruptible wait whose party was
	// interrupted. The party's interrupt status has been cleared.
	ErrInterrupted = errors.New("rendezvous: interrupted")

	// ErrBrokenBarrier is returned to parties of a barrier generation that
	// was broken by an interruption or a Reset.
	ErrBrokenBarrier = errors.New("rendezvous: barrier is broken")

	// ErrUnregisteredArrival is returned when more parties arrive at a
	// phaser than are registered.
	ErrUnregisteredArrival = errors.New("rendezvous: arrival of unregistered party")

	// ErrTerminated is returned when registering with a terminated phaser.
	ErrTerminated = errors.New("rendezvous: phaser is terminated")
)
