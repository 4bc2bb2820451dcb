// Package rendezvous implements the blocking primitives the cojoiners are
// built on: an interruptible Party, a count-down Latch, a self-releasing
// cyclic Barrier and a Phaser with dynamic registration.
//
// Goroutines cannot be interrupted from outside, so interruption is modelled
// explicitly. Each worker owns a Party; Interrupt sets the party's status
// and wakes it if it is parked in an interruptible wait. Waits that are
// interrupted return ErrInterrupted with the status cleared, and callers
// that must not abandon the wait are expected to retry and re-raise the
// status with Interrupt once they are released.
package rendezvous
