//go:generate mockgen -source=cojoiner.go -destination=mocks/mock_cojoiner.go -package=mocks

// Package cojoiner defines the coordination strategies whose start skew the
// benchmark measures. Each strategy lets a set of workers park until a
// single release, and each owns its synchronization state privately; the
// trial runner sees only the Cojoiner interface.
package cojoiner

import "github.com/agbru/cojoin/internal/rendezvous"

// Cojoiner holds workers back until they are released together.
type Cojoiner interface {
	// RunWaiter is called by every worker before it starts its timed work
	// and blocks until release. p carries the worker's interrupt status;
	// strategies that park interruptibly keep waiting when interrupted and
	// re-raise the status on p before returning.
	RunWaiter(p *rendezvous.Party) error

	// RunSignaller is called once by the trial controller after all
	// workers have been submitted.
	RunSignaller() error
}

// None performs no coordination at all; workers start whenever the
// scheduler runs them. It is the baseline with maximal skew.
type None struct{}

// NewNone returns the no-op cojoiner.
func NewNone() Cojoiner { return None{} }

// RunWaiter returns immediately.
func (None) RunWaiter(*rendezvous.Party) error { return nil }

// RunSignaller does nothing.
func (None) RunSignaller() error { return nil }
