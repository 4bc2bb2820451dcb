package cojoiner

import (
	"github.com/agbru/cojoin/internal/rendezvous"
)

// Phaser registers every worker plus the controller as parties of one
// phase. Workers arrive and wait; the controller's deregistration is the
// last arrival that completes the phase and releases them all.
type Phaser struct {
	phaser *rendezvous.Phaser
}

// NewPhaser returns a phaser cojoiner for the given number of workers.
func NewPhaser(workers int) Cojoiner {
	return &Phaser{phaser: rendezvous.NewPhaser(workers + 1)}
}

// RunWaiter arrives and waits for the phase to advance.
func (c *Phaser) RunWaiter(*rendezvous.Party) error {
	if _, err := c.phaser.ArriveAndAwaitAdvance(); err != nil {
		return coordinationError(PhaserName, err)
	}
	return nil
}

// RunSignaller deregisters the controller party.
func (c *Phaser) RunSignaller() error {
	if _, err := c.phaser.ArriveAndDeregister(); err != nil {
		return coordinationError(PhaserName, err)
	}
	return nil
}
