package orchestration

import (
	"time"

	"github.com/agbru/cojoin/internal/format"
)

// ProgressAggregator turns raw progress updates into an overall fraction
// and an ETA for display.
type ProgressAggregator struct {
	state *format.ProgressWithETA
	last  ProgressUpdate
}

// NewProgressAggregator starts tracking at the current time.
func NewProgressAggregator() *ProgressAggregator {
	return &ProgressAggregator{state: format.NewProgressWithETA()}
}

// AggregatedProgress is the displayable state after one update.
type AggregatedProgress struct {
	Sweep    int
	Sweeps   int
	Strategy string
	Fraction float64
	ETA      time.Duration
}

// Update folds in one update.
func (a *ProgressAggregator) Update(u ProgressUpdate) AggregatedProgress {
	a.last = u
	fraction, eta := a.state.Update(u.Fraction())
	return AggregatedProgress{
		Sweep:    u.Sweep,
		Sweeps:   u.Sweeps,
		Strategy: u.Strategy,
		Fraction: fraction,
		ETA:      eta,
	}
}

// Current returns the state as of the last update without changing it.
// Useful for periodic refresh between updates.
func (a *ProgressAggregator) Current() AggregatedProgress {
	return AggregatedProgress{
		Sweep:    a.last.Sweep,
		Sweeps:   a.last.Sweeps,
		Strategy: a.last.Strategy,
		Fraction: a.state.Progress(),
		ETA:      a.state.GetETA(),
	}
}

// DrainChannel discards every update until the channel is closed.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
