package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/cojoin/internal/format"
	"github.com/agbru/cojoin/internal/orchestration"
)

const (
	// ProgressRefreshRate is the spinner's redraw interval.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner abstracts the terminal spinner so that DisplayProgress can be
// tested without a terminal.
type Spinner interface {
	Start()
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress runs a spinner on out showing the current sweep and
// strategy, a progress bar and an ETA. It returns, stopping the spinner,
// once progressChan is closed.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, out io.Writer) {
	defer wg.Done()

	s := newSpinner(spinner.WithWriter(out))
	agg := orchestration.NewProgressAggregator()
	s.UpdateSuffix(" starting")
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case u, ok := <-progressChan:
			if !ok {
				return
			}
			s.UpdateSuffix(progressSuffix(agg.Update(u)))
		case <-ticker.C:
			s.UpdateSuffix(progressSuffix(agg.Current()))
		}
	}
}

func progressSuffix(p orchestration.AggregatedProgress) string {
	return fmt.Sprintf(" sweep %d/%d %-24s %s",
		p.Sweep+1, p.Sweeps, p.Strategy, format.FormatProgressBarWithETA(p.Fraction, p.ETA, ProgressBarWidth))
}
