package orchestration

import (
	"io"
	"sync"

	"github.com/agbru/cojoin/internal/cojoiner"
	"github.com/agbru/cojoin/internal/stats"
	"github.com/agbru/cojoin/internal/trial"
)

// ProgressUpdate reports the position of a running experiment. Indices are
// zero-based; Trial counts the trials completed in the current block.
type ProgressUpdate struct {
	Sweep    int
	Sweeps   int
	Strategy string
	Block    int
	Blocks   int
	Trial    int
	Trials   int
}

// Fraction returns the share of all trials of the experiment completed so
// far, in [0, 1].
func (u ProgressUpdate) Fraction() float64 {
	total := float64(u.Sweeps) * float64(u.Blocks) * float64(u.Trials)
	if total <= 0 {
		return 0
	}
	done := (float64(u.Sweep)*float64(u.Blocks)+float64(u.Block))*float64(u.Trials) + float64(u.Trial)
	return min(done/total, 1)
}

// ProgressReporter displays experiment progress.
//
// DisplayProgress is started in its own goroutine before the first trial
// and must call wg.Done once progressChan is closed. Updates are sent
// without blocking, so a slow reporter only misses intermediate updates.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, out io.Writer) {
	f(wg, progressChan, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. It is the default when progress display is off.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders experiment results.
type ResultPresenter interface {
	// PresentBlock reports one strategy's figures at the end of its block.
	PresentBlock(name string, agg stats.Aggregate, out io.Writer)
	// PresentSweepEnd closes the output of one sweep.
	PresentSweepEnd(sweep int, out io.Writer)
	// PresentSummary renders the final ranking of the run.
	PresentSummary(rankings []Ranking, out io.Writer)
}

// MetricsRecorder receives per-trial observations. It is called by the
// controlling goroutine between trials, never inside a measured start.
type MetricsRecorder interface {
	ObserveTrial(strategy string, res trial.Result)
	ObserveFailure(strategy string)
}

// NullMetrics discards every observation.
type NullMetrics struct{}

// ObserveTrial does nothing.
func (NullMetrics) ObserveTrial(string, trial.Result) {}

// ObserveFailure does nothing.
func (NullMetrics) ObserveFailure(string) {}

// TrialRunner runs one trial against a fresh cojoiner.
type TrialRunner interface {
	Run(c cojoiner.Cojoiner) (trial.Result, error)
}

var (
	_ ProgressReporter = NullProgressReporter{}
	_ MetricsRecorder  = NullMetrics{}
	_ TrialRunner      = (*trial.Runner)(nil)
)
