// Package cli renders experiment results and progress on the terminal.
package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/agbru/cojoin/internal/format"
	"github.com/agbru/cojoin/internal/orchestration"
	"github.com/agbru/cojoin/internal/stats"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// terminal spinner.
type CLIProgressReporter struct{}

// CLIResultPresenter implements orchestration.ResultPresenter for plain
// text output: one line per strategy block, a blank line per sweep and an
// optional ranking table.
type CLIResultPresenter struct{}

// Verify interface compliance.
var (
	_ orchestration.ProgressReporter = CLIProgressReporter{}
	_ orchestration.ResultPresenter  = CLIResultPresenter{}
)

// DisplayProgress shows a spinner until progressChan is closed.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, out io.Writer) {
	DisplayProgress(wg, progressChan, out)
}

// PresentBlock prints "<name>: max = <max>, total = <total>" with skews in
// nanoseconds and thousands separators.
func (CLIResultPresenter) PresentBlock(name string, agg stats.Aggregate, out io.Writer) {
	fmt.Fprintln(out, FormatBlockLine(name, agg))
}

// PresentSweepEnd prints the blank line closing a sweep.
func (CLIResultPresenter) PresentSweepEnd(_ int, out io.Writer) {
	fmt.Fprintln(out)
}

// PresentSummary prints the ranking table.
func (CLIResultPresenter) PresentSummary(rankings []orchestration.Ranking, out io.Writer) {
	fmt.Fprintln(out, RenderRankingTable(rankings))
}

// FormatBlockLine formats one result line.
func FormatBlockLine(name string, agg stats.Aggregate) string {
	return fmt.Sprintf("%s: max = %s, total = %s", name, format.FormatCount(agg.Max), format.FormatCount(agg.Total))
}
