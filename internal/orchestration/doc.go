// Package orchestration drives a start-skew experiment: sweeps over the
// selected coordination strategies, many trials per strategy, folding the
// measured skews into statistics. It decouples measurement from
// presentation via the ProgressReporter and ResultPresenter interfaces.
package orchestration
