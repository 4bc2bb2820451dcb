// Package stats accumulates start-skew samples per strategy.
package stats

import "sync/atomic"

// Aggregate is the running summary of one strategy's skew samples, in
// nanoseconds.
type Aggregate struct {
	Max     int64
	Total   int64
	Samples int64
	Trials  int64
}

// Mean returns the average skew per sample, or 0 without samples.
func (a Aggregate) Mean() float64 {
	if a.Samples == 0 {
		return 0
	}
	return float64(a.Total) / float64(a.Samples)
}

// Accumulator holds per-strategy aggregates and the execution counter
// shared by every worker of the run.
//
// Aggregates are written by the controlling goroutine only and are not
// synchronized. The execution counter is safe for concurrent use.
type Accumulator struct {
	order      []string
	byName     map[string]*Aggregate
	executions atomic.Int64
}

// New returns an empty accumulator.
func New() *Accumulator {
	return &Accumulator{byName: make(map[string]*Aggregate)}
}

func (a *Accumulator) aggregate(name string) *Aggregate {
	agg, ok := a.byName[name]
	if !ok {
		agg = &Aggregate{}
		a.byName[name] = agg
		a.order = append(a.order, name)
	}
	return agg
}

// Observe folds the skews of one trial into the strategy's aggregate.
func (a *Accumulator) Observe(name string, skews []int64) {
	agg := a.aggregate(name)
	for _, s := range skews {
		if s > agg.Max {
			agg.Max = s
		}
		agg.Total += s
	}
	agg.Samples += int64(len(skews))
	agg.Trials++
}

// Snapshot returns a copy of the strategy's aggregate.
func (a *Accumulator) Snapshot(name string) Aggregate {
	if agg, ok := a.byName[name]; ok {
		return *agg
	}
	return Aggregate{}
}

// Names returns the observed strategies in first-observed order.
func (a *Accumulator) Names() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Reset clears one strategy's aggregate. The execution counter is kept.
func (a *Accumulator) Reset(name string) {
	if agg, ok := a.byName[name]; ok {
		*agg = Aggregate{}
	}
}

// IncExecutions records one payload execution.
func (a *Accumulator) IncExecutions() {
	a.executions.Add(1)
}

// Executions returns the number of payload executions so far.
func (a *Accumulator) Executions() int64 {
	return a.executions.Load()
}
