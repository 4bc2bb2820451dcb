package orchestration

import (
	"sync"
	"testing"
)

func TestProgressUpdateFraction(t *testing.T) {
	tests := []struct {
		name string
		u    ProgressUpdate
		want float64
	}{
		{"empty experiment", ProgressUpdate{}, 0},
		{"start", ProgressUpdate{Sweeps: 2, Blocks: 2, Trials: 10}, 0},
		{"mid block", ProgressUpdate{Sweeps: 2, Blocks: 2, Trials: 10, Trial: 5}, 0.125},
		{"second sweep", ProgressUpdate{Sweep: 1, Sweeps: 2, Block: 1, Blocks: 2, Trials: 10}, 0.75},
		{"done", ProgressUpdate{Sweep: 1, Sweeps: 2, Block: 1, Blocks: 2, Trials: 10, Trial: 10}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.u.Fraction(); got != tt.want {
				t.Errorf("Fraction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgressAggregator(t *testing.T) {
	agg := NewProgressAggregator()
	u := ProgressUpdate{Sweep: 0, Sweeps: 1, Strategy: "NoneCojoiner", Blocks: 2, Trials: 4, Trial: 2}

	ap := agg.Update(u)
	if ap.Strategy != "NoneCojoiner" || ap.Fraction != 0.25 {
		t.Errorf("Update = %+v, want strategy NoneCojoiner at 0.25", ap)
	}
	if cur := agg.Current(); cur.Fraction != ap.Fraction || cur.Strategy != ap.Strategy {
		t.Errorf("Current = %+v, want %+v", cur, ap)
	}
}

func TestDrainChannel(t *testing.T) {
	ch := make(chan ProgressUpdate, 3)
	ch <- ProgressUpdate{}
	ch <- ProgressUpdate{}
	close(ch)
	DrainChannel(ch)
	if len(ch) != 0 {
		t.Errorf("channel still holds %d updates", len(ch))
	}
}

func TestNullProgressReporterDrains(t *testing.T) {
	ch := make(chan ProgressUpdate, ProgressBufferSize)
	for i := 0; i < ProgressBufferSize; i++ {
		ch <- ProgressUpdate{Trial: i}
	}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	NullProgressReporter{}.DisplayProgress(&wg, ch, nil)
	wg.Wait()
	if len(ch) != 0 {
		t.Errorf("%d updates left undrained", len(ch))
	}
}
