package metrics

import (
	"runtime"
	"time"

	"github.com/agbru/cojoin/internal/logging"
)

// RuntimeSnapshot is the Go runtime state after an experiment: how much the
// pool grew and how much the collector interfered with the run.
type RuntimeSnapshot struct {
	Goroutines int
	HeapAlloc  uint64
	NumGC      uint32
	GCPause    time.Duration
}

// ReadRuntime calls runtime.ReadMemStats, which stops the world. Never call
// it while a trial is in flight.
func ReadRuntime() RuntimeSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeSnapshot{
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  m.HeapAlloc,
		NumGC:      m.NumGC,
		GCPause:    time.Duration(m.PauseTotalNs),
	}
}

// Fields renders the snapshot as log fields.
func (s RuntimeSnapshot) Fields() []logging.Field {
	return []logging.Field{
		logging.Int("goroutines", s.Goroutines),
		logging.Uint64("heap_alloc", s.HeapAlloc),
		logging.Int("gc_cycles", int(s.NumGC)),
		logging.Duration("gc_pause", s.GCPause),
	}
}
