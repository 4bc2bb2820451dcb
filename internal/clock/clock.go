// Package clock provides the monotonic nanosecond timestamps used to stamp
// worker start times.
package clock

// Clock returns monotonic timestamps in nanoseconds. Values are only
// meaningful relative to other values from the same Clock.
type Clock interface {
	Nanotime() int64
}

// Func adapts a plain function to the Clock interface.
type Func func() int64

// Nanotime calls f.
func (f Func) Nanotime() int64 { return f() }

// Monotonic is the process-wide high-resolution monotonic clock.
var Monotonic Clock = Func(Nanotime)
