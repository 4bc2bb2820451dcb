//go:build !linux

package clock

import "time"

var base = time.Now()

// Nanotime returns nanoseconds elapsed since process start, read from the
// runtime's monotonic clock.
func Nanotime() int64 {
	return int64(time.Since(base))
}
