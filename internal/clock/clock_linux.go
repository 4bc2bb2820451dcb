//go:build linux

package clock

import (
	"time"

	"golang.org/x/sys/unix"
)

var fallbackBase = time.Now()

// Nanotime reads CLOCK_MONOTONIC directly. It falls back to the runtime's
// monotonic reading if the syscall fails.
func Nanotime() int64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return int64(time.Since(fallbackBase))
	}
	return ts.Nano()
}
