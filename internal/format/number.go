package format

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCount renders n with en-US thousands separators, e.g. 1234567 as
// "1,234,567".
func FormatCount(n int64) string {
	return message.NewPrinter(language.AmericanEnglish).Sprintf("%d", n)
}

// FormatDecimal renders f with en-US thousands separators and the given
// number of decimals.
func FormatDecimal(f float64, decimals int) string {
	return message.NewPrinter(language.AmericanEnglish).Sprintf(fmt.Sprintf("%%.%df", decimals), f)
}

// FormatNanos renders a nanosecond skew as a human-readable duration.
func FormatNanos(ns int64) string {
	return FormatExecutionDuration(time.Duration(ns))
}
