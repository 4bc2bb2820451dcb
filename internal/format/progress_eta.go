package format

import (
	"fmt"
	"strings"
	"time"
)

const (
	// etaSmoothing is the weight of the newest rate sample.
	etaSmoothing = 0.3
	// MaxETA caps estimates from very slow early progress.
	MaxETA = 24 * time.Hour
)

// ProgressWithETA tracks the completed fraction of a long run and
// estimates its remaining time from a smoothed completion rate. It is not
// safe for concurrent use.
type ProgressWithETA struct {
	now          func() time.Time
	startTime    time.Time
	lastUpdate   time.Time
	progress     float64
	progressRate float64 // fraction per second
}

// NewProgressWithETA starts tracking at the current time.
func NewProgressWithETA() *ProgressWithETA {
	return newProgressWithClock(time.Now)
}

func newProgressWithClock(now func() time.Time) *ProgressWithETA {
	t := now()
	return &ProgressWithETA{now: now, startTime: t, lastUpdate: t}
}

// Update records the completed fraction, clamped to [0, 1], and returns it
// with the current estimate.
func (p *ProgressWithETA) Update(fraction float64) (float64, time.Duration) {
	fraction = clamp(fraction)
	t := p.now()
	if dt := t.Sub(p.lastUpdate).Seconds(); dt > 0 && fraction > p.progress {
		rate := (fraction - p.progress) / dt
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = etaSmoothing*rate + (1-etaSmoothing)*p.progressRate
		}
		p.lastUpdate = t
	}
	p.progress = fraction
	return p.progress, p.GetETA()
}

// Progress returns the last recorded fraction.
func (p *ProgressWithETA) Progress() float64 {
	return p.progress
}

// Elapsed returns the time since tracking started.
func (p *ProgressWithETA) Elapsed() time.Duration {
	return p.now().Sub(p.startTime)
}

// GetETA returns the estimated remaining time, or 0 while no rate is known.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 || p.progress >= 1 {
		return 0
	}
	eta := time.Duration((1 - p.progress) / p.progressRate * float64(time.Second))
	if eta > MaxETA || eta < 0 {
		return MaxETA
	}
	return eta
}

// ProgressBar renders a bar of the given width filled to progress.
func ProgressBar(progress float64, width int) string {
	filled := int(clamp(progress) * float64(width))
	var b strings.Builder
	b.Grow(width * 3)
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

// FormatProgressBarWithETA renders "[bar] 42.0% ETA: 1m5s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp(progress)*100, FormatETA(eta))
}

func clamp(f float64) float64 {
	return max(0, min(f, 1))
}
