package format

import (
	"strings"
	"testing"
	"time"
)

func TestFormatCount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
		{9223372036854775807, "9,223,372,036,854,775,807"},
	}

	for _, tt := range tests {
		if got := FormatCount(tt.in); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDecimal(t *testing.T) {
	t.Parallel()
	if got := FormatDecimal(12345.678, 1); got != "12,345.7" {
		t.Errorf("FormatDecimal = %q, want %q", got, "12,345.7")
	}
}

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "500ns"},
		{10 * time.Microsecond, "10µs"},
		{10 * time.Millisecond, "10ms"},
		{2 * time.Second, "2s"},
	}

	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %s, want %s", tt.d, got, tt.want)
		}
	}
	if got := FormatNanos(1500); got != "1µs" {
		t.Errorf("FormatNanos(1500) = %s", got)
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		eta  time.Duration
		want string
	}{
		{"zero", 0, "calculating..."},
		{"negative", -time.Second, "calculating..."},
		{"sub-second", 500 * time.Millisecond, "< 1s"},
		{"seconds", 45 * time.Second, "45s"},
		{"minute", time.Minute, "1m"},
		{"minutes and seconds", 2*time.Minute + 30*time.Second, "2m30s"},
		{"hours and minutes", time.Hour + 15*time.Minute, "1h15m"},
		{"hours only", 2 * time.Hour, "2h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatETA(tt.eta); got != tt.want {
				t.Errorf("FormatETA(%v) = %q, want %q", tt.eta, got, tt.want)
			}
		})
	}
}

// fakeClock advances by step on every reading.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func TestProgressWithETA(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{t: time.Unix(0, 0), step: time.Second}
	p := newProgressWithClock(clk.now)

	if eta := p.GetETA(); eta != 0 {
		t.Fatalf("initial ETA = %v, want 0", eta)
	}

	// 10% per second, steadily.
	var eta time.Duration
	for i := 1; i <= 5; i++ {
		_, eta = p.Update(float64(i) / 10)
	}
	if eta < 4*time.Second || eta > 6*time.Second {
		t.Errorf("ETA at 50%% = %v, want about 5s", eta)
	}

	if got, eta := p.Update(1); got != 1 || eta != 0 {
		t.Errorf("Update(1) = %v, %v; want 1, 0", got, eta)
	}
}

func TestProgressWithETAClampsAndCaps(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{t: time.Unix(0, 0), step: time.Hour}
	p := newProgressWithClock(clk.now)

	if got, _ := p.Update(-0.5); got != 0 {
		t.Errorf("Update(-0.5) = %v, want 0", got)
	}
	if _, eta := p.Update(0.0001); eta != MaxETA {
		t.Errorf("slow ETA = %v, want cap %v", eta, MaxETA)
	}
	if got, _ := p.Update(1.5); got != 1 {
		t.Errorf("Update(1.5) = %v, want 1", got)
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		want     string
	}{
		{0.0, "░░░░"},
		{0.5, "██░░"},
		{1.0, "████"},
		{1.2, "████"},
		{-0.1, "░░░░"},
	}

	for _, tt := range tests {
		if got := ProgressBar(tt.progress, 4); got != tt.want {
			t.Errorf("ProgressBar(%v, 4) = %s, want %s", tt.progress, got, tt.want)
		}
	}

	line := FormatProgressBarWithETA(0.5, 30*time.Second, 10)
	for _, part := range []string{"[", "]", " 50.0%", "ETA: 30s"} {
		if !strings.Contains(line, part) {
			t.Errorf("FormatProgressBarWithETA = %q, missing %q", line, part)
		}
	}
}
