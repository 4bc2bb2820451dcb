package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the foreground colors of the ranking table.
type Theme struct {
	Name   string
	Row    lipgloss.TerminalColor
	Header lipgloss.TerminalColor
	Border lipgloss.TerminalColor
	// Best colors the lowest-skew strategy.
	Best lipgloss.TerminalColor
	// Idle colors strategies that ran no trials.
	Idle lipgloss.TerminalColor
}

var (
	DarkTheme = Theme{
		Name:   "dark",
		Row:    lipgloss.Color("#D0D0D0"),
		Header: lipgloss.Color("#7AA2F7"),
		Border: lipgloss.Color("#565F89"),
		Best:   lipgloss.Color("#9ECE6A"),
		Idle:   lipgloss.Color("#6B6B6B"),
	}

	// NoColorTheme leaves every cell in the terminal's default color.
	NoColorTheme = Theme{
		Name:   "none",
		Row:    lipgloss.NoColor{},
		Header: lipgloss.NoColor{},
		Border: lipgloss.NoColor{},
		Best:   lipgloss.NoColor{},
		Idle:   lipgloss.NoColor{},
	}
)

var (
	mu     sync.RWMutex
	active = DarkTheme
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// SetCurrentTheme replaces the active theme.
func SetCurrentTheme(t Theme) {
	mu.Lock()
	active = t
	mu.Unlock()
}

// SelectTheme picks NoColorTheme when noColor is set or NO_COLOR is present
// in the environment (any value, see https://no-color.org/).
func SelectTheme(noColor bool) Theme {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		return NoColorTheme
	}
	return DarkTheme
}

// InitTheme activates SelectTheme(noColor).
func InitTheme(noColor bool) { SetCurrentTheme(SelectTheme(noColor)) }
