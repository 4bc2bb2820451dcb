// Package config parses command-line flags and environment variables into
// the run configuration.
package config

import (
	"flag"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	apperrors "github.com/agbru/cojoin/internal/errors"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "COJOIN_"

// Defaults reproduce the classic experiment.
const (
	DefaultSweeps     = 20
	DefaultTrials     = 20000
	DefaultStrategies = "all"
	DefaultKeepAlive  = 60 * time.Second
)

// AppConfig aggregates the run parameters.
type AppConfig struct {
	// Sweeps is the number of rounds over all selected strategies.
	Sweeps int
	// Trials is the number of trials per strategy and sweep.
	Trials int
	// Parties is the worker count per trial. Zero derives it from
	// GOMAXPROCS, see ResolveParties.
	Parties int
	// Strategies is a comma-separated selection, or "all".
	Strategies string
	// ResetPerSweep restarts each strategy's figures for every sweep.
	ResetPerSweep bool
	// Progress shows a spinner on stderr while the experiment runs.
	Progress bool
	// Summary prints a ranking table after the last sweep.
	Summary bool
	// Metrics dumps Prometheus text exposition to stderr at exit.
	Metrics bool
	// NoColor disables colors in the summary table.
	NoColor bool
	// Verbose enables debug logging.
	Verbose bool
	// KeepAlive is how long an idle pool worker waits for new work.
	KeepAlive time.Duration
	// ShowVersion prints the version and exits.
	ShowVersion bool

	partiesExplicit bool
}

// StrategyList splits Strategies into names, dropping empty entries.
func (c AppConfig) StrategyList() []string {
	var names []string
	for _, n := range strings.Split(c.Strategies, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// PartiesExplicit reports whether the party count came from a flag or the
// environment rather than the default.
func (c AppConfig) PartiesExplicit() bool {
	return c.partiesExplicit
}

// Validate checks the configuration for values the experiment cannot run
// with.
func (c AppConfig) Validate() error {
	if c.Sweeps < 0 {
		return apperrors.NewConfigError("sweeps must not be negative, got %d", c.Sweeps)
	}
	if c.Trials < 0 {
		return apperrors.NewConfigError("trials must not be negative, got %d", c.Trials)
	}
	if c.Parties < 0 || (c.partiesExplicit && c.Parties == 0) {
		return apperrors.NewConfigError("parties must be positive, got %d", c.Parties)
	}
	if c.KeepAlive <= 0 {
		return apperrors.NewConfigError("keep-alive must be positive, got %v", c.KeepAlive)
	}
	if len(c.StrategyList()) == 0 {
		return apperrors.NewConfigError("no strategy selected")
	}
	return nil
}

// ParseConfig parses args into an AppConfig, applying COJOIN_* environment
// overrides to flags not set on the command line. Usage and parse errors
// go to errorWriter. availableStrategies is listed in the usage text.
//
// flag.ErrHelp is returned unchanged when -h or -help is given.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableStrategies []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.IntVar(&config.Sweeps, "sweeps", DefaultSweeps, "Number of sweeps over the selected strategies.")
	fs.IntVar(&config.Trials, "trials", DefaultTrials, "Number of trials per strategy and sweep.")
	fs.IntVar(&config.Parties, "parties", 0, "Workers per trial (0 = GOMAXPROCS/2 - 2).")
	fs.StringVar(&config.Strategies, "strategies", DefaultStrategies,
		fmt.Sprintf("Comma-separated strategies to run, or 'all' (%s).", strings.Join(availableStrategies, ", ")))
	fs.BoolVar(&config.ResetPerSweep, "reset-per-sweep", false, "Restart each strategy's figures for every sweep.")
	fs.BoolVar(&config.Progress, "progress", false, "Show a progress spinner on stderr.")
	fs.BoolVar(&config.Summary, "summary", false, "Print a ranking table after the last sweep.")
	fs.BoolVar(&config.Metrics, "metrics", false, "Write Prometheus metrics to stderr at exit.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colors in the summary table.")
	fs.BoolVar(&config.Verbose, "v", false, "Enable debug logging (shorthand).")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging.")
	fs.DurationVar(&config.KeepAlive, "keep-alive", DefaultKeepAlive, "Idle lifetime of pooled workers.")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version information and exit.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if err := applyEnvOverrides(&config, fs); err != nil {
		return AppConfig{}, err
	}
	if err := config.Validate(); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}

// DeriveParties returns the default worker count for procs logical
// processors: half of them, minus two left for the controller and the
// runtime.
func DeriveParties(procs int) int {
	return procs/2 - 2
}

// ResolveParties returns the party count to run with. An explicit count is
// used as is; otherwise it is derived from runtime.GOMAXPROCS, and a
// derived count below one is a ConfigError.
func ResolveParties(cfg AppConfig) (int, error) {
	return resolveParties(cfg, runtime.GOMAXPROCS(0))
}

func resolveParties(cfg AppConfig, procs int) (int, error) {
	if cfg.Parties > 0 {
		return cfg.Parties, nil
	}
	n := DeriveParties(procs)
	if n <= 0 {
		return 0, apperrors.NewConfigError(
			"derived party count %d is not positive (GOMAXPROCS=%d); set -parties or %sPARTIES", n, procs, EnvPrefix)
	}
	return n, nil
}
