package config

import (
	"flag"
	"os"
	"strings"

	apperrors "github.com/agbru/cojoin/internal/errors"
)

// envBindings pairs each COJOIN_ variable with the flags it shadows. The
// first flag receives the value, so aliases share one binding.
var envBindings = []struct {
	key   string
	flags []string
}{
	{"SWEEPS", []string{"sweeps"}},
	{"TRIALS", []string{"trials"}},
	{"PARTIES", []string{"parties"}},
	{"STRATEGIES", []string{"strategies"}},
	{"KEEP_ALIVE", []string{"keep-alive"}},
	{"RESET_PER_SWEEP", []string{"reset-per-sweep"}},
	{"PROGRESS", []string{"progress"}},
	{"SUMMARY", []string{"summary"}},
	{"METRICS", []string{"metrics"}},
	{"NO_COLOR", []string{"no-color"}},
	{"VERBOSE", []string{"verbose", "v"}},
}

// applyEnvOverrides feeds COJOIN_ variables through the flags' own parsers
// for every flag absent from the command line. A malformed value is a
// ConfigError naming the variable.
func applyEnvOverrides(c *AppConfig, fs *flag.FlagSet) error {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	c.partiesExplicit = set["parties"]

	for _, b := range envBindings {
		if anySet(set, b.flags) {
			continue
		}
		val := os.Getenv(EnvPrefix + b.key)
		if val == "" {
			continue
		}
		f := fs.Lookup(b.flags[0])
		if isBoolFlag(f) {
			val = normalizeBool(val)
		}
		if err := f.Value.Set(val); err != nil {
			return apperrors.NewConfigError("%s%s=%q: %v", EnvPrefix, b.key, val, err)
		}
		if b.key == "PARTIES" {
			c.partiesExplicit = true
		}
	}
	return nil
}

func anySet(set map[string]bool, names []string) bool {
	for _, n := range names {
		if set[n] {
			return true
		}
	}
	return false
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// normalizeBool maps yes/no onto the spellings strconv.ParseBool accepts.
func normalizeBool(val string) string {
	switch strings.ToLower(val) {
	case "yes", "y", "on":
		return "true"
	case "no", "n", "off":
		return "false"
	}
	return val
}
