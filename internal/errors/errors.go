package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess           = 0   // Indicates successful execution.
	ExitErrorGeneric      = 1   // Indicates a generic error.
	ExitErrorCoordination = 2   // Indicates a broken coordination primitive.
	ExitErrorTrial        = 3   // Indicates a worker failed during a trial.
	ExitErrorConfig       = 4   // Indicates a configuration error.
	ExitErrorCanceled     = 130 // Indicates the run was canceled (e.g., SIGINT).
)

// ConfigError represents a configuration error, such as invalid flags or a
// host whose derived party count violates the benchmark's assumptions.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CoordinationError reports that a coordination primitive failed, for
// example a barrier that was broken while parties were waiting on it.
// Coordination errors are never retried.
type CoordinationError struct {
	// Strategy is the name of the cojoiner whose primitive failed.
	Strategy string
	// Cause is the error reported by the primitive.
	Cause error
}

// Error returns a message naming the strategy and the primitive's error.
func (e CoordinationError) Error() string {
	return fmt.Sprintf("%s: coordination failed: %v", e.Strategy, e.Cause)
}

// Unwrap returns the primitive's error.
func (e CoordinationError) Unwrap() error { return e.Cause }

// TrialError identifies the trial that aborted the run.
type TrialError struct {
	// Strategy is the name of the cojoiner under test.
	Strategy string
	// Sweep is the zero-based sweep index.
	Sweep int
	// Trial is the zero-based trial index within the strategy block.
	Trial int
	// Cause is the worker or coordination failure.
	Cause error
}

// Error returns a diagnostic naming the strategy, sweep and trial.
func (e TrialError) Error() string {
	return fmt.Sprintf("strategy %s, sweep %d, trial %d: %v", e.Strategy, e.Sweep, e.Trial, e.Cause)
}

// Unwrap returns the underlying failure.
func (e TrialError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error returned by the run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var configErr ConfigError
	var coordErr CoordinationError
	var trialErr TrialError
	switch {
	case IsContextError(err):
		return ExitErrorCanceled
	case errors.As(err, &configErr):
		return ExitErrorConfig
	case errors.As(err, &coordErr):
		return ExitErrorCoordination
	case errors.As(err, &trialErr):
		return ExitErrorTrial
	}
	return ExitErrorGeneric
}
