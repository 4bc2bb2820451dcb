// Package app wires configuration, logging, the worker pool and the
// experiment driver into the cojoin command.
package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/cojoin/internal/cli"
	"github.com/agbru/cojoin/internal/cojoiner"
	"github.com/agbru/cojoin/internal/config"
	apperrors "github.com/agbru/cojoin/internal/errors"
	"github.com/agbru/cojoin/internal/logging"
	"github.com/agbru/cojoin/internal/metrics"
	"github.com/agbru/cojoin/internal/orchestration"
	"github.com/agbru/cojoin/internal/pool"
	"github.com/agbru/cojoin/internal/stats"
	"github.com/agbru/cojoin/internal/sysmon"
	"github.com/agbru/cojoin/internal/trial"
	"github.com/agbru/cojoin/internal/ui"
)

// shutdownGrace bounds the wait for pool workers at exit.
const shutdownGrace = 5 * time.Second

// Application represents the cojoin application instance.
type Application struct {
	Config    config.AppConfig
	Factory   *cojoiner.Factory
	ErrWriter io.Writer
	Logger    logging.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom strategy factory.
func WithFactory(f *cojoiner.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithLogger replaces the console logger built from the configuration.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates an Application by parsing command-line arguments; args[0] is
// the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = cojoiner.NewDefaultFactory()
	}

	programName := "cojoin"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the experiment, writing result lines to out and everything
// else to ErrWriter. It returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}
	ui.InitTheme(a.Config.NoColor)
	logger := a.logger()

	parties, err := config.ResolveParties(a.Config)
	if err != nil {
		logger.Error("invalid configuration", err)
		return apperrors.ExitCode(err)
	}

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	workers := pool.New(a.Config.KeepAlive)
	defer shutdownPool(workers, logger)

	acc := stats.New()
	exp := &orchestration.Experiment{
		Sweeps:     a.Config.Sweeps,
		Trials:     a.Config.Trials,
		Parties:    parties,
		Factory:    a.Factory,
		Strategies: a.Config.StrategyList(),
		Runner: &trial.Runner{
			Parties: parties,
			Pool:    workers,
			Payload: func() error {
				acc.IncExecutions()
				return nil
			},
		},
		Stats:         acc,
		Presenter:     cli.CLIResultPresenter{},
		Out:           out,
		ProgressOut:   a.ErrWriter,
		Logger:        logger,
		Sampler:       sysmon.Sample,
		ResetPerSweep: a.Config.ResetPerSweep,
		Summary:       a.Config.Summary,
	}
	if a.Config.Progress {
		exp.Progress = cli.CLIProgressReporter{}
	}
	var recorder *metrics.Recorder
	if a.Config.Metrics {
		recorder = newRecorder(workers, acc)
		exp.Metrics = recorder
	}

	host := sysmon.DescribeHost()
	logger.Debug("host",
		logging.Int("logical_cpus", host.LogicalCPUs),
		logging.Int("physical_cpus", host.PhysicalCPUs),
		logging.String("cpu_model", host.ModelName),
	)

	err = runWithInterruptNotice(ctx, exp, logger)

	if recorder != nil {
		if werr := recorder.WriteText(a.ErrWriter); werr != nil {
			logger.Error("writing metrics", werr)
		}
	}
	logger.Debug("runtime", append(metrics.ReadRuntime().Fields(),
		logging.Int("pool_workers", workers.Workers()))...)

	if err != nil {
		logFailure(logger, err)
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitSuccess
}

// runWithInterruptNotice runs the experiment next to a watcher that logs
// when a signal arrives, since the run only stops at the next trial
// boundary.
func runWithInterruptNotice(ctx context.Context, exp *orchestration.Experiment, logger logging.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		return exp.Run(gctx)
	})
	g.Go(func() error {
		select {
		case <-done:
		case <-ctx.Done():
			logger.Info("interrupt received, stopping after the current trial")
		}
		return nil
	})
	return g.Wait()
}

func newRecorder(workers *pool.Pool, acc *stats.Accumulator) *metrics.Recorder {
	r := metrics.NewRecorder()
	r.RegisterGauge("pool_workers", "Live pool worker goroutines.", func() float64 {
		return float64(workers.Workers())
	})
	r.RegisterGauge("pool_idle_workers", "Pool workers waiting for a task.", func() float64 {
		return float64(workers.Idle())
	})
	r.RegisterGauge("payload_executions", "Worker payload executions so far.", func() float64 {
		return float64(acc.Executions())
	})
	return r
}

func logFailure(logger logging.Logger, err error) {
	var trialErr apperrors.TrialError
	switch {
	case apperrors.IsContextError(err):
		logger.Info("run canceled", logging.Err(err))
	case errors.As(err, &trialErr):
		logger.Error("trial failed", trialErr.Cause,
			logging.String("strategy", trialErr.Strategy),
			logging.Int("sweep", trialErr.Sweep),
			logging.Int("trial", trialErr.Trial),
		)
	default:
		logger.Error("run failed", err)
	}
}

// shutdownPool stops the pool, giving up after shutdownGrace so that a
// worker stuck in a broken trial cannot hold the process.
func shutdownPool(p *pool.Pool, logger logging.Logger) {
	done := make(chan struct{})
	go func() {
		p.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownGrace):
		logger.Error("pool workers still running at exit", nil, logging.Int("workers", p.Workers()))
	}
}

func (a *Application) logger() logging.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	level := zerolog.InfoLevel
	if a.Config.Verbose {
		level = zerolog.DebugLevel
	}
	zl := logging.NewConsoleLogger(a.ErrWriter, a.Config.NoColor).Zerolog().Level(level)
	return logging.NewZerologAdapter(zl)
}

// IsHelpError checks if the error is a help flag error (-h or -help).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
