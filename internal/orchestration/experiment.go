package orchestration

import (
	"context"
	"io"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/cojoin/internal/cojoiner"
	apperrors "github.com/agbru/cojoin/internal/errors"
	"github.com/agbru/cojoin/internal/logging"
	"github.com/agbru/cojoin/internal/stats"
	"github.com/agbru/cojoin/internal/sysmon"
)

const (
	// ProgressBufferSize is the capacity of the progress channel.
	ProgressBufferSize = 16
	// ProgressInterval is the number of trials between two progress
	// updates within a block.
	ProgressInterval = 256

	tracerName = "github.com/agbru/cojoin/internal/orchestration"
)

// Experiment runs Sweeps rounds over the selected strategies, Trials trials
// per strategy and round, each trial against a freshly built cojoiner.
type Experiment struct {
	Sweeps  int
	Trials  int
	Parties int

	// Factory provides the strategies; Strategies selects among them by
	// name, empty or "all" meaning every registered strategy.
	Factory    *cojoiner.Factory
	Strategies []string

	Runner TrialRunner
	Stats  *stats.Accumulator

	Presenter   ResultPresenter
	Out         io.Writer
	Progress    ProgressReporter
	ProgressOut io.Writer
	Metrics     MetricsRecorder
	Logger      logging.Logger
	// Sampler, if set, is sampled after every sweep and logged at debug
	// level.
	Sampler func() sysmon.Stats

	// ResetPerSweep clears a strategy's figures before each of its blocks,
	// so every printed line covers one sweep only. Otherwise the figures
	// accumulate over the whole run.
	ResetPerSweep bool
	// Summary presents a final ranking after the last sweep.
	Summary bool
}

// Run executes the experiment. The first failing trial aborts the run with
// an apperrors.TrialError; lines already presented stay valid.
// Cancellation of ctx is honored between trials only.
func (e *Experiment) Run(ctx context.Context) error {
	strategies, err := e.Factory.Select(e.Strategies)
	if err != nil {
		return err
	}
	if e.Sweeps < 0 || e.Trials < 0 {
		return apperrors.NewConfigError("sweeps and trials must not be negative (got %d, %d)", e.Sweeps, e.Trials)
	}

	e.logger().Info("experiment starting",
		logging.Int("sweeps", e.Sweeps),
		logging.Int("trials", e.Trials),
		logging.Int("parties", e.Parties),
		logging.Int("strategies", len(strategies)),
	)

	progressChan := make(chan ProgressUpdate, ProgressBufferSize)
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go e.progress().DisplayProgress(&displayWg, progressChan, e.ProgressOut)

	err = e.runSweeps(ctx, strategies, progressChan)
	close(progressChan)
	displayWg.Wait()
	if err != nil {
		return err
	}

	if e.Summary {
		names := make([]string, len(strategies))
		for i, s := range strategies {
			names[i] = s.Name
		}
		e.Presenter.PresentSummary(Rank(e.Stats, names), e.Out)
	}
	e.logger().Info("experiment complete", logging.Int64("executions", e.Stats.Executions()))
	return nil
}

func (e *Experiment) runSweeps(ctx context.Context, strategies []cojoiner.Strategy, updates chan<- ProgressUpdate) error {
	tracer := otel.Tracer(tracerName)
	for sweep := 0; sweep < e.Sweeps; sweep++ {
		sctx, span := tracer.Start(ctx, "sweep", trace.WithAttributes(attribute.Int("sweep", sweep)))
		for block, s := range strategies {
			pos := ProgressUpdate{
				Sweep: sweep, Sweeps: e.Sweeps,
				Strategy: s.Name,
				Block:    block, Blocks: len(strategies),
				Trials: e.Trials,
			}
			if err := e.runBlock(sctx, s, pos, updates); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				span.End()
				return err
			}
		}
		span.End()

		e.Presenter.PresentSweepEnd(sweep, e.Out)
		e.logSweep(sweep)
	}
	return nil
}

// runBlock runs every trial of one strategy in one sweep and presents its
// figures.
func (e *Experiment) runBlock(ctx context.Context, s cojoiner.Strategy, pos ProgressUpdate, updates chan<- ProgressUpdate) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, s.Name,
		trace.WithAttributes(attribute.String("strategy", s.Name), attribute.Int("trials", e.Trials)))
	defer span.End()

	if e.ResetPerSweep {
		e.Stats.Reset(s.Name)
	}
	send(updates, pos)

	for i := 0; i < e.Trials; i++ {
		if err := ctx.Err(); err != nil {
			return apperrors.WrapError(err, "%s stopped in sweep %d after %d trials", s.Name, pos.Sweep, i)
		}
		res, err := e.Runner.Run(s.New(e.Parties))
		if err != nil {
			e.metrics().ObserveFailure(s.Name)
			span.RecordError(err)
			span.SetStatus(codes.Error, "trial failed")
			return apperrors.TrialError{Strategy: s.Name, Sweep: pos.Sweep, Trial: i, Cause: err}
		}
		e.Stats.Observe(s.Name, res.Skews)
		e.metrics().ObserveTrial(s.Name, res)

		if done := i + 1; done%ProgressInterval == 0 || done == e.Trials {
			pos.Trial = done
			send(updates, pos)
		}
	}

	agg := e.Stats.Snapshot(s.Name)
	span.SetAttributes(attribute.Int64("skew.max", agg.Max), attribute.Int64("skew.total", agg.Total))
	e.Presenter.PresentBlock(s.Name, agg, e.Out)
	return nil
}

func (e *Experiment) logSweep(sweep int) {
	fields := []logging.Field{
		logging.Int("sweep", sweep),
		logging.Int64("executions", e.Stats.Executions()),
	}
	if e.Sampler != nil {
		s := e.Sampler()
		fields = append(fields,
			logging.Float64("cpu_percent", s.CPUPercent),
			logging.Float64("mem_percent", s.MemPercent),
			logging.Float64("load1", s.Load1),
		)
	}
	e.logger().Debug("sweep complete", fields...)
}

// send delivers u unless the reporter is behind.
func send(updates chan<- ProgressUpdate, u ProgressUpdate) {
	select {
	case updates <- u:
	default:
	}
}

func (e *Experiment) logger() logging.Logger {
	if e.Logger == nil {
		return logging.NewNopLogger()
	}
	return e.Logger
}

func (e *Experiment) progress() ProgressReporter {
	if e.Progress == nil {
		return NullProgressReporter{}
	}
	return e.Progress
}

func (e *Experiment) metrics() MetricsRecorder {
	if e.Metrics == nil {
		return NullMetrics{}
	}
	return e.Metrics
}
