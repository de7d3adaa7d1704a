package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/demandcast/internal/clock"
	forecastdomain "github.com/smallbiznis/demandcast/internal/forecast/domain"
	insightdomain "github.com/smallbiznis/demandcast/internal/insight/domain"
	"github.com/smallbiznis/demandcast/internal/observability/metrics"
	"github.com/smallbiznis/demandcast/internal/observability/tracing"
	salesdomain "github.com/smallbiznis/demandcast/internal/sales/domain"
	trainingdomain "github.com/smallbiznis/demandcast/internal/training/domain"
	"github.com/smallbiznis/demandcast/pkg/lock"
	"github.com/smallbiznis/demandcast/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrUnknownStage = errors.New("unknown_stage")
	ErrPipelineBusy = errors.New("pipeline_busy")
)

type StageStatus string

const (
	StatusSucceeded StageStatus = "succeeded"
	StatusFailed    StageStatus = "failed"
	StatusSkipped   StageStatus = "skipped"
)

type StageResult struct {
	Stage    string
	Status   StageStatus
	Count    int
	Duration time.Duration
	Err      error
}

// Report summarizes one pipeline run in stage order.
type Report struct {
	RunID  string
	Stages []StageResult
}

func (r Report) Failed() bool {
	for _, s := range r.Stages {
		if s.Status == StatusFailed {
			return true
		}
	}
	return false
}

// runLocker is satisfied by *lock.Locker.
type runLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

type stageOutput struct {
	count   int
	records map[string]int
}

type stageFunc func(ctx context.Context) (stageOutput, error)

type Params struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	Config      Config
	Generator   salesdomain.Service
	Trainer     trainingdomain.Service
	Projector   forecastdomain.Service
	Synthesizer insightdomain.Service
	Locker      *lock.Locker             `optional:"true"`
	Metrics     *metrics.PipelineMetrics `optional:"true"`
	Pusher      metrics.Pusher           `optional:"true"`
}

// Runner executes the generate, train, project and synthesize stages in
// order. A failed stage stops every later stage.
type Runner struct {
	log     *zap.Logger
	clock   clock.Clock
	cfg     Config
	enabled map[string]bool
	stages  map[string]stageFunc
	locker  runLocker
	metrics *metrics.PipelineMetrics
	pusher  metrics.Pusher
}

func New(p Params) (*Runner, error) {
	if p.Generator == nil || p.Trainer == nil || p.Projector == nil || p.Synthesizer == nil {
		return nil, errors.New("pipeline: stage services are required")
	}
	cfg := p.Config.withDefaults()
	enabled, err := selectStages(cfg.Stages)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		log:     p.Log.Named("pipeline"),
		clock:   p.Clock,
		cfg:     cfg,
		enabled: enabled,
		metrics: p.Metrics,
		pusher:  p.Pusher,
	}
	if r.clock == nil {
		r.clock = clock.SystemClock{}
	}
	if p.Locker != nil {
		r.locker = p.Locker
	}
	r.stages = map[string]stageFunc{
		StageGenerate: func(ctx context.Context) (stageOutput, error) {
			res, err := p.Generator.Run(ctx)
			return stageOutput{
				count: res.InvoiceCount,
				records: map[string]int{
					metrics.ResourceInvoices:     res.InvoiceCount,
					metrics.ResourceInvoiceLines: res.LineCount,
				},
			}, err
		},
		StageTrain: func(ctx context.Context) (stageOutput, error) {
			res, err := p.Trainer.Run(ctx)
			return stageOutput{
				count:   len(res.Models),
				records: map[string]int{metrics.ResourceModels: len(res.Models)},
			}, err
		},
		StageProject: func(ctx context.Context) (stageOutput, error) {
			n, err := p.Projector.Run(ctx)
			return stageOutput{
				count:   n,
				records: map[string]int{metrics.ResourceForecastPoints: n},
			}, err
		},
		StageSynthesize: func(ctx context.Context) (stageOutput, error) {
			recs, err := p.Synthesizer.Run(ctx)
			return stageOutput{
				count:   len(recs),
				records: map[string]int{metrics.ResourceInsights: len(recs)},
			}, err
		},
	}
	return r, nil
}

// selectStages validates names and returns the enabled set. Empty means all.
func selectStages(names []string) (map[string]bool, error) {
	known := make(map[string]bool, len(Stages))
	for _, s := range Stages {
		known[s] = true
	}
	enabled := make(map[string]bool, len(Stages))
	if len(names) == 0 {
		for _, s := range Stages {
			enabled[s] = true
		}
		return enabled, nil
	}
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if !known[name] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStage, raw)
		}
		enabled[name] = true
	}
	if len(enabled) == 0 {
		return nil, fmt.Errorf("%w: no stages selected", ErrUnknownStage)
	}
	return enabled, nil
}

// Run executes the enabled stages once. The returned error wraps the first
// stage failure; the report is populated either way.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	ctx, runID := correlation.EnsureRunID(ctx)
	report := Report{RunID: runID}

	if r.locker != nil {
		token, ok, err := r.locker.TryLock(ctx, r.cfg.LockKey, r.cfg.LockTTL)
		if err != nil {
			return report, fmt.Errorf("acquire pipeline lock: %w", err)
		}
		if !ok {
			return report, ErrPipelineBusy
		}
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := r.locker.Release(releaseCtx, r.cfg.LockKey, token); err != nil {
				r.logger(ctx).Warn("pipeline.lock.release_failed", zap.Error(err))
			}
		}()
	}

	r.logger(ctx).Info("pipeline.run.start", zap.Strings("stages", r.enabledNames()))

	var firstErr error
	for _, stage := range Stages {
		if !r.enabled[stage] {
			report.Stages = append(report.Stages, StageResult{Stage: stage, Status: StatusSkipped})
			r.logStageSkipped(ctx, stage, "not_selected")
			continue
		}
		if firstErr != nil {
			report.Stages = append(report.Stages, StageResult{Stage: stage, Status: StatusSkipped})
			r.logStageSkipped(ctx, stage, "previous_stage_failed")
			continue
		}
		result := r.runStage(ctx, stage)
		report.Stages = append(report.Stages, result)
		if result.Err != nil {
			firstErr = fmt.Errorf("%s: %w", stage, result.Err)
		}
	}

	r.push(ctx)

	fields := []zap.Field{zap.Bool("failed", firstErr != nil)}
	if firstErr != nil {
		r.logger(ctx).Error("pipeline.run.finish", append(fields, zap.Error(firstErr))...)
	} else {
		r.logger(ctx).Info("pipeline.run.finish", fields...)
	}
	return report, firstErr
}

func (r *Runner) runStage(ctx context.Context, stage string) StageResult {
	ctx, span := tracing.Tracer().Start(ctx, "pipeline."+stage,
		trace.WithAttributes(attribute.String("pipeline.stage", stage)),
	)
	defer span.End()

	stageCtx, cancel := context.WithTimeout(ctx, r.cfg.StageTimeout)
	defer cancel()

	run := &stageRun{stage: stage, startedAt: r.clock.Now()}
	r.metrics.IncStageRun(stage)
	r.logStageStart(ctx, run)

	out, err := r.stages[stage](stageCtx)
	duration := r.clock.Now().Sub(run.startedAt)
	r.metrics.ObserveStageDuration(stage, duration)

	result := StageResult{Stage: stage, Duration: duration}
	if err != nil {
		run.err = err
		r.metrics.IncStageError(stage, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		result.Status = StatusFailed
		result.Err = err
		r.logStageFinish(ctx, run, result.Status)
		return result
	}

	run.AddProcessed(out.count)
	for resource, n := range out.records {
		r.metrics.AddRecordsWritten(stage, resource, n)
	}
	r.metrics.SetLastSuccess(stage, r.clock.Now())
	span.SetAttributes(attribute.Int("pipeline.processed_count", out.count))

	result.Status = StatusSucceeded
	result.Count = out.count
	r.logStageFinish(ctx, run, result.Status)
	return result
}

func (r *Runner) push(ctx context.Context) {
	if r.pusher == nil || r.metrics == nil {
		return
	}
	if err := r.pusher.Push(ctx, r.metrics.Registry()); err != nil {
		r.logger(ctx).Warn("pipeline.metrics.push_failed", zap.Error(err))
	}
}

func (r *Runner) enabledNames() []string {
	names := make([]string, 0, len(Stages))
	for _, s := range Stages {
		if r.enabled[s] {
			names = append(names, s)
		}
	}
	return names
}
