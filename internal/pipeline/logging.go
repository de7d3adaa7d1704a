package pipeline

import (
	"context"
	"time"

	obslogger "github.com/smallbiznis/demandcast/internal/observability/logger"
	"go.uber.org/zap"
)

type stageRun struct {
	stage          string
	startedAt      time.Time
	processedCount int
	err            error
}

func (r *stageRun) AddProcessed(count int) {
	if r == nil || count <= 0 {
		return
	}
	r.processedCount += count
}

func (r *Runner) logger(ctx context.Context) *zap.Logger {
	return obslogger.WithContext(ctx, r.log)
}

func (r *Runner) stageLogger(ctx context.Context, stage string) *zap.Logger {
	return obslogger.WithStage(r.logger(ctx), stage)
}

func (r *Runner) logStageStart(ctx context.Context, run *stageRun) {
	r.stageLogger(ctx, run.stage).Info("pipeline.stage.start")
}

func (r *Runner) logStageFinish(ctx context.Context, run *stageRun, status StageStatus) {
	fields := []zap.Field{
		zap.String("status", string(status)),
		zap.Int64("duration_ms", r.clock.Now().Sub(run.startedAt).Milliseconds()),
		zap.Int("processed_count", run.processedCount),
	}
	log := r.stageLogger(ctx, run.stage)
	if run.err != nil {
		log.Error("pipeline.stage.finish", append(fields, zap.Error(run.err))...)
		return
	}
	log.Info("pipeline.stage.finish", fields...)
}

func (r *Runner) logStageSkipped(ctx context.Context, stage, reason string) {
	r.stageLogger(ctx, stage).Info("pipeline.stage.skipped", zap.String("reason", reason))
}
