package main

import (
	"context"
	"flag"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/demandcast/internal/catalog"
	"github.com/smallbiznis/demandcast/internal/clock"
	"github.com/smallbiznis/demandcast/internal/config"
	"github.com/smallbiznis/demandcast/internal/forecast"
	"github.com/smallbiznis/demandcast/internal/insight"
	"github.com/smallbiznis/demandcast/internal/migration"
	"github.com/smallbiznis/demandcast/internal/observability"
	"github.com/smallbiznis/demandcast/internal/pipeline"
	"github.com/smallbiznis/demandcast/internal/sales"
	"github.com/smallbiznis/demandcast/internal/training"
	"github.com/smallbiznis/demandcast/pkg/db"
	"github.com/smallbiznis/demandcast/pkg/lock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	stages := flag.String("stages", "", "comma separated stages to run (generate,train,project,synthesize)")
	flag.Parse()

	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		lock.Module,
		migration.Module,

		catalog.Module,
		sales.Module,
		training.Module,
		forecast.Module,
		insight.Module,
		pipeline.Module,

		fx.Decorate(func(cfg config.Config) config.Config {
			if selected := splitStages(*stages); len(selected) > 0 {
				cfg.Pipeline.Stages = selected
			}
			return cfg
		}),
		fx.Invoke(RunPipeline),
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}

// RunPipeline runs the selected stages once, then shuts the app down. The
// process exits non-zero when any stage failed.
func RunPipeline(lc fx.Lifecycle, shutdowner fx.Shutdowner, runner *pipeline.Runner, log *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				report, err := runner.Run(ctx)
				if err != nil {
					code = 1
					log.Error("demandcast.run.failed", zap.String("run_id", report.RunID), zap.Error(err))
				}
				if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					log.Error("demandcast.shutdown.failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func splitStages(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
