package observability

import (
	"github.com/smallbiznis/demandcast/internal/observability/logger"
	"github.com/smallbiznis/demandcast/internal/observability/metrics"
	"github.com/smallbiznis/demandcast/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		provideLoggerConfig,
		logger.New,
		provideTracingConfig,
		tracing.NewProvider,
		provideMetricsConfig,
		providePipelineMetrics,
		metrics.NewPusher,
	),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

func provideLoggerConfig(cfg Config) logger.Config {
	return logger.Config{
		ServiceName:         cfg.ServiceName,
		Environment:         cfg.Environment,
		Version:             cfg.Version,
		Level:               cfg.Log.Level,
		Format:              cfg.Log.Format,
		IncludeCaller:       true,
		IncludeStackOnError: cfg.Debug(),
	}
}

func provideTracingConfig(cfg Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.Tracing.Enabled,
		ServiceName:      cfg.ServiceName,
		ServiceVersion:   cfg.Version,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.Tracing.Endpoint,
		ExporterProtocol: cfg.Tracing.Protocol,
		SamplingRatio:    cfg.Tracing.SamplingRatio,
	}
}

func provideMetricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		ServiceName:    cfg.ServiceName,
		Environment:    cfg.Environment,
		PushgatewayURL: cfg.PushgatewayURL,
	}
}

func providePipelineMetrics(cfg metrics.Config) *metrics.PipelineMetrics {
	return metrics.PipelineWithConfig(cfg)
}
