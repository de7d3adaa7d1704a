package observability

import (
	"os"
	"strconv"
	"strings"

	"github.com/smallbiznis/demandcast/internal/config"
)

// Config groups the logging, tracing and metrics settings of one process.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	Log     LogConfig
	Tracing TraceConfig

	PushgatewayURL string
}

type LogConfig struct {
	Level  string
	Format string
}

// TraceConfig exports nothing unless OTEL_ENABLED is set.
type TraceConfig struct {
	Enabled       bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
}

// LoadConfig starts from the application config and applies the standard
// OTEL_* and LOG_* environment overrides.
func LoadConfig(cfg config.Config) Config {
	out := Config{
		ServiceName:    firstNonEmpty(cfg.AppName, "demandcast"),
		Environment:    envString("DEPLOYMENT_ENV", cfg.Environment),
		Version:        envString("SERVICE_VERSION", cfg.AppVersion),
		PushgatewayURL: strings.TrimSpace(cfg.Metrics.PushgatewayURL),
		Log: LogConfig{
			Level:  strings.ToLower(envString("LOG_LEVEL", "info")),
			Format: strings.ToLower(envString("LOG_FORMAT", "json")),
		},
		Tracing: TraceConfig{
			Enabled:       envBool("OTEL_ENABLED", false),
			Endpoint:      envString("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint),
			Protocol:      strings.ToLower(envString("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")),
			SamplingRatio: envFloat("OTEL_SAMPLING_RATIO", 1),
		},
	}
	if p := envString("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", ""); p != "" {
		out.Tracing.Protocol = strings.ToLower(p)
	}
	return out
}

// Debug is true for debug logging or any development-like environment.
func (c Config) Debug() bool {
	if c.Log.Level == "debug" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func envString(key, def string) string {
	return firstNonEmpty(os.Getenv(key), def)
}

func envBool(key string, def bool) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return parsed
}

func envFloat(key string, def float64) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return def
	}
	return parsed
}
