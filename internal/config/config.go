package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	CatalogConfigPath string
	ModelArtifactPath string
	SnowflakeNode     int64

	Pipeline PipelineConfig
	Insight  InsightConfig
	Redis    RedisConfig
	Metrics  MetricsConfig
}

type PipelineConfig struct {
	Stages              []string
	ForecastHorizonDays int
}

type InsightConfig struct {
	Store          string
	Table          string
	AWSRegion      string
	DynamoEndpoint string
	TextProvider   string
	GeminiAPIKey   string
	GeminiModel    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MetricsConfig struct {
	PushgatewayURL string
}

const (
	InsightStoreSQL    = "sql"
	InsightStoreDynamo = "dynamodb"

	TextProviderGemini   = "gemini"
	TextProviderTemplate = "template"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	geminiKey := strings.TrimSpace(getenv("GEMINI_API_KEY", ""))
	textProvider := TextProviderTemplate
	if geminiKey != "" {
		textProvider = TextProviderGemini
	}

	cfg := Config{
		AppName:      getenv("APP_SERVICE", "demandcast"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  getenv("ENVIRONMENT", "development"),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "inventory"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBPath:            getenv("DATABASE_PATH", "demandcast.db"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),

		CatalogConfigPath: strings.TrimSpace(getenv("CATALOG_CONFIG", "")),
		ModelArtifactPath: getenv("MODEL_ARTIFACT_PATH", "var/seasonal_models.bin"),
		SnowflakeNode:     getenvInt64("SNOWFLAKE_NODE", 1),

		Pipeline: PipelineConfig{
			Stages:              splitList(getenv("PIPELINE_STAGES", "")),
			ForecastHorizonDays: getenvInt("FORECAST_HORIZON_DAYS", 30),
		},
		Insight: InsightConfig{
			Store:          strings.ToLower(getenv("INSIGHT_STORE", InsightStoreSQL)),
			Table:          getenv("INSIGHT_TABLE", "llm_insights"),
			AWSRegion:      getenv("AWS_REGION", "us-east-1"),
			DynamoEndpoint: strings.TrimSpace(getenv("DYNAMODB_ENDPOINT", "")),
			TextProvider:   strings.ToLower(getenv("TEXTGEN_PROVIDER", textProvider)),
			GeminiAPIKey:   geminiKey,
			GeminiModel:    getenv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getenvInt("REDIS_DB", 0),
		},
		Metrics: MetricsConfig{
			PushgatewayURL: strings.TrimSpace(getenv("PUSHGATEWAY_URL", "")),
		},
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
