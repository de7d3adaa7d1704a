package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("TEXTGEN_PROVIDER", "")
	t.Setenv("PIPELINE_STAGES", "")
	t.Setenv("FORECAST_HORIZON_DAYS", "")

	cfg := Load()
	assert.Equal(t, 30, cfg.Pipeline.ForecastHorizonDays)
	assert.Empty(t, cfg.Pipeline.Stages)
	assert.Equal(t, TextProviderTemplate, cfg.Insight.TextProvider)
	assert.Equal(t, InsightStoreSQL, cfg.Insight.Store)
}

func TestLoadGeminiKeySelectsGemini(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("TEXTGEN_PROVIDER", "")

	cfg := Load()
	assert.Equal(t, TextProviderGemini, cfg.Insight.TextProvider)
}

func TestLoadParsesStagesAndInts(t *testing.T) {
	t.Setenv("PIPELINE_STAGES", " Train, project ,,")
	t.Setenv("FORECAST_HORIZON_DAYS", "14")
	t.Setenv("SNOWFLAKE_NODE", "not-a-number")

	cfg := Load()
	assert.Equal(t, []string{"train", "project"}, cfg.Pipeline.Stages)
	assert.Equal(t, 14, cfg.Pipeline.ForecastHorizonDays)
	assert.Equal(t, int64(1), cfg.SnowflakeNode)
}
