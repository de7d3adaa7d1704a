package logger

import (
	"context"
	"testing"

	"github.com/smallbiznis/demandcast/pkg/telemetry/correlation"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextAddsRunID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := correlation.ContextWithRunID(context.Background(), "01HZZRUN")
	WithStage(WithContext(ctx, base), "train").Info("pipeline.stage.start")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	assert.Equal(t, "01HZZRUN", fields["run_id"])
	assert.Equal(t, "train", fields["stage"])
	_, hasTrace := fields["trace_id"]
	assert.False(t, hasTrace)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(nil, Config{Level: "loud"})
	if err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestOperationFromSQL(t *testing.T) {
	assert.Equal(t, "INSERT", operationFromSQL("insert into forecast_points (id) values (1)"))
	assert.Equal(t, "SELECT", operationFromSQL("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.Equal(t, "DELETE", operationFromSQL(" DELETE FROM invoice_lines"))
	assert.Equal(t, "UNKNOWN", operationFromSQL(""))
}
