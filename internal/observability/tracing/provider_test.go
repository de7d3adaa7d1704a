package tracing

import (
	"context"
	"testing"

	"github.com/smallbiznis/demandcast/pkg/telemetry/correlation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"
)

func TestNewProviderWithoutExport(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	tp, err := NewProvider(lc, Config{ServiceName: "demandcast", SamplingRatio: 1}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp)

	lc.RequireStart()
	lc.RequireStop()
}

func TestNewExporterRejectsUnknownProtocol(t *testing.T) {
	_, err := newExporter(context.Background(), Config{ExporterProtocol: "udp"})
	require.Error(t, err)
}

func TestRunIDSpanProcessorTagsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(runIDSpanProcessor{}),
		sdktrace.WithSpanProcessor(recorder),
	)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx := correlation.ContextWithRunID(context.Background(), "run-42")
	_, span := tp.Tracer("test").Start(ctx, "pipeline.train")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes(), attribute.String("pipeline.run_id", "run-42"))
}
