package infrastructure

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"fracfocus/internal/config"
)

func TestTelemetry_ExportsTracesAndMetrics(t *testing.T) {
	dir := t.TempDir()
	cfg := config.TelemetryConfig{
		ServiceName:     "fracfocus-test",
		TracesFile:      filepath.Join(dir, "traces", "traces.json"),
		MetricsTextfile: filepath.Join(dir, "metrics", "fracfocus.prom"),
	}

	ctx := context.Background()
	tel, err := InitTelemetry(ctx, cfg, nil)
	require.NoError(t, err)

	stageCtx, end := tel.StartStage(WithRunID(ctx, "run-1"), "load")
	assert.True(t, trace.SpanContextFromContext(stageCtx).IsValid())
	tel.RecordRows(stageCtx, "load", 42)
	end(nil)

	_, endFailed := tel.StartStage(ctx, "filter")
	endFailed(errors.New("boom"))

	require.NoError(t, tel.Shutdown(ctx))

	metrics, err := os.ReadFile(cfg.MetricsTextfile)
	require.NoError(t, err)
	for _, series := range []string{
		`fracfocus_rows_total{`,
		`fracfocus_stage_duration_seconds_bucket{`,
		`stage="load"`,
	} {
		assert.Contains(t, string(metrics), series)
	}
	assert.NotContains(t, string(metrics), `"fracfocus.`)

	traces, err := os.ReadFile(cfg.TracesFile)
	require.NoError(t, err)
	assert.Contains(t, string(traces), "stage.load")
	assert.Contains(t, string(traces), "stage.filter")
	assert.Contains(t, string(traces), "run-1")
}

func TestTelemetry_NoExporters(t *testing.T) {
	ctx := context.Background()
	tel, err := InitTelemetry(ctx, config.TelemetryConfig{ServiceName: "fracfocus-test"}, nil)
	require.NoError(t, err)

	stageCtx, end := tel.StartStage(ctx, "render")
	assert.True(t, trace.SpanContextFromContext(stageCtx).IsValid())
	end(nil)

	assert.NoError(t, tel.Shutdown(ctx))
}
