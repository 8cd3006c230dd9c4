package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"fracfocus/internal/config"
)

const (
	// InstrumentationName names the tracer and meter of the pipeline
	InstrumentationName = "fracfocus/analysis"
)

// Telemetry holds the OpenTelemetry providers of one process.
// Tracing always produces valid span contexts (so logs carry trace_id);
// spans are only exported when a traces file is configured. Metrics are
// collected into a private Prometheus registry and written as a
// node-exporter textfile on Shutdown when a path is configured.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *prometheus.Registry
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *PipelineMetrics

	metricsTextfile string
	traceFile       *os.File
	logger          *slog.Logger
}

// PipelineMetrics are the instruments recorded by an analysis run
type PipelineMetrics struct {
	Rows           metric.Int64Counter
	StageDuration  metric.Float64Histogram
	ChartsRendered metric.Int64Counter
	SuppliersKept  metric.Int64Gauge
	HTTPRequests   metric.Int64Counter
}

// InitTelemetry creates tracer and meter providers from configuration
func InitTelemetry(ctx context.Context, cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(config.AppVersion),
	)

	t := &Telemetry{
		metricsTextfile: cfg.MetricsTextfile,
		logger:          logger,
	}

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.TracesFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.TracesFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create traces directory: %w", err)
		}
		f, err := os.OpenFile(cfg.TracesFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open traces file: %w", err)
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.traceFile = f
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}
	t.TracerProvider = sdktrace.NewTracerProvider(tpOpts...)
	t.Tracer = t.TracerProvider.Tracer(InstrumentationName, trace.WithInstrumentationVersion(config.AppVersion))

	t.Registry = prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.MeterProvider.Meter(InstrumentationName, metric.WithInstrumentationVersion(config.AppVersion))

	t.Metrics, err = CreatePipelineMetrics(t.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.Bool("traces_exported", cfg.TracesFile != ""),
		slog.String("metrics_textfile", cfg.MetricsTextfile))

	return t, nil
}

// CreatePipelineMetrics creates the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rows, err := meter.Int64Counter(
		"fracfocus_rows",
		metric.WithDescription("Rows leaving each pipeline stage"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"fracfocus_stage_duration",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	charts, err := meter.Int64Counter(
		"fracfocus_charts_rendered",
		metric.WithDescription("Charts rendered"),
	)
	if err != nil {
		return nil, err
	}

	suppliers, err := meter.Int64Gauge(
		"fracfocus_suppliers_kept",
		metric.WithDescription("Suppliers remaining in the usage pivot after the threshold"),
	)
	if err != nil {
		return nil, err
	}

	httpRequests, err := meter.Int64Counter(
		"fracfocus_http_requests",
		metric.WithDescription("Viewer HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		Rows:           rows,
		StageDuration:  stageDuration,
		ChartsRendered: charts,
		SuppliersKept:  suppliers,
		HTTPRequests:   httpRequests,
	}, nil
}

// StartStage opens a span for a pipeline stage. The returned function ends
// the span, records the stage duration and marks the span failed when err is
// not nil.
func (t *Telemetry) StartStage(ctx context.Context, stage string) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := t.Tracer.Start(ctx, "stage."+stage,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("stage.name", stage),
			attribute.String("run.id", GetRunID(ctx)),
		),
	)

	return ctx, func(err error) {
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		t.Metrics.StageDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(
				attribute.String("stage", stage),
				attribute.String("status", status),
			),
		)
		span.End()
	}
}

// RecordRows records the number of rows leaving a stage
func (t *Telemetry) RecordRows(ctx context.Context, stage string, n int) {
	t.Metrics.Rows.Add(ctx, int64(n), metric.WithAttributes(attribute.String("stage", stage)))
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("stage.rows", n))
}

// Shutdown writes the metrics textfile, then flushes and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.metricsTextfile != "" {
		if err := os.MkdirAll(filepath.Dir(t.metricsTextfile), 0755); err != nil {
			errs = append(errs, fmt.Errorf("create metrics directory: %w", err))
		} else if err := prometheus.WriteToTextfile(t.metricsTextfile, t.Registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics textfile: %w", err))
		} else {
			t.logger.InfoContext(ctx, "Metrics written", slog.String("path", t.metricsTextfile))
		}
	}

	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
	}
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
	}
	if t.traceFile != nil {
		if err := t.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close traces file: %w", err))
		}
	}

	return errors.Join(errs...)
}
