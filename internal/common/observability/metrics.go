package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Observability owns the OTel meter and tracer providers. Metrics are exported through
// the default Prometheus registry; finished spans are folded into a stage-duration
// histogram rather than shipped to a tracing backend.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
}

func New(serviceName string, log Logger) *Observability {
	obs := &Observability{}

	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("failed to create prometheus exporter, otel metrics disabled", map[string]interface{}{
			"error": err.Error(),
		})
		return obs
	}

	obs.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(obs.meterProvider)

	meter := obs.meterProvider.Meter(serviceName)

	obs.jobCounter, _ = meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	obs.jobDuration, _ = meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)

	stageDuration, err := meter.Float64Histogram(
		"pipeline.stage.duration",
		otelmetric.WithDescription("Duration of traced pipeline stages"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		log.Warn("failed to create stage histogram, tracing disabled", map[string]interface{}{
			"error": err.Error(),
		})
		return obs
	}

	obs.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(&spanMetricsProcessor{duration: stageDuration}),
	)
	otel.SetTracerProvider(obs.tracerProvider)

	return obs
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}

// spanMetricsProcessor records every ended span's duration by name and status.
type spanMetricsProcessor struct {
	duration otelmetric.Float64Histogram
}

func (p *spanMetricsProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p *spanMetricsProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	status := "ok"
	if s.Status().Code == codes.Error {
		status = "error"
	}
	elapsed := s.EndTime().Sub(s.StartTime())
	p.duration.Record(context.Background(), float64(elapsed.Microseconds())/1000, otelmetric.WithAttributes(
		attribute.String("stage", s.Name()),
		attribute.String("status", status),
	))
}

func (p *spanMetricsProcessor) Shutdown(context.Context) error { return nil }

func (p *spanMetricsProcessor) ForceFlush(context.Context) error { return nil }
