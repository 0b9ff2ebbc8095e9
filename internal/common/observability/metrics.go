package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"checklist-audit-workers/internal/common/logger"
)

// Observability owns the OpenTelemetry meter used by job handlers. The
// prometheus exporter registers with the default registry, so readings are
// served by the same /metrics endpoint as the promauto collectors.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
	listsAudited  otelmetric.Int64Counter
}

// New builds the meter provider. Exporter failures leave a no-op recorder.
func New(serviceName string, log logger.Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err})
		return &Observability{}
	}
	return newWithReader(serviceName, metric.WithReader(exporter))
}

func newWithReader(serviceName string, opt metric.Option) *Observability {
	provider := metric.NewMeterProvider(opt)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	jobCounter, _ := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)

	jobDuration, _ := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)

	listsAudited, _ := meter.Int64Counter(
		"lists.audited",
		otelmetric.WithDescription("Checklist instances audited"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		jobCounter:    jobCounter,
		jobDuration:   jobDuration,
		listsAudited:  listsAudited,
	}
}

// RecordJob counts one processed job and its duration.
func (o *Observability) RecordJob(ctx context.Context, taskType, status string, duration time.Duration) {
	if o == nil || o.jobCounter == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	)
	o.jobCounter.Add(ctx, 1, attrs)
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordListsAudited counts lists passed through the integrity engine.
func (o *Observability) RecordListsAudited(ctx context.Context, taskType string, n int) {
	if o == nil || o.listsAudited == nil || n <= 0 {
		return
	}
	o.listsAudited.Add(ctx, int64(n), otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
