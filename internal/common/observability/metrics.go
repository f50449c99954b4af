package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Options struct {
	ServiceName    string
	JaegerEndpoint string // empty disables tracing export
	SampleRatio    float64
	Registerer     promclient.Registerer // defaults to the global registry
}

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
	capacityFactor otelmetric.Float64Histogram
}

// New wires otel metrics to the Prometheus exporter and, when a Jaeger endpoint is
// configured, installs a batching tracer provider as the global provider.
func New(opts Options) (*Observability, error) {
	if opts.ServiceName == "" {
		opts.ServiceName = "wind-workers"
	}

	var exporterOpts []prometheus.Option
	if opts.Registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(opts.Registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", opts.ServiceName))

	provider := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	otel.SetMeterProvider(provider)

	o := &Observability{
		meterProvider: provider,
		meter:         provider.Meter(opts.ServiceName),
	}

	if opts.JaegerEndpoint != "" {
		traceExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(opts.JaegerEndpoint)))
		if err != nil {
			return nil, fmt.Errorf("create jaeger exporter: %w", err)
		}
		o.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.SampleRatio))),
		)
		otel.SetTracerProvider(o.tracerProvider)
	}
	o.tracer = otel.Tracer(opts.ServiceName)

	o.jobCounter, _ = o.meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	o.jobDuration, _ = o.meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	o.capacityFactor, _ = o.meter.Float64Histogram(
		"projection.capacity_factor",
		otelmetric.WithDescription("Capacity factor of computed projections"),
	)

	return o, nil
}

// StartSpan starts a span on the service tracer. Without a configured exporter the
// global no-op tracer is used.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := o.tracer
	if tracer == nil {
		tracer = otel.Tracer("wind-workers")
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) TracingEnabled() bool {
	return o.tracerProvider != nil
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

func (o *Observability) RecordCapacityFactor(ctx context.Context, formula string, cf float64) {
	if o.capacityFactor != nil {
		o.capacityFactor.Record(ctx, cf, otelmetric.WithAttributes(
			attribute.String("formula", formula),
		))
	}
}

// JobRecorder adapts Observability to the per-worker recorder interface.
func (o *Observability) JobRecorder(taskType string) func(ctx context.Context, status string, d time.Duration) {
	return func(ctx context.Context, status string, d time.Duration) {
		o.RecordJobProcessed(ctx, taskType, status)
		o.RecordJobDuration(ctx, taskType, d, status)
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
