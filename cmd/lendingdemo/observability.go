package main

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/AntonStoeckl/lending-domain-go/shell"
	"github.com/AntonStoeckl/lending-domain-go/shell/config"
	"github.com/AntonStoeckl/lending-domain-go/shell/observable"
	"github.com/AntonStoeckl/lending-domain-go/shell/oteladapters"
)

// observability holds the adapters handed to the command wrappers. Nil adapters are switched off.
type observability struct {
	logger           *oteladapters.SlogBridgeLogger
	metricsCollector *oteladapters.MetricsCollector
	tracingCollector *oteladapters.TracingCollector

	tracerProvider *trace.TracerProvider
	meterProvider  *metric.MeterProvider
	metricReader   *metric.ManualReader
}

func newObservability(cfg config.ObservabilityConfig, logger *oteladapters.SlogBridgeLogger) (*observability, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName)),
	)
	if err != nil {
		return nil, err
	}

	obs := &observability{logger: logger}

	if cfg.TracingEnabled {
		obs.tracerProvider = trace.NewTracerProvider(trace.WithResource(res))
		otel.SetTracerProvider(obs.tracerProvider)
		obs.tracingCollector = oteladapters.NewTracingCollector(obs.tracerProvider.Tracer(cfg.ServiceName))
	}

	if cfg.MetricsEnabled {
		obs.metricReader = metric.NewManualReader()
		obs.meterProvider = metric.NewMeterProvider(metric.WithReader(obs.metricReader), metric.WithResource(res))
		otel.SetMeterProvider(obs.meterProvider)
		obs.metricsCollector = oteladapters.NewMetricsCollector(obs.meterProvider.Meter(cfg.ServiceName))
	}

	return obs, nil
}

func wrap[C shell.Command](obs *observability, handler shell.CoreCommandHandler[C]) (*observable.CommandWrapper[C], error) {
	opts := []observable.CommandOption[C]{observable.WithCommandContextualLogging[C](obs.logger)}

	if obs.metricsCollector != nil {
		opts = append(opts, observable.WithCommandMetrics[C](obs.metricsCollector))
	}

	if obs.tracingCollector != nil {
		opts = append(opts, observable.WithCommandTracing[C](obs.tracingCollector))
	}

	return observable.NewCommandWrapper(handler, opts...)
}

// ReportMetrics logs every collected metric with its number of data points.
func (o *observability) ReportMetrics(ctx context.Context) {
	if o.metricReader == nil {
		return
	}

	var rm metricdata.ResourceMetrics
	if err := o.metricReader.Collect(ctx, &rm); err != nil {
		o.logger.ErrorContext(ctx, "collecting metrics failed", shell.LogAttrError, err.Error())
		return
	}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			o.logger.InfoContext(ctx, "metric collected", "name", m.Name, "data_points", dataPointCount(m.Data))
		}
	}
}

func (o *observability) Shutdown(ctx context.Context) error {
	var errs []error

	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}

	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}

	return errors.Join(errs...)
}

func dataPointCount(data metricdata.Aggregation) int {
	switch d := data.(type) {
	case metricdata.Histogram[float64]:
		return len(d.DataPoints)
	case metricdata.Sum[int64]:
		return len(d.DataPoints)
	case metricdata.Gauge[float64]:
		return len(d.DataPoints)
	default:
		return 0
	}
}
