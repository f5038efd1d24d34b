package observe

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/seqkit/logger"
)

// ProviderConfig configures the in-process OpenTelemetry providers.
type ProviderConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Metrics        bool
	Tracing        bool
}

// Providers holds the SDK providers installed by Setup.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *sdkmetric.MeterProvider
	reader *sdkmetric.ManualReader
	log    *logger.Logger
}

// Setup installs SDK providers as the global otel providers. Ended spans
// are logged at debug level; metrics are collected and logged on Shutdown.
// Disabled signals keep the global noop providers. A nil log uses the
// registered observe and trace component loggers.
func Setup(cfg ProviderConfig, log *logger.Logger) (*Providers, error) {
	var traceLog *logger.Logger
	if log == nil {
		log = logger.Get(logger.ComponentObserve)
		traceLog = logger.Get(logger.ComponentTrace)
	} else {
		traceLog = log.WithComponent(logger.ComponentTrace)
	}
	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	p := &Providers{log: log}
	if cfg.Tracing {
		p.Tracer = sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
			sdktrace.WithSpanProcessor(&logSpanProcessor{log: traceLog}),
		)
		otel.SetTracerProvider(p.Tracer)
	}
	if cfg.Metrics {
		p.reader = sdkmetric.NewManualReader()
		p.Meter = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(p.reader),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(p.Meter)
	}

	log.Debug("telemetry initialized", logger.Fields(
		logger.FieldService, cfg.ServiceName,
		"metrics", cfg.Metrics,
		"tracing", cfg.Tracing,
	))
	return p, nil
}

// Snapshot collects the current metric values keyed by instrument name.
// Counters report their sum, histograms their count.
func (p *Providers) Snapshot(ctx context.Context) (map[string]float64, error) {
	out := map[string]float64{}
	if p == nil || p.reader == nil {
		return out, nil
	}
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collecting metrics: %w", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += float64(dp.Value)
				}
			case metricdata.Sum[float64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += float64(dp.Count)
				}
			}
		}
	}
	return out, nil
}

// Shutdown logs a final metrics snapshot and shuts down both providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.Meter != nil {
		snapshot, err := p.Snapshot(ctx)
		if err != nil {
			errs = append(errs, err)
		} else if len(snapshot) > 0 {
			fields := make(map[string]interface{}, len(snapshot))
			for k, v := range snapshot {
				fields[k] = v
			}
			p.log.Info("metrics", fields)
		}
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func newResource(cfg ProviderConfig) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
}

// logSpanProcessor writes ended spans to the logger.
type logSpanProcessor struct {
	log *logger.Logger
}

func (p *logSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p *logSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	fields := logger.Fields(
		"span", s.Name(),
		logger.FieldTraceID, s.SpanContext().TraceID().String(),
		logger.FieldSpanID, s.SpanContext().SpanID().String(),
		logger.FieldDuration, s.EndTime().Sub(s.StartTime()).Milliseconds(),
	)
	for _, kv := range s.Attributes() {
		fields[string(kv.Key)] = kv.Value.Emit()
	}
	if s.Status().Code == codes.Error {
		fields[logger.FieldError] = s.Status().Description
		p.log.Warn("span ended", fields)
		return
	}
	p.log.Debug("span ended", fields)
}

func (p *logSpanProcessor) Shutdown(context.Context) error   { return nil }
func (p *logSpanProcessor) ForceFlush(context.Context) error { return nil }
