package observe

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds OpenTelemetry instruments for sequences and plan runs.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	pulls        metric.Int64Counter
	values       metric.Int64Counter
	exhausted    metric.Int64Counter
	planRuns     metric.Int64Counter
	planDuration metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	pulls, err := meter.Int64Counter("seq.pulls",
		metric.WithDescription("Pull attempts on instrumented sequences"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seq.pulls counter: %w", err)
	}

	values, err := meter.Int64Counter("seq.values",
		metric.WithDescription("Values produced by instrumented sequences"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seq.values counter: %w", err)
	}

	exhausted, err := meter.Int64Counter("seq.exhausted",
		metric.WithDescription("Instrumented sequences that reached exhaustion"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seq.exhausted counter: %w", err)
	}

	planRuns, err := meter.Int64Counter("plan.runs",
		metric.WithDescription("Plan runs by plan and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating plan.runs counter: %w", err)
	}

	planDuration, err := meter.Float64Histogram("plan.duration",
		metric.WithDescription("Duration of plan runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating plan.duration histogram: %w", err)
	}

	return &Metrics{
		pulls:        pulls,
		values:       values,
		exhausted:    exhausted,
		planRuns:     planRuns,
		planDuration: planDuration,
	}, nil
}

// NopMetrics returns instruments backed by the noop provider.
func NopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter("noop"))
	return m
}

// RecordPull records a pull attempt on the named sequence.
func (m *Metrics) RecordPull(ctx context.Context, name string, produced bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrSequence, name))
	m.pulls.Add(ctx, 1, attrs)
	if produced {
		m.values.Add(ctx, 1, attrs)
	} else {
		m.exhausted.Add(ctx, 1, attrs)
	}
}

// RecordPlanRun records a completed plan run.
func (m *Metrics) RecordPlanRun(ctx context.Context, plan, terminal, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.planRuns.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrPlan, plan),
		attribute.String(AttrTerminal, terminal),
		attribute.String(AttrStatus, status),
	))
	m.planDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrPlan, plan),
	))
}
