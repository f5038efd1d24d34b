package observe

import (
	"context"
	"time"
)

// RunContext holds observability context for one plan run.
type RunContext struct {
	RunID     string
	Plan      string
	Terminal  string
	StartTime time.Time
	Metrics   *Metrics
}

// NewRunContext creates a run context. If metrics is nil, metric recording
// is skipped.
func NewRunContext(runID, plan, terminal string, metrics *Metrics) *RunContext {
	return &RunContext{
		RunID:     runID,
		Plan:      plan,
		Terminal:  terminal,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

type runContextKey struct{}

// WithRunContext stores a RunContext in the context.
func WithRunContext(ctx context.Context, rc *RunContext) context.Context {
	return context.WithValue(ctx, runContextKey{}, rc)
}

// RunContextFromContext retrieves the RunContext from context, or nil.
func RunContextFromContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runContextKey{}).(*RunContext); ok {
		return rc
	}
	return nil
}

// Start opens the run span and tags it with the run attributes.
func (rc *RunContext) Start(ctx context.Context) (context.Context, func(err error)) {
	ctx, span := StartSpan(ctx, SpanPlanRun)
	SetSpanAttribute(ctx, AttrRunID, rc.RunID)
	SetSpanAttribute(ctx, AttrPlan, rc.Plan)
	SetSpanAttribute(ctx, AttrTerminal, rc.Terminal)
	ctx = WithRunContext(ctx, rc)

	return ctx, func(err error) {
		status := "ok"
		if err != nil {
			status = "error"
			SetSpanError(ctx, err)
		}
		rc.Metrics.RecordPlanRun(ctx, rc.Plan, rc.Terminal, status, time.Since(rc.StartTime))
		span.End()
	}
}

// Elapsed returns the time since the run started.
func (rc *RunContext) Elapsed() time.Duration {
	return time.Since(rc.StartTime)
}
