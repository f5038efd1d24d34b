package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/kbukum/seqkit/config"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/plan"
)

func newTestConfig(name string) *config.ServiceConfig {
	return &config.ServiceConfig{
		Name:        name,
		Environment: "development",
	}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(newTestConfig("seqrun"), WithLogger(logger.Nop()), WithVersion("1.0.0"))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "seqrun" || app.Version != "1.0.0" {
		t.Errorf("unexpected identity %q %q", app.Name, app.Version)
	}
	if app.Engine == nil || app.Loader == nil || app.Telemetry == nil {
		t.Error("expected engine, loader and telemetry to be set")
	}
	if app.Metrics != nil {
		t.Error("expected no metrics when disabled")
	}
	if *app.Cfg.Engine.DefaultDepth != 1 {
		t.Errorf("expected defaults applied, got depth %d", *app.Cfg.Engine.DefaultDepth)
	}
}

func TestNewAppRegistersComponentLoggers(t *testing.T) {
	defer logger.Reset()
	var buf bytes.Buffer
	base := logger.NewWithWriter(&buf, &logger.Config{Level: "debug", Format: "json"}, "seqrun")
	app, err := NewApp(newTestConfig("seqrun"), WithLogger(base))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	for _, name := range logger.Components {
		if _, ok := logger.Lookup(name); !ok {
			t.Errorf("expected %q logger to be registered", name)
		}
	}

	p, _ := plan.Parse([]byte("name: p\nsource: {values: [1]}\nterminal: {op: count}"))
	if _, err := app.Engine.Run(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"component":"observe"`, `"component":"plan"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestNewAppValidation(t *testing.T) {
	_, err := NewApp(&config.ServiceConfig{Environment: "development"}, WithLogger(logger.Nop()))
	if err == nil {
		t.Error("expected error for missing name")
	}
}

func TestNewAppWithOptions(t *testing.T) {
	r := plan.NewRegistry()
	app, err := NewApp(newTestConfig("seqrun"),
		WithLogger(logger.Nop()),
		WithGracefulTimeout(30*time.Second),
		WithRegistry(r),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.gracefulTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", app.gracefulTimeout)
	}

	// The empty registry has no "even" predicate.
	p, _ := plan.Parse([]byte("name: p\nsource: {values: [1]}\nstages: [{op: filter, fn: even}]\nterminal: {op: count}"))
	if _, err := app.Engine.Run(context.Background(), p); err == nil {
		t.Error("expected custom registry to be used")
	}
}

func TestRunTaskRunsPlanFromPlansDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "evens.yaml"), []byte(`
name: evens
source: {range: {start: 0, end: 10}}
stages: [{op: filter, fn: even}]
terminal: {op: count}
`), 0o644); err != nil {
		t.Fatal(err)
	}

	prevTP, prevMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	})

	cfg := newTestConfig("seqrun")
	cfg.Engine.PlansDir = []string{dir}
	cfg.Engine.Metrics = true
	cfg.Engine.Tracing = true
	app, err := NewApp(cfg, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Metrics == nil {
		t.Fatal("expected metrics when enabled")
	}

	var order []string
	app.OnStart(func(ctx context.Context) error { order = append(order, "start"); return nil })
	app.OnStop(func(ctx context.Context) error { order = append(order, "stop"); return nil })

	var result *plan.Result
	err = app.RunTask(context.Background(), func(ctx context.Context, a *App) error {
		order = append(order, "task")
		p, err := a.Loader.Load("evens")
		if err != nil {
			return err
		}
		result, err = a.Engine.Run(ctx, p)
		return err
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if result == nil || result.Value != 5 {
		t.Fatalf("expected count 5, got %+v", result)
	}
	if fmt.Sprint(order) != "[start task stop]" {
		t.Errorf("unexpected lifecycle order %v", order)
	}
}

func TestRunTaskReturnsTaskError(t *testing.T) {
	app, _ := NewApp(newTestConfig("seqrun"), WithLogger(logger.Nop()))
	stopped := false
	app.OnStop(func(ctx context.Context) error { stopped = true; return nil })

	err := app.RunTask(context.Background(), func(ctx context.Context, a *App) error {
		return fmt.Errorf("task failed")
	})
	if err == nil || err.Error() != "task failed" {
		t.Fatalf("expected task error, got %v", err)
	}
	if !stopped {
		t.Error("expected shutdown after failed task")
	}
}

func TestRunTaskStartHookError(t *testing.T) {
	app, _ := NewApp(newTestConfig("seqrun"), WithLogger(logger.Nop()))
	app.OnStart(func(ctx context.Context) error { return fmt.Errorf("boom") })
	ran := false

	err := app.RunTask(context.Background(), func(ctx context.Context, a *App) error {
		ran = true
		return nil
	})
	if err == nil {
		t.Fatal("expected start hook error")
	}
	if ran {
		t.Error("task must not run after a failed start hook")
	}
}

func TestShutdownReportsStopHookError(t *testing.T) {
	app, _ := NewApp(newTestConfig("seqrun"), WithLogger(logger.Nop()))
	app.OnStop(func(ctx context.Context) error { return fmt.Errorf("stop failed") })
	if err := app.Shutdown(); err == nil {
		t.Error("expected stop hook error")
	}
}

func TestHookErrorStopsExecution(t *testing.T) {
	secondCalled := false
	hooks := []Hook{
		func(ctx context.Context) error { return fmt.Errorf("fail") },
		func(ctx context.Context) error { secondCalled = true; return nil },
	}
	if err := runHooks(context.Background(), hooks); err == nil {
		t.Error("expected error from failing hook")
	}
	if secondCalled {
		t.Error("expected second hook not to be called after first fails")
	}
}
