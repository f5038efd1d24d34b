package logger

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "debug", Format: "json"}, "seqrun")
	l.Info("run finished", Fields(FieldPlan, "evens", FieldValues, 3))

	out := buf.String()
	for _, want := range []string{`"message":"run finished"`, `"plan":"evens"`, `"values":3`, `"service":"seqrun"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "warn", Format: "json"}, "test")
	l.Info("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %s", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected warn output")
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "invalid-level", Format: "json"}, "test")
	l.Info("info still logged")
	if !strings.Contains(buf.String(), "info still logged") {
		t.Error("expected invalid level to fall back to info")
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "info", Format: "console", NoColor: true}, "seqrun")
	l.Info("hello")
	out := buf.String()
	if !strings.Contains(out, "[SEQ][INF]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "info", Format: "json"}, "test")
	l.WithComponent("plan").Info("x")
	if !strings.Contains(buf.String(), `"component":"plan"`) {
		t.Errorf("expected component field, got %s", buf.String())
	}
}

func TestWithContext_RunIDAndSpan(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "info", Format: "json"}, "test")

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	ctx = ContextWithRunID(ctx, "run-1")

	l.WithContext(ctx).Info("x")
	out := buf.String()
	if !strings.Contains(out, `"run_id":"run-1"`) {
		t.Errorf("expected run_id, got %s", out)
	}
	if !strings.Contains(out, span.SpanContext().TraceID().String()) {
		t.Errorf("expected trace id, got %s", out)
	}
	if RunIDFromContext(ctx) != "run-1" {
		t.Error("expected RunIDFromContext to return run-1")
	}
	if RunIDFromContext(context.Background()) != "" {
		t.Error("expected empty run id")
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "info", Format: "json"}, "test")
	l.WithFields(map[string]interface{}{"key": "value"}).WithError(fmt.Errorf("boom")).Error("failed")
	out := buf.String()
	if !strings.Contains(out, `"key":"value"`) || !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("unexpected output %s", out)
	}
}

func TestNop(t *testing.T) {
	Nop().Error("discarded")
}

func TestInitAndGlobal(t *testing.T) {
	Init(Config{ServiceName: "seqrun", Level: "info", Format: "json", Output: "stderr"})
	gl := GetGlobalLogger()
	if gl == nil || gl.service != "seqrun" {
		t.Fatal("expected global logger to be set after Init")
	}

	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}

	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	SetGlobalLogger(Nop())
	defer SetGlobalLogger(nil)
	// These should not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
	WithComponent("x").Info("component msg")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"valid console", Config{Level: "debug", Format: "console", Output: "stderr"}, false},
		{"invalid level", Config{Level: "bad", Format: "json", Output: "stdout"}, true},
		{"invalid format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"invalid output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	defer Reset()
	l := Nop()
	Register("my-component", l)
	if Get("my-component") != l {
		t.Error("expected Get to return the registered logger")
	}
	if _, ok := Lookup("unregistered-component"); ok {
		t.Error("expected unregistered component to be absent")
	}
	if Get("unregistered-component") == nil {
		t.Fatal("expected non-nil logger for unregistered component")
	}
}

func TestRegisterComponents(t *testing.T) {
	defer Reset()
	var buf bytes.Buffer
	base := NewWithWriter(&buf, &Config{Level: "debug", Format: "json"}, "seqrun")
	RegisterComponents(base)

	want := []string{ComponentObserve, ComponentPlan, ComponentTrace}
	if got := Registered(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	Get(ComponentPlan).Info("run finished")
	out := buf.String()
	for _, want := range []string{`"component":"plan"`, `"service":"seqrun"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestRegisterComponents_GlobalBase(t *testing.T) {
	defer Reset()
	SetGlobalLogger(Nop())
	defer SetGlobalLogger(nil)

	RegisterComponents(nil, "seq")
	if _, ok := Lookup("seq"); !ok {
		t.Error("expected seq to be registered")
	}
	Reset()
	if len(Registered()) != 0 {
		t.Errorf("expected empty registry after Reset, got %v", Registered())
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{"key-value pairs", []interface{}{"op", "take", "n", 42}, map[string]interface{}{"op": "take", "n": 42}},
		{"odd number of args", []interface{}{"op", "take", "trailing"}, map[string]interface{}{"op": "take"}},
		{"non-string key skipped", []interface{}{123, "value", "key", "val"}, map[string]interface{}{"key": "val"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Errorf("expected %d fields, got %d", len(tc.expected), len(result))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	fields := ErrorFields("reduce", fmt.Errorf("empty"))
	if fields[FieldOperation] != "reduce" || fields[FieldError] != "empty" {
		t.Errorf("unexpected error fields %v", fields)
	}

	fields = DurationFields("to_array", 150*time.Millisecond)
	if fields[FieldDuration] != int64(150) {
		t.Errorf("expected duration 150, got %v", fields[FieldDuration])
	}
}
