package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(Options{Format: FormatJSON, Writer: &buf}); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Get().Info(context.Background(), "session created", String("session_id", "abc"), Int("rows", 3))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["msg"] != "session created" {
		t.Errorf("expected msg 'session created', got %v", line["msg"])
	}
	if line["session_id"] != "abc" {
		t.Errorf("expected session_id abc, got %v", line["session_id"])
	}
	if _, ok := line["source"]; !ok {
		t.Error("expected caller source field")
	}
}

func TestLoggerUnknownFormat(t *testing.T) {
	if err := InitWith(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(Options{Writer: &buf}); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Get().Debug(ctx, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %q", buf.String())
	}

	if err := SetLevelString("debug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Get().Debug(ctx, "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected debug line, got %q", buf.String())
	}

	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	_ = SetLevelString("info")
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(Options{Writer: &buf}); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("ingest")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	namedLogger.Info(context.Background(), "test message", String("file", "a.csv"))
	if !strings.Contains(buf.String(), "ingest.file=a.csv") {
		t.Errorf("expected grouped attribute, got %q", buf.String())
	}
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Format: FormatJSON, Writer: &buf}, nil)
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	l.With(String("session_id", "s1")).Warn(context.Background(), "pipeline rejected state", Int64("rows", 7))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["session_id"] != "s1" {
		t.Errorf("expected bound session_id, got %v", line["session_id"])
	}
	if line["rows"] != float64(7) {
		t.Errorf("expected rows 7, got %v", line["rows"])
	}
	if src, _ := line["source"].(string); !strings.Contains(src, "logger_test.go") {
		t.Errorf("expected caller in logger_test.go, got %q", src)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error(context.Background(), "dropped", Bool("ok", false))
	if l.Named("x") == nil {
		t.Fatal("named nop logger is nil")
	}
}
