package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func testRecord(msg string, attrs ...slog.Attr) slog.Record {
	r := slog.NewRecord(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), slog.LevelInfo, msg, 0)
	r.AddAttrs(attrs...)
	return r
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"upper case", "DEBUG", slog.LevelDebug},
		{"padded", " error ", slog.LevelError},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLevel(tt.input)
			if got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevelTag(t *testing.T) {
	tests := []struct {
		level    slog.Level
		expected string
	}{
		{slog.LevelError, "ERROR"},
		{slog.LevelWarn, "WARN "},
		{slog.LevelInfo, "INFO "},
		{slog.LevelDebug, "DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := levelTag(tt.level); got != tt.expected {
				t.Errorf("levelTag(%v) = %q, want %q", tt.level, got, tt.expected)
			}
		})
	}
}

func TestFormatAttr(t *testing.T) {
	tests := []struct {
		name     string
		group    string
		attr     slog.Attr
		expected string
	}{
		{"no group", "", slog.String("key", "value"), "  key=value"},
		{"group", "sweep", slog.String("axis", "y"), "  sweep.axis=y"},
		{"float", "", slog.Float64("distance", -0.5), "  distance=-0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAttr(tt.group, tt.attr); got != tt.expected {
				t.Errorf("formatAttr(%q, %v) = %q, want %q", tt.group, tt.attr, got, tt.expected)
			}
		})
	}
}

func TestConsoleHandlerEnabled(t *testing.T) {
	h := &consoleHandler{level: slog.LevelInfo}

	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be enabled")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled")
	}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled")
	}
}

func TestConsoleHandlerHandle(t *testing.T) {
	var buf bytes.Buffer
	h := &consoleHandler{w: &buf, level: slog.LevelDebug}

	if err := h.Handle(context.Background(), testRecord("loaded block catalogue", slog.Int("states", 42))); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	want := "12:00:00 INFO  loaded block catalogue  states=42\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConsoleHandlerComponent(t *testing.T) {
	var buf bytes.Buffer
	var h slog.Handler = &consoleHandler{w: &buf, level: slog.LevelDebug}
	h = h.WithAttrs([]slog.Attr{slog.String(componentKey, "catalogue"), slog.String("path", "blocks.yaml")})

	if err := h.Handle(context.Background(), testRecord("loaded")); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	want := "12:00:00 INFO  [catalogue] loaded  path=blocks.yaml\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConsoleHandlerWithAttrsDoesNotMutate(t *testing.T) {
	var buf bytes.Buffer
	h := &consoleHandler{w: &buf, level: slog.LevelDebug}

	h.WithAttrs([]slog.Attr{slog.String("axis", "x")})
	if len(h.attrs) != 0 {
		t.Error("WithAttrs should not modify the receiver")
	}
}

func TestConsoleHandlerWithNestedGroup(t *testing.T) {
	var buf bytes.Buffer
	h := (&consoleHandler{w: &buf, level: slog.LevelDebug}).WithGroup("engine").WithGroup("merge")

	if err := h.Handle(context.Background(), testRecord("test", slog.Int("limit", 256))); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	if !strings.Contains(buf.String(), "engine.merge.limit=256") {
		t.Errorf("output should carry the nested group prefix, got %q", buf.String())
	}
}

func TestNewHandlerFormats(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(Config{Level: "debug", Format: "json", Output: &buf}))
	logger.Debug("sweep", slog.String("axis", "y"))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("json output is not valid: %v (%q)", err, buf.String())
	}
	if line["msg"] != "sweep" || line["axis"] != "y" {
		t.Errorf("json line = %v", line)
	}

	buf.Reset()
	logger = slog.New(newHandler(Config{Level: "warn", Format: "text", Output: &buf}))
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}

	if _, ok := newHandler(Config{Output: &buf}).(*consoleHandler); !ok {
		t.Error("default format should be console")
	}
}
