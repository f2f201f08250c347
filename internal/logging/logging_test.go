package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerWithWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "text", &buf)

	logger.Info("spawn", "task", "abc")

	output := buf.String()
	if !strings.Contains(output, "msg=spawn") {
		t.Errorf("expected msg in output, got: %s", output)
	}
	if !strings.Contains(output, "task=abc") {
		t.Errorf("expected task attribute in output, got: %s", output)
	}
	if !strings.Contains(output, "component=minirt") {
		t.Errorf("expected component attribute in output, got: %s", output)
	}
}

func TestNewLoggerWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "JSON", &buf)

	logger.Info("polled", "result", "Ready")

	output := buf.String()
	if !strings.Contains(output, `"msg":"polled"`) {
		t.Errorf("expected JSON msg field in output, got: %s", output)
	}
	if !strings.Contains(output, `"result":"Ready"`) {
		t.Errorf("expected JSON result field in output, got: %s", output)
	}
}

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelWarn, "text", &buf)

	logger.Debug("stale wake")
	logger.Error("timer wake failed")

	output := buf.String()
	if strings.Contains(output, "stale wake") {
		t.Errorf("DEBUG message should be filtered at WARN level, got: %s", output)
	}
	if !strings.Contains(output, "timer wake failed") {
		t.Errorf("ERROR message should appear at WARN level, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
