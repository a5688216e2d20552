package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewJSONLoggerCarriesService(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "json", "ijus")
	logger.Info("hidden")
	logger.Warn("shown", "event", "test_event")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line at warn level, got %d: %q", len(lines), buf.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if record["service"] != "ijus" || record["event"] != "test_event" {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestTextFormatAndLevels(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "TEXT", "").Debug("visible")
	if !strings.Contains(buf.String(), "msg=visible") {
		t.Fatalf("expected text output, got %q", buf.String())
	}

	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, "WARNING": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo, "loud": slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}
