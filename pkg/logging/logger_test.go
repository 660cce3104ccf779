package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func parseEntries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestJSONLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("shown")
	logger.Error("also shown")

	entries := parseEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[0].Level != "WARN" || entries[0].Message != "shown" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Level != "ERROR" {
		t.Errorf("second entry = %+v", entries[1])
	}
}

func TestJSONLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("op done",
		String("name", "snapshot"),
		Int("nodes", 42),
		Bool("ok", true),
		Error(errors.New("partial")))

	entries := parseEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	fields := entries[0].Fields
	if fields["name"] != "snapshot" {
		t.Errorf("name = %v", fields["name"])
	}
	if fields["nodes"] != float64(42) {
		t.Errorf("nodes = %v", fields["nodes"])
	}
	if fields["ok"] != true {
		t.Errorf("ok = %v", fields["ok"])
	}
	if fields["error"] != "partial" {
		t.Errorf("error = %v", fields["error"])
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("traversal"))
	child.Info("expanded", Int("depth", 2))
	logger.Info("no inherited fields")

	entries := parseEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].Fields["component"] != "traversal" {
		t.Errorf("child fields = %v", entries[0].Fields)
	}
	if _, ok := entries[1].Fields["component"]; ok {
		t.Error("parent logger inherited the child's field")
	}
}

func TestJSONLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Debug("hidden")
	logger.SetLevel(DebugLevel)
	logger.Debug("visible")

	entries := parseEntries(t, &buf)
	if len(entries) != 1 || entries[0].Message != "visible" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{"ERROR", ErrorLevel},
		{"garbage", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	StartTimer(logger, "load snapshot", String("path", "x")).End()

	entries := parseEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	if _, ok := entries[0].Fields["latency"]; !ok {
		t.Errorf("fields = %v, want latency", entries[0].Fields)
	}
	if entries[0].Fields["path"] != "x" {
		t.Errorf("fields = %v", entries[0].Fields)
	}
}
