package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJSONLoggerWritesEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "events.jsonl")
	l, err := NewJSONLogger(path, false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Info("gate.rejected", map[string]any{"attempt": 2, "puzzle_id": "black-pearl-map"})
	l.Error("state.write_failed", map[string]any{"error": "boom"})
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Logging after close is a no-op.
	l.Info("late", nil)

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), b)
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first["msg"] != "gate.rejected" || first["level"] != "info" {
		t.Fatalf("unexpected entry: %v", first)
	}
	if first["attempt"] != float64(2) || first["app"] != "treasuregate" {
		t.Fatalf("missing fields: %v", first)
	}
	if _, ok := first["ts"]; !ok {
		t.Fatalf("missing ts: %v", first)
	}
}

func TestEmptyPathDiscards(t *testing.T) {
	l, err := NewJSONLogger("", true)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Info("ignored", map[string]any{"x": 1})
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
