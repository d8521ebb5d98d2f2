package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func decodeJSONLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestJSONHandlerStampsDefaultComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, slog.LevelDebug, true))

	logger.Info("bare")
	logger.Info("explicit", slog.String(FieldComponent, "fetch"))
	logger.With(slog.String(FieldComponent, "history")).Info("derived")
	logger.WithGroup("sub").Info("grouped", slog.Int("index", 2))

	entries := decodeJSONLines(t, &buf)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	want := []string{DefaultComponent, "fetch", "history", DefaultComponent}
	for i, entry := range entries {
		if entry[FieldComponent] != want[i] {
			t.Errorf("entry %d component = %v, want %q (%+v)", i, entry[FieldComponent], want[i], entry)
		}
	}
	sub, ok := entries[3]["sub"].(map[string]any)
	if !ok || sub["index"] != float64(2) {
		t.Fatalf("expected grouped index, got %+v", entries[3])
	}
	if _, nested := sub[FieldComponent]; nested {
		t.Fatalf("component should stay top-level, got %+v", entries[3])
	}
}

func TestJSONHandlerRewritesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, slog.LevelInfo, true))
	logger.Warn("index slow")

	entry := decodeJSONLines(t, &buf)[0]
	if entry["level"] != "warn" || entry["msg"] != "index slow" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	ts, _ := entry["ts"].(string)
	if !strings.HasSuffix(ts, "Z") || !strings.Contains(ts, ".") {
		t.Fatalf("expected UTC millisecond timestamp, got %q", ts)
	}
	caller, _ := entry["caller"].(string)
	if !strings.HasPrefix(caller, "json_handler_test.go:") {
		t.Fatalf("expected caller file:line, got %q", caller)
	}
	if _, ok := entry["time"]; ok {
		t.Fatalf("raw time key should be replaced, got %+v", entry)
	}
}
