package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"identigraph/internal/config"
)

func TestConsoleLoggerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	NewComponentLogger(logger.Logger, "ingest").Info("file complete", String("source", "BNB/a b.mrc"), Int("records", 12))

	line := buf.String()
	if !strings.Contains(line, " INFO ingest: file complete") {
		t.Fatalf("unexpected prefix: %q", line)
	}
	if !strings.Contains(line, `source="BNB/a b.mrc"`) || !strings.Contains(line, "records=12") {
		t.Fatalf("missing attrs: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as prefix only: %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("info logs should omit source location: %q", line)
	}
}

func TestConsoleLoggerIncludesSourceForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Logger.Debug("detail")
	if !strings.Contains(buf.String(), "[logger_test.go:") {
		t.Fatalf("expected source location, got %q", buf.String())
	}
}

func TestJSONLoggerShape(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Output: &buf, SessionID: "abc"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("json message", String("k", "v"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log line: %v (%q)", err, buf.String())
	}
	if payload["level"] != "warn" || payload["msg"] != "json message" || payload["k"] != "v" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if payload[FieldSessionID] != "abc" {
		t.Fatalf("missing session id: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts key: %v", payload)
	}
}

func TestAutoFormatUsesJSONForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "auto", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hello")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml", Output: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "bogus", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("invalid level should default to info, got %q", buf.String())
	}
}

func TestNewFromConfigMirrorsToFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg, "session-1")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("to file", String("k", "v"))
	if err := logger.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"to file"`) || !strings.Contains(string(data), `"session_id":"session-1"`) {
		t.Fatalf("unexpected log file contents: %s", data)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	WarnWithContext(logger.Logger, "record skipped", "marc_record_invalid", String(FieldImpact, "record ignored"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if payload[FieldEventType] != "marc_record_invalid" || payload[FieldImpact] != "record ignored" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if payload[FieldErrorHint] == nil {
		t.Fatalf("expected default error hint: %v", payload)
	}
}

func TestErrorWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ErrorWithContext(logger.Logger, "file aborted", "source_file_failed", Duration("elapsed", 0), Bool("partial", true))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if payload["level"] != "error" || payload[FieldEventType] != "source_file_failed" || payload["partial"] != true {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if payload[FieldErrorHint] == nil {
		t.Fatalf("expected default error hint: %v", payload)
	}
}
