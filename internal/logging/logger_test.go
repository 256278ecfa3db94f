package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"darkroom/internal/config"
	"darkroom/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestJSONHandlerShape(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, levelVar, false))
	logger.Info("export complete", FieldAssetID, "A1")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"ts", "level", "msg", FieldAssetID} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing key %q in %v", key, payload)
		}
	}
	if payload["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
}

func TestPrettyHandlerHeader(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, levelVar, false))
	logger = NewComponentLogger(logger, "export")
	logger.Info("copied", FieldAssetID, "A1", FieldVariant, "edited", "path", "/out/IMG 1.jpg")

	line := buf.String()
	for _, want := range []string{"INFO export: [A1 · edited] copied", `path="/out/IMG 1.jpg"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestPrettyHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	slog.New(newPrettyHandler(&buf, levelVar, false)).Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(newJSONHandler(&buf, new(slog.LevelVar), false))
	ctx := services.WithAssetID(context.Background(), "A1")
	ctx = services.WithVariant(ctx, "live")
	ctx = services.WithRequestID(ctx, "run-1")

	WithContext(ctx, base).Info("hello")
	out := buf.String()
	for _, want := range []string{`"asset_uuid":"A1"`, `"variant":"live"`, `"correlation_id":"run-1"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Warn("collision rejected")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "darkroom.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "collision rejected") {
		t.Fatalf("log file missing record: %q", string(data))
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should never be enabled")
	}
}

func TestDomainAttrsUseFieldKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, new(slog.LevelVar), false))
	logger.Info("exported", AssetID("A1"), Destination("/out/IMG.jpg"), Error(nil))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload[FieldAssetID] != "A1" || payload[FieldDestination] != "/out/IMG.jpg" {
		t.Fatalf("unexpected fields %v", payload)
	}
	if payload["error"] != "<nil>" {
		t.Fatalf("expected nil error placeholder, got %v", payload["error"])
	}
}
