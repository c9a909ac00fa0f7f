package logging

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != slog.LevelDebug {
		t.Fatal("debug should parse to LevelDebug")
	}
	if ParseLevel("DEBUG") != slog.LevelDebug {
		t.Fatal("level parsing should be case-insensitive")
	}
	if ParseLevel("") != slog.LevelInfo {
		t.Fatal("empty level should default to info")
	}
	if ParseLevel("verbose") != slog.LevelInfo {
		t.Fatal("unknown level should default to info")
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("info", &buf)

	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug output at info level: %q", buf.String())
	}
	log.Info("shown", "key", "value")
	if buf.Len() == 0 {
		t.Fatal("info output missing")
	}
}
