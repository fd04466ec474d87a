package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Adda-Baaj/photo-scout/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestLoggerWritesJSONWithObjectField(t *testing.T) {
	var buf bytes.Buffer
	log := initWithWriter(&config.Config{AppName: "photo-scout", Env: "test", LogLevel: "info"}, &buf)

	log.InfoObj("search completed", "search_meta", map[string]any{"results": 2})
	log.DebugObj("hidden", "k", "v")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line at info level, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "search completed" || entry["app"] != "photo-scout" {
		t.Fatalf("unexpected entry %#v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts key in %#v", entry)
	}
	meta, ok := entry["search_meta"].(map[string]any)
	if !ok || meta["results"] != float64(2) {
		t.Fatalf("unexpected search_meta %#v", entry["search_meta"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEnsureNil(t *testing.T) {
	if _, ok := Ensure(nil).(NopLogger); !ok {
		t.Fatalf("expected NopLogger for nil input")
	}
}
