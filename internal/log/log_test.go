package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn, true)

	l.Info("hidden")
	l.Warn("shown", "component", "lab")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("expected info to be filtered")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"component":"lab"`) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSetLevel(t *testing.T) {
	Init("info")
	SetLevel("debug")
	if !L().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug to be enabled")
	}
	SetLevel("info")
}
