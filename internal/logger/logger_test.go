package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultIsSilent(t *testing.T) {
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if Get().Enabled(context.Background(), level) {
			t.Fatalf("default logger enabled for %v", level)
		}
	}
}

func TestSetAndRestore(t *testing.T) {
	orig := Get()
	t.Cleanup(func() { Set(orig) })

	var buf bytes.Buffer
	Set(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	Get().Debug("[GESTURE] hello", "pointers", 1)
	if !strings.Contains(buf.String(), "[GESTURE] hello") {
		t.Fatalf("log output = %q", buf.String())
	}

	Set(nil)
	if Get().Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("Set(nil) did not restore the silent logger")
	}
}
