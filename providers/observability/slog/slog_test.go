package slog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/leofalp/chatmemory/providers/observability"
)

func newBufferedObserver(buf *bytes.Buffer) *Observer {
	return New(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestSlogObserver_New(t *testing.T) {
	if obs := New(nil); obs == nil || obs.logger == nil {
		t.Fatal("New(nil) must fall back to slog.Default()")
	}
}

// TestSlogObserver_StartSpan verifies that the span is logged and attached
// to the returned context.
func TestSlogObserver_StartSpan(t *testing.T) {
	var buf bytes.Buffer
	obs := newBufferedObserver(&buf)

	ctx, span := obs.StartSpan(context.Background(), observability.SpanMemoryOperation,
		observability.String(observability.AttrMemoryConversationID, "conv-1"),
	)
	if span == nil {
		t.Fatal("StartSpan returned nil span")
	}
	if observability.SpanFromContext(ctx) != span {
		t.Fatal("expected span to be attached to the returned context")
	}

	output := buf.String()
	if !strings.Contains(output, "memory.operation") || !strings.Contains(output, "conv-1") {
		t.Fatalf("expected span name and attribute in log, got:\n%s", output)
	}
}

// TestSlogSpan_Lifecycle verifies events, status, errors and end records.
func TestSlogSpan_Lifecycle(t *testing.T) {
	var buf bytes.Buffer
	obs := newBufferedObserver(&buf)

	_, span := obs.StartSpan(context.Background(), "lifecycle")
	span.AddEvent(observability.EventMemoryAppend, observability.Int(observability.AttrMemoryBatchSize, 3))
	span.SetStatus(observability.StatusError, "boom")
	span.RecordError(errors.New("disk full"))
	span.RecordError(nil)
	span.End()

	output := buf.String()
	for _, want := range []string{"memory.append", "memory.batch_size=3", "status=error", "status_description=boom", "disk full", "Span ended"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in log, got:\n%s", want, output)
		}
	}
}

func TestSlogObserver_Logging(t *testing.T) {
	var buf bytes.Buffer
	obs := newBufferedObserver(&buf)
	ctx := context.Background()

	obs.Debug(ctx, "debug message", observability.String("k", "v"))
	obs.Info(ctx, "info message")
	obs.Warn(ctx, "warn message")
	obs.Error(ctx, "error message")

	output := buf.String()
	for _, want := range []string{"level=DEBUG", "k=v", "level=INFO", "level=WARN", "level=ERROR"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in log, got:\n%s", want, output)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		if got := ParseLogLevel(input); got != want {
			t.Fatalf("ParseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestGetLogLevelFromEnv(t *testing.T) {
	t.Setenv("CHATMEMORY_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "")
	if got := GetLogLevelFromEnv(); got != slog.LevelInfo {
		t.Fatalf("expected INFO default, got %v", got)
	}

	t.Setenv("LOG_LEVEL", "error")
	if got := GetLogLevelFromEnv(); got != slog.LevelError {
		t.Fatalf("expected LOG_LEVEL fallback, got %v", got)
	}

	t.Setenv("CHATMEMORY_LOG_LEVEL", "debug")
	if got := GetLogLevelFromEnv(); got != slog.LevelDebug {
		t.Fatalf("expected CHATMEMORY_LOG_LEVEL to win, got %v", got)
	}
}
