package observability

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerWithLevel(t *testing.T) {
	logger, err := NewLoggerWithLevel("debug")
	if err != nil {
		t.Fatalf("NewLoggerWithLevel: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug enabled")
	}

	logger, err = NewLoggerWithLevel("nonsense")
	if err != nil {
		t.Fatalf("NewLoggerWithLevel: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) || !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info fallback")
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != NoopLogger() {
		t.Fatalf("expected noop logger for empty context")
	}
	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatalf("expected stored logger")
	}
	if FromContext(WithLogger(context.Background(), nil)) != NoopLogger() {
		t.Fatalf("nil logger should map to noop")
	}
}
