package logging

import (
	"testing"

	"sisera-crm/internal/config"

	"go.uber.org/zap/zapcore"
)

func TestNew_LevelAndName(t *testing.T) {
	logger, err := New(config.LogConfig{AppEnv: "production", Level: "warn", Encoding: "console"}, "api")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("error should be enabled at warn level")
	}
}

func TestNew_DevelopmentDefaultsToDebug(t *testing.T) {
	logger, err := New(config.LogConfig{AppEnv: "development"}, "api")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug enabled in development")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("expected no-op logger")
	}
}
