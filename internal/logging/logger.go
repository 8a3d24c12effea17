package logging

import (
	"strings"

	"sisera-crm/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger named after the binary. Development environments get
// a console encoder at debug level.
func New(cfg config.LogConfig, name string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if strings.EqualFold(cfg.AppEnv, "development") {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Encoding != "" && !strings.EqualFold(cfg.AppEnv, "development") {
		zcfg.Encoding = strings.ToLower(cfg.Encoding)
	}
	if cfg.Level != "" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err == nil {
			zcfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Named(name), nil
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
