package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// process-wide logger for startup and background work; requests log through clientContext.
// replaced in main once the configured level is known.
var logger = zap.NewNop()

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
