package core

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the engine-wide logger. It discards everything until InitLogger
// is called so that library users who never configure logging stay quiet.
var Log = zap.NewNop()

// LogConfig selects the sink verbosity and encoding.
type LogConfig struct {
	Level       string // debug, info, warn, error
	Development bool   // console encoder, caller info, stack traces on warn
}

// Level is the verbosity shared by every logger InitLogger builds. Loggers
// derived from Log before a reload follow changes to it.
var Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var (
	built    *zap.Logger
	builtDev bool
)

// InitLogger sets Level from cfg and installs a logger built on it. While
// Log is still the logger a previous call built with the same encoding,
// only the level changes, so component loggers named from it stay live.
func InitLogger(cfg LogConfig) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	if built != nil && Log == built && builtDev == cfg.Development {
		Level.SetLevel(level)
		return nil
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = Level

	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	Level.SetLevel(level)
	Log, built, builtDev = logger, logger, cfg.Development
	return nil
}

// SetLogger installs an already built logger (tests use zaptest/observer).
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Log = l
}

// Alert logs a condition that needs attention but does not stop the frame.
func Alert(msg string, fields ...zap.Field) {
	Log.Warn(msg, append(fields, zap.String("severity", "alert"))...)
}

// Bug logs an internal invariant violation.
func Bug(msg string, fields ...zap.Field) {
	Log.Error(msg, append(fields, zap.String("severity", "bug"))...)
}
