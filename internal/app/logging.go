package app

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process logger from the log section. With no file the
// logger writes human-readable lines to stderr; with a file it writes JSON to
// a size-rotated log. The returned closer flushes and releases the file.
func NewLogger(cfg LogConfig, stderr io.Writer) (*zap.Logger, func() error, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, nil, fmt.Errorf("log.level: %w", err)
		}
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	var (
		core    zapcore.Core
		closeFn = func() error { return nil }
	)
	if cfg.File == "" {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.TimeKey = ""
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(stderr), level)
	} else {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		core = zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(rotator), level)
		closeFn = rotator.Close
	}

	logger := zap.New(core)
	return logger, func() error {
		_ = logger.Sync()
		return closeFn()
	}, nil
}
