// Package loggers constructs the zap loggers used by the command line
// interface
package loggers

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// NewZapLogger returns a development logger if debug is set and a
// production logger otherwise
func NewZapLogger(debug bool) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("unable to create zap logger: %w", err)
	}
	return logger, nil
}

// NewFileLogger returns a logger writing JSON lines to a rotated log
// file named after name in the directory dir
func NewFileLogger(name string, dir string) (*zap.Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log path '%s': %w", dir, err)
	}

	logFilePath := filepath.Join(dir, FormatTimestampedLogFileName(name))
	f, err := os.Create(logFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file '%s': %w",
			logFilePath, err)
	}
	f.Close()

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     60, // days
	})
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		w,
		zap.DebugLevel,
	)

	return zap.New(core), nil
}

// FormatTimestampedLogFileName returns the name of a log file for name
// stamped with the current UTC time
func FormatTimestampedLogFileName(name string) string {
	return fmt.Sprintf("%s-%s.log", name,
		time.Now().UTC().Format("20060102T150405Z"))
}

// Sync flushes logger, ignoring the errors zap reports when syncing
// terminals
func Sync(logger *zap.Logger) {
	if logger != nil {
		_ = logger.Sync()
	}
}
