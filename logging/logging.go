// Package logging builds the zap logger used throughout othello-client.
// The terminal belongs to the UI, so logs always go to a file.
package logging

import (
	"fmt"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logFile = "othello-client/debug.log"

// DefaultPath returns the log file location under XDG_STATE_HOME,
// creating parent directories as needed.
func DefaultPath() (string, error) {
	return xdg.StateFile(logFile)
}

// New returns a JSON file logger. Debug entries are only written when
// debug is true. An empty path selects DefaultPath.
func New(path string, debug bool) (*zap.Logger, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve log path: %w", err)
		}
		path = p
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to open log %s: %w", path, err)
	}
	return logger, nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
