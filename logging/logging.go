// Package logging builds the zap logger used by the settlement engine.
package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrInvalidLevel indicates the level string is not debug, info, warn or error.
var ErrInvalidLevel = errors.New("logging: invalid level")

// ParseLevel maps a config log level to a zap level. Matching is case-insensitive.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zap.DebugLevel, nil
	case "", "info":
		return zap.InfoLevel, nil
	case "warn":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	}
	return zap.InfoLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
}

// New returns a logger at the given level. With a file path it appends JSON
// lines to that file; otherwise it writes console-encoded lines to stderr.
func New(level, file string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	pe := zap.NewProductionEncoderConfig()
	pe.EncodeTime = zapcore.ISO8601TimeEncoder
	pe.MessageKey = "message"
	pe.TimeKey = "time"

	if file == "" {
		pe.EncodeLevel = zapcore.CapitalLevelEncoder
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(pe), zapcore.Lock(os.Stderr), lvl)
		return zap.New(core), nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return nil, fmt.Errorf("logging: create directory: %w", err)
	}
	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", file, err)
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(pe), zapcore.AddSync(f), lvl)
	return zap.New(core), nil
}
