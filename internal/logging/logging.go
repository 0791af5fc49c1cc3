// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger shared by nova's components.
//
// The TUI owns the terminal, so logs go to a file rather than stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger's level, encoding and destination.
type Options struct {
	// Level is debug, info, warn or error. Unknown values fall back to info.
	Level string

	// Format is "console" or "json".
	Format string

	// File is the log file path. Empty selects DefaultFile.
	File string

	// Verbose forces debug level.
	Verbose bool

	// Stderr also writes logs to stderr. Used by `nova serve`.
	Stderr bool
}

// DefaultFile returns ~/.nova/nova.log.
func DefaultFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".nova", "nova.log"), nil
}

// New builds a logger from opts. The caller must Sync it before exit.
func New(opts Options) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil || opts.Level == "" {
		level.SetLevel(zapcore.InfoLevel)
	}
	if opts.Verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	var cfg zap.Config
	if opts.Format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Encoding = "console"
		// No color codes: the output is a file.
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	cfg.Level = level
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = !opts.Verbose

	path := opts.File
	if path == "" {
		p, err := DefaultFile()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if opts.Stderr {
		cfg.OutputPaths = append(cfg.OutputPaths, "stderr")
		cfg.ErrorOutputPaths = append(cfg.ErrorOutputPaths, "stderr")
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Named("nova"), nil
}

// NewOrNop builds a logger and falls back to a no-op logger on failure,
// reporting the failure on stderr.
func NewOrNop(opts Options) *zap.Logger {
	logger, err := New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return zap.NewNop()
	}
	return logger
}
