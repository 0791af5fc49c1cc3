// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nova.log")

	logger, err := New(Options{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("hello", zap.String("k", "v"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug must be filtered at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "v", entry["k"])
	assert.Equal(t, "nova", entry["logger"])
}

func TestNew_LevelHandling(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		opts Options
		want zapcore.Level
	}{
		{"default", Options{}, zapcore.InfoLevel},
		{"unknown", Options{Level: "chatty"}, zapcore.InfoLevel},
		{"warn", Options{Level: "warn"}, zapcore.WarnLevel},
		{"verbose wins", Options{Level: "error", Verbose: true}, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.File = filepath.Join(dir, tt.name+".log")
			logger, err := New(tt.opts)
			require.NoError(t, err)
			defer logger.Sync()

			assert.True(t, logger.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNewOrNop_FallsBack(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	// A path beneath a regular file cannot be created.
	logger := NewOrNop(Options{File: filepath.Join(blocker, "sub", "nova.log")})
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}
