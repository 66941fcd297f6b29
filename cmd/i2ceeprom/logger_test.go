package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	s, err := newLogger(&buf, "info")
	require.NoError(t, err)
	logger := zapLogger{s}

	logger.Debug("transient bus error", "attempt", 1)
	logger.Info("writing device", "size", 4096)
	logger.Error("retries exhausted", "operation", "write page")
	require.NoError(t, s.Sync())

	out := buf.String()
	assert.NotContains(t, out, "transient bus error")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "writing device")
	assert.Contains(t, out, `"size": 4096`)
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, `"operation": "write page"`)
}

func TestDebugFlagEnablesDebugLogs(t *testing.T) {
	var buf bytes.Buffer
	s, err := newLogger(&buf, "debug")
	require.NoError(t, err)

	zapLogger{s}.Debug("device not ready", "attempts", 100)
	require.NoError(t, s.Sync())
	assert.Contains(t, buf.String(), "device not ready")
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := newLogger(&bytes.Buffer{}, "verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "verbose"`)
}
