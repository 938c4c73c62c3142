package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/copyleftdev/xrmsteps/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_JSONConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(config.LogConfig{Level: "debug", Format: "json"}, zapcore.AddSync(&buf))

	logger.Debug("opening area", zap.String("area", "Sales"))
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "xrmsteps", entry["logger"])
	assert.Equal(t, "opening area", entry["msg"])
	assert.Equal(t, "Sales", entry["area"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(config.LogConfig{Level: "chatty", Format: "json"}, zapcore.AddSync(&buf))

	logger.Debug("hidden")
	logger.Info("shown")
	require.NoError(t, logger.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.log")
	var buf bytes.Buffer
	logger := newWithWriter(config.LogConfig{Level: "info", File: path, MaxSize: 1}, zapcore.AddSync(&buf))

	logger.Info("scenario finished")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"scenario finished"`)
	assert.Contains(t, buf.String(), "scenario finished")
}
