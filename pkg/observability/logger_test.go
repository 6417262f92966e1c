// File: pkg/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/pomkit/pkg/config"
)

// setupTestLogger initializes the global logger to write to a buffer.
func setupTestLogger(cfg config.LoggerConfig) *bytes.Buffer {
	buf := new(bytes.Buffer)
	Initialize(cfg, zapcore.AddSync(buf))
	return buf
}

func TestInitializeLogger(t *testing.T) {
	t.Run("console logger colors the level", func(t *testing.T) {
		ResetForTest()
		buf := setupTestLogger(config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "TestService",
			Colors:      config.ColorConfig{Info: "green"},
		})

		GetLogger().Info("User opened browser")
		Sync()

		output := buf.String()
		assert.Contains(t, output, colorMap["green"]+"INFO"+colorReset)
		assert.Contains(t, output, "TestService.")
		assert.Contains(t, output, "User opened browser")
	})

	t.Run("json logger", func(t *testing.T) {
		ResetForTest()
		buf := setupTestLogger(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "JSONTest"})

		GetLogger().Warn("Tracing is not supported.", zap.String("engine", "chromedp"))
		Sync()

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "JSONTest", entry["logger"])
		assert.Equal(t, "chromedp", entry["engine"])
	})

	t.Run("level below threshold is dropped", func(t *testing.T) {
		ResetForTest()
		buf := setupTestLogger(config.LoggerConfig{Level: "warn", Format: "json"})

		GetLogger().Info("quiet")
		Sync()
		assert.Empty(t, buf.String())
	})

	t.Run("writes to a log file if configured", func(t *testing.T) {
		ResetForTest()
		path := filepath.Join(t.TempDir(), "pomkit.log")

		Initialize(config.LoggerConfig{Level: "debug", Format: "console", LogFile: path, MaxSize: 1}, zapcore.AddSync(io.Discard))
		GetLogger().Error("This should go to the file.")
		Sync()

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"msg":"This should go to the file."`, "file output is always JSON")
	})

	t.Run("run configuration places the file and tags entries", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)
		cfg := config.NewDefaultConfig()
		cfg.Tracing.Dir = t.TempDir()
		cfg.Driver.Engine = config.EngineChromedp
		cfg.Browser.Kind = "chrome"
		cfg.Logger.LogFile = "pomkit.log"

		require.NoError(t, InitializeLogger(cfg))
		GetLogger().Info("User opened browser")
		Sync()

		content, err := os.ReadFile(filepath.Join(cfg.Tracing.Dir, "pomkit.log"))
		require.NoError(t, err)
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(content), &entry))
		assert.Equal(t, "chromedp", entry["engine"])
		assert.Equal(t, "chrome", entry["browser"])
	})

	t.Run("only initializes once", func(t *testing.T) {
		ResetForTest()
		buf1 := setupTestLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "First"})
		logger1 := GetLogger()
		buf2 := setupTestLogger(config.LoggerConfig{Level: "debug", Format: "console", ServiceName: "Second"})
		logger2 := GetLogger()

		assert.Equal(t, logger1, logger2)
		logger2.Info("test message")
		Sync()

		assert.Contains(t, buf1.String(), "First")
		assert.NotContains(t, buf1.String(), "Second")
		assert.Empty(t, buf2.String())
	})
}

func TestGetLogger(t *testing.T) {
	t.Run("falls back before initialization", func(t *testing.T) {
		ResetForTest()

		oldStderr := os.Stderr
		r, w, err := os.Pipe()
		require.NoError(t, err)
		os.Stderr = w

		logger := GetLogger()

		w.Close()
		os.Stderr = oldStderr
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)

		require.NotNil(t, logger)
		assert.Contains(t, buf.String(), "Global logger requested before initialization")
	})

	t.Run("returns the stored logger after initialization", func(t *testing.T) {
		ResetForTest()
		Initialize(config.LoggerConfig{Level: "info", ServiceName: "GlobalTest"}, zapcore.AddSync(io.Discard))
		assert.Equal(t, globalLogger.Load(), GetLogger())
	})
}

func TestLevelLabels(t *testing.T) {
	labels := levelLabels(config.ColorConfig{Info: "Green", Error: "red", Warn: "mauve"})
	assert.Equal(t, colorMap["green"]+"INFO"+colorReset, labels[zapcore.InfoLevel])
	assert.Equal(t, colorMap["red"]+"ERROR"+colorReset, labels[zapcore.ErrorLevel])
	assert.Equal(t, "WARN", labels[zapcore.WarnLevel], "unknown colors keep the plain label")
	assert.Equal(t, "DEBUG", labels[zapcore.DebugLevel])
}
