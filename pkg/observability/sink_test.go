// File: pkg/observability/sink_test.go
package observability

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }

func TestNewSink_WritesTimestampedLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	sink, err := NewSink(SinkOptions{Enabled: true, Dir: dir, Now: fixedNow})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "240309-140507_Trace.log"), sink.Path())

	sink.Info(`User clicked on "Submit"`)
	sink.Warning("Tracing is not supported by this engine")
	sink.Error(`User could not click on "Missing"`, zap.String("cause", "timeout"))
	require.NoError(t, sink.Close())

	raw, err := os.ReadFile(sink.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "INFO")
	assert.Contains(t, lines[0], `User clicked on "Submit"`)
	assert.Contains(t, lines[1], "WARN")
	assert.Contains(t, lines[2], "ERROR")
	assert.Contains(t, lines[2], `"cause": "timeout"`)
	for _, line := range lines {
		_, err := time.Parse("2006-01-02 15:04:05.000", line[:23])
		assert.NoError(t, err, "every line starts with a timestamp: %q", line)
	}
}

func TestNewSink_Disabled(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dir := filepath.Join(t.TempDir(), "never")

	sink, err := NewSink(SinkOptions{Enabled: false, Dir: dir}, core)
	require.NoError(t, err)

	sink.Info("ignored")
	sink.Error("ignored")
	assert.False(t, sink.Enabled())
	assert.Empty(t, sink.Path())
	assert.Zero(t, logs.Len())
	assert.NoDirExists(t, dir)
	assert.NoError(t, sink.Close())
}

func TestNewSink_ExtraCoresAndWith(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink, err := NewSink(SinkOptions{Enabled: true}, core)
	require.NoError(t, err)
	assert.Empty(t, sink.Path(), "no file without a directory")

	scoped := sink.With(zap.String("session_id", "abc"))
	scoped.Info("User opened browser")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "User opened browser", entries[0].Message)
	assert.Equal(t, "abc", entries[0].ContextMap()["session_id"])
}

func TestNilSinkIsSafe(t *testing.T) {
	var s *Sink
	assert.False(t, s.Enabled())
	assert.Empty(t, s.Path())
	assert.NotPanics(t, func() { s.Info("x") })
}

func TestDefaultSink_FirstCallerWins(t *testing.T) {
	ResetSinkForTest()
	t.Cleanup(ResetSinkForTest)

	core, logs := observer.New(zapcore.InfoLevel)
	applied, err := ConfigureSink(SinkOptions{Enabled: true}, core)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = ConfigureSink(SinkOptions{Enabled: false})
	require.NoError(t, err)
	assert.False(t, applied, "configuration is read-only after the first call")

	DefaultSink().Info("still enabled")
	assert.Equal(t, 1, logs.Len())
}

func TestDefaultSink_LazyDisabled(t *testing.T) {
	ResetSinkForTest()
	t.Cleanup(ResetSinkForTest)

	var wg sync.WaitGroup
	sinks := make([]*Sink, 8)
	for i := range sinks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sinks[i] = DefaultSink()
		}(i)
	}
	wg.Wait()

	for _, s := range sinks {
		assert.Same(t, sinks[0], s, "constructed at most once")
	}
	assert.False(t, sinks[0].Enabled())

	applied, err := ConfigureSink(SinkOptions{Enabled: true})
	require.NoError(t, err)
	assert.False(t, applied, "a lazy default also fixes the configuration")
}
