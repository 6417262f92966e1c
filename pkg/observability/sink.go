// File: pkg/observability/sink.go
package observability

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SinkOptions configure a Sink.
type SinkOptions struct {
	// Enabled false yields a sink whose calls do nothing.
	Enabled bool
	// Dir receives <yyMMdd-HHmmss>_Trace.log. Empty means no file, only the extra cores.
	Dir string
	// Now stamps the file name. Defaults to time.Now.
	Now func() time.Time
}

// TraceFileLayout is the timestamp layout of the trace log file name.
const TraceFileLayout = "060102-150405"

// Sink is the diagnostics narrative of a test run: one timestamped line per
// Info, Warning or Error call, appended to the run's trace log.
type Sink struct {
	logger  *zap.Logger
	enabled bool
	path    string
	file    io.Closer
}

// NewSink builds a sink. Extra cores (for example a zaptest observer) receive
// every line the file does.
func NewSink(opts SinkOptions, extra ...zapcore.Core) (*Sink, error) {
	if !opts.Enabled {
		return NopSink(), nil
	}

	s := &Sink{enabled: true}
	cores := append([]zapcore.Core{}, extra...)
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create trace directory %q: %w", opts.Dir, err)
		}
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		s.path = filepath.Join(opts.Dir, now().Format(TraceFileLayout)+"_Trace.log")
		// MaxSize 0 means lumberjack's default; a trace log is never rotated in practice.
		lj := &lumberjack.Logger{Filename: s.path}
		s.file = lj
		cores = append(cores, zapcore.NewCore(traceEncoder(), zapcore.AddSync(lj), zapcore.InfoLevel))
	}
	s.logger = zap.New(zapcore.NewTee(cores...))
	return s, nil
}

// NopSink returns a disabled sink.
func NopSink() *Sink {
	return &Sink{logger: zap.NewNop()}
}

// traceEncoder writes "2006-01-02 15:04:05.000  INFO  message  {fields}".
func traceEncoder() zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: "  ",
	}
	return zapcore.NewConsoleEncoder(ec)
}

func (s *Sink) Enabled() bool { return s != nil && s.enabled }

// Path is the trace log file, or "" when the sink writes no file.
func (s *Sink) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Sink) Info(msg string, fields ...zap.Field) {
	if s.Enabled() {
		s.logger.Info(msg, fields...)
	}
}

func (s *Sink) Warning(msg string, fields ...zap.Field) {
	if s.Enabled() {
		s.logger.Warn(msg, fields...)
	}
}

func (s *Sink) Error(msg string, fields ...zap.Field) {
	if s.Enabled() {
		s.logger.Error(msg, fields...)
	}
}

// With returns a sink that adds fields to every line and shares the same file.
func (s *Sink) With(fields ...zap.Field) *Sink {
	if !s.Enabled() {
		return s
	}
	return &Sink{logger: s.logger.With(fields...), enabled: true, path: s.path}
}

// Close flushes and closes the trace log. Derived sinks do not own the file.
func (s *Sink) Close() error {
	if !s.Enabled() {
		return nil
	}
	err := s.logger.Sync()
	if s.file != nil {
		err = multierr.Append(err, s.file.Close())
	}
	return err
}

// -- Process-wide default --

var (
	defaultSink atomic.Pointer[Sink]
	sinkOnce    sync.Once
)

// ConfigureSink builds the process-wide sink. Only the first call, or the
// first DefaultSink call, decides its configuration; it reports whether this
// call applied.
func ConfigureSink(opts SinkOptions, extra ...zapcore.Core) (applied bool, err error) {
	sinkOnce.Do(func() {
		applied = true
		s, buildErr := NewSink(opts, extra...)
		if buildErr != nil {
			err = buildErr
			s = NopSink()
		}
		defaultSink.Store(s)
	})
	return applied, err
}

// DefaultSink returns the process-wide sink, constructing a disabled one if
// ConfigureSink was never called.
func DefaultSink() *Sink {
	sinkOnce.Do(func() {
		defaultSink.Store(NopSink())
	})
	return defaultSink.Load()
}

// ResetSinkForTest closes and clears the process-wide sink. Tests only.
func ResetSinkForTest() {
	if s := defaultSink.Swap(nil); s != nil {
		_ = s.Close()
	}
	sinkOnce = sync.Once{}
}
