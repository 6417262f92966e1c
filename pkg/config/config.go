// File: pkg/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Engine names accepted by driver.engine.
const (
	EnginePlaywright = "playwright"
	EngineChromedp   = "chromedp"
)

// Config holds the whole toolkit configuration. Sessions treat it as read-only.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Driver  DriverConfig  `mapstructure:"driver" yaml:"driver"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Tracing TracingConfig `mapstructure:"tracing" yaml:"tracing"`
	Sync    SyncConfig    `mapstructure:"sync" yaml:"sync"`
}

// LoggerConfig configures the process logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the terminal color for each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// DriverConfig selects the automation backend.
type DriverConfig struct {
	Engine string `mapstructure:"engine" yaml:"engine"`
	// Workers is accepted for compatibility; sessions run one at a time.
	Workers         int           `mapstructure:"workers" yaml:"workers"`
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout"`
	InstallBrowsers bool          `mapstructure:"install_browsers" yaml:"install_browsers"`
}

// BrowserConfig configures the launched browser and its context.
type BrowserConfig struct {
	Kind            string         `mapstructure:"kind" yaml:"kind"`
	Headless        bool           `mapstructure:"headless" yaml:"headless"`
	Args            []string       `mapstructure:"args" yaml:"args"`
	Viewport        ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	IgnoreTLSErrors bool           `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
}

type ViewportConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// TracingConfig toggles the per-run artifacts.
type TracingConfig struct {
	Logging    bool   `mapstructure:"logging" yaml:"logging"`
	Screenshot bool   `mapstructure:"screenshot" yaml:"screenshot"`
	Video      bool   `mapstructure:"video" yaml:"video"`
	HAR        bool   `mapstructure:"har" yaml:"har"`
	Dir        string `mapstructure:"dir" yaml:"dir"`
}

// SyncConfig holds the bounded waits used by element reads.
type SyncConfig struct {
	ReadWait          time.Duration `mapstructure:"read_wait" yaml:"read_wait"`
	QuickReadWait     time.Duration `mapstructure:"quick_read_wait" yaml:"quick_read_wait"`
	DisappearPoll     time.Duration `mapstructure:"disappear_poll" yaml:"disappear_poll"`
	DisappearDeadline time.Duration `mapstructure:"disappear_deadline" yaml:"disappear_deadline"`
}

// RunStampLayout is the timestamp prefix for run directories and trace logs (yyMMdd-HHmmss).
const RunStampLayout = "060102-150405"

// ResolvedDir returns the tracing directory with a leading ~ expanded.
func (t TracingConfig) ResolvedDir() (string, error) {
	dir, err := homedir.Expand(t.Dir)
	if err != nil {
		return "", fmt.Errorf("failed to expand tracing dir %q: %w", t.Dir, err)
	}
	return dir, nil
}

// RunDir returns <dir>/<yyMMdd-HHmmss>_<testName>, the directory one run writes into.
func (t TracingConfig) RunDir(testName string, now time.Time) (string, error) {
	dir, err := t.ResolvedDir()
	if err != nil {
		return "", err
	}
	name := sanitize(testName)
	if name == "" {
		name = "session"
	}
	return filepath.Join(dir, now.Format(RunStampLayout)+"_"+name), nil
}

// LogFilePath resolves logger.log_file. A leading ~ is expanded and a relative
// path is placed under the tracing directory, so the process log sits beside
// the run directories. Empty means no file.
func (c *Config) LogFilePath() (string, error) {
	if c.Logger.LogFile == "" {
		return "", nil
	}
	path, err := homedir.Expand(c.Logger.LogFile)
	if err != nil {
		return "", fmt.Errorf("failed to expand log file %q: %w", c.Logger.LogFile, err)
	}
	if filepath.IsAbs(path) || c.Tracing.Dir == "" {
		return path, nil
	}
	dir, err := c.Tracing.ResolvedDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, path), nil
}

// AnyEnabled reports whether any artifact is produced.
func (t TracingConfig) AnyEnabled() bool {
	return t.Logging || t.Screenshot || t.Video || t.HAR
}

// sanitize keeps test names like "TestLogin/valid_user" usable as one path segment.
func sanitize(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")
	return r.Replace(strings.TrimSpace(name))
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "pomkit")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "red")

	// -- Driver --
	v.SetDefault("driver.engine", EnginePlaywright)
	v.SetDefault("driver.workers", 1)
	v.SetDefault("driver.timeout", "30s")
	v.SetDefault("driver.install_browsers", false)

	// -- Browser --
	v.SetDefault("browser.kind", "chromium")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.args", []string{"--auth-server-allowlist='*'"})
	v.SetDefault("browser.viewport.width", 1800)
	v.SetDefault("browser.viewport.height", 957)
	v.SetDefault("browser.ignore_tls_errors", true)

	// -- Tracing --
	v.SetDefault("tracing.logging", true)
	v.SetDefault("tracing.screenshot", true)
	v.SetDefault("tracing.video", true)
	v.SetDefault("tracing.har", true)
	v.SetDefault("tracing.dir", "TraceData")

	// -- Sync --
	v.SetDefault("sync.read_wait", "5s")
	v.SetDefault("sync.quick_read_wait", "3s")
	v.SetDefault("sync.disappear_poll", "5s")
	v.SetDefault("sync.disappear_deadline", "30s")
}

// NewConfigFromViper decodes and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

var browserKinds = map[string]bool{
	"chromium": true,
	"chrome":   true,
	"msedge":   true,
	"firefox":  true,
	"webkit":   true,
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	switch c.Driver.Engine {
	case EnginePlaywright:
	case EngineChromedp:
		if k := c.Browser.Kind; k != "chromium" && k != "chrome" {
			return fmt.Errorf("browser.kind %q is not supported by the chromedp engine", k)
		}
	default:
		return fmt.Errorf("driver.engine must be %q or %q, got %q", EnginePlaywright, EngineChromedp, c.Driver.Engine)
	}
	if c.Driver.Workers <= 0 {
		return fmt.Errorf("driver.workers must be a positive integer")
	}
	if c.Driver.Timeout <= 0 {
		return fmt.Errorf("driver.timeout must be a positive duration")
	}
	if !browserKinds[c.Browser.Kind] {
		return fmt.Errorf("browser.kind %q is not one of chromium, chrome, msedge, firefox, webkit", c.Browser.Kind)
	}
	if c.Browser.Viewport.Width <= 0 || c.Browser.Viewport.Height <= 0 {
		return fmt.Errorf("browser.viewport must have a positive width and height")
	}
	if c.Tracing.AnyEnabled() && strings.TrimSpace(c.Tracing.Dir) == "" {
		return fmt.Errorf("tracing.dir is required when any tracing output is enabled")
	}
	if err := c.Sync.Validate(); err != nil {
		return fmt.Errorf("sync configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the wait timings.
func (s *SyncConfig) Validate() error {
	if s.ReadWait <= 0 || s.QuickReadWait <= 0 {
		return fmt.Errorf("read_wait and quick_read_wait must be positive durations")
	}
	if s.DisappearPoll <= 0 {
		return fmt.Errorf("disappear_poll must be a positive duration")
	}
	if s.DisappearDeadline < s.DisappearPoll {
		return fmt.Errorf("disappear_deadline must not be shorter than disappear_poll")
	}
	return nil
}
