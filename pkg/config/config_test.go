// File: pkg/config/config_test.go
package config

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "pomkit", cfg.Logger.ServiceName)
	assert.Equal(t, EnginePlaywright, cfg.Driver.Engine)
	assert.Equal(t, 1, cfg.Driver.Workers)
	assert.Equal(t, 30*time.Second, cfg.Driver.Timeout)
	assert.Equal(t, "chromium", cfg.Browser.Kind)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, []string{"--auth-server-allowlist='*'"}, cfg.Browser.Args)
	assert.Equal(t, ViewportConfig{Width: 1800, Height: 957}, cfg.Browser.Viewport)
	assert.True(t, cfg.Browser.IgnoreTLSErrors)
	assert.True(t, cfg.Tracing.Logging && cfg.Tracing.Screenshot && cfg.Tracing.Video && cfg.Tracing.HAR)
	assert.Equal(t, "TraceData", cfg.Tracing.Dir)
	assert.Equal(t, 5*time.Second, cfg.Sync.ReadWait)
	assert.Equal(t, 3*time.Second, cfg.Sync.QuickReadWait)
	assert.Equal(t, 5*time.Second, cfg.Sync.DisappearPoll)
	assert.Equal(t, 30*time.Second, cfg.Sync.DisappearDeadline)

	assert.NoError(t, cfg.Validate(), "defaults must validate")
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"unknown engine", func(c *Config) { c.Driver.Engine = "selenium" }, "driver.engine"},
		{"zero workers", func(c *Config) { c.Driver.Workers = 0 }, "driver.workers"},
		{"zero timeout", func(c *Config) { c.Driver.Timeout = 0 }, "driver.timeout"},
		{"unknown browser", func(c *Config) { c.Browser.Kind = "opera" }, "browser.kind"},
		{"chromedp firefox", func(c *Config) {
			c.Driver.Engine = EngineChromedp
			c.Browser.Kind = "firefox"
		}, "chromedp"},
		{"empty viewport", func(c *Config) { c.Browser.Viewport.Height = 0 }, "browser.viewport"},
		{"tracing without dir", func(c *Config) { c.Tracing.Dir = " " }, "tracing.dir"},
		{"deadline below poll", func(c *Config) { c.Sync.DisappearDeadline = time.Second }, "disappear_deadline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("tracing off needs no dir", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Tracing = TracingConfig{}
		assert.NoError(t, cfg.Validate())
	})
}

// -- Viper Integration Tests --

func TestNewConfigFromViper(t *testing.T) {
	yamlConfig := []byte(`
driver:
  engine: chromedp
  timeout: 45s
browser:
  kind: chrome
  headless: false
  viewport:
    width: 1280
    height: 720
sync:
  quick_read_wait: 1s
`)
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, EngineChromedp, cfg.Driver.Engine)
	assert.Equal(t, 45*time.Second, cfg.Driver.Timeout)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 1280, cfg.Browser.Viewport.Width)
	assert.Equal(t, time.Second, cfg.Sync.QuickReadWait)
	assert.Equal(t, 5*time.Second, cfg.Sync.ReadWait, "unset keys keep their defaults")
}

func TestNewConfigFromViper_Invalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("driver.engine", "selenium")

	_, err := NewConfigFromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

// -- Tracing Paths --

func TestTracingConfig_RunDir(t *testing.T) {
	tc := TracingConfig{Dir: "TraceData"}
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	dir, err := tc.RunDir("TestLogin/valid user", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("TraceData", "240309-140507_TestLogin_valid_user"), dir)

	dir, err = tc.RunDir("", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("TraceData", "240309-140507_session"), dir)
}

func TestTracingConfig_ExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skip("no home directory available")
	}
	dir, err := TracingConfig{Dir: "~/traces"}.ResolvedDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "traces"), dir)
}

func TestLogFilePath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Tracing.Dir = "/var/pomkit/traces"

	cfg.Logger.LogFile = ""
	path, err := cfg.LogFilePath()
	require.NoError(t, err)
	assert.Empty(t, path)

	cfg.Logger.LogFile = "pomkit.log"
	path, err = cfg.LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/var/pomkit/traces", "pomkit.log"), path)

	cfg.Logger.LogFile = "/tmp/pomkit.log"
	path, err = cfg.LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pomkit.log", path)

	cfg.Tracing.Dir = ""
	cfg.Logger.LogFile = "logs/pomkit.log"
	path, err = cfg.LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, "logs/pomkit.log", path)
}
