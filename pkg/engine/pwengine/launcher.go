// pkg/engine/pwengine/launcher.go
package pwengine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

const (
	installTimeout       = 5 * time.Minute
	defaultLaunchTimeout = 60 * time.Second
	defaultActionTimeout = 30 * time.Second
)

// Launcher starts browsers through a Playwright driver process. Each launched
// Browser owns its own driver, which is stopped when the browser is closed.
type Launcher struct {
	// InstallBrowsers downloads the driver and browser binaries before the first launch.
	InstallBrowsers bool
	logger          *zap.Logger
}

// NewLauncher returns a Playwright launcher.
func NewLauncher(logger *zap.Logger, installBrowsers bool) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Launcher{
		InstallBrowsers: installBrowsers,
		logger:          logger.Named("playwright"),
	}
}

func (l *Launcher) Name() string { return "playwright" }

// Launch starts the driver and the requested browser kind.
func (l *Launcher) Launch(ctx context.Context, opts engine.LaunchOptions) (engine.Browser, error) {
	kind, channel, err := browserKind(opts.Kind)
	if err != nil {
		return nil, err
	}

	if l.InstallBrowsers {
		if err := l.ensureInstallation(ctx, kind); err != nil {
			return nil, err
		}
	}

	pw, err := playwright.Run(&playwright.RunOptions{Verbose: false})
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright driver: %w", err)
	}

	var bt playwright.BrowserType
	switch kind {
	case "firefox":
		bt = pw.Firefox
	case "webkit":
		bt = pw.WebKit
	default:
		bt = pw.Chromium
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultLaunchTimeout
	}
	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     opts.Args,
		Timeout:  millis(engine.TimeoutFrom(ctx, timeout)),
	}
	if channel != "" {
		launchOpts.Channel = playwright.String(channel)
	}

	b, err := bt.Launch(launchOpts)
	if err != nil {
		// The driver must not outlive a failed launch.
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", opts.Kind, err)
	}

	l.logger.Debug("Browser launched.", zap.String("kind", opts.Kind), zap.String("version", b.Version()))
	return &Browser{pw: pw, browser: b, logger: l.logger}, nil
}

func (l *Launcher) ensureInstallation(ctx context.Context, kind string) error {
	l.logger.Info("Verifying Playwright browser installation...", zap.String("browser", kind))
	installCtx, cancel := context.WithTimeout(ctx, installTimeout)
	defer cancel()

	// Install blocks and takes no context.
	errCh := make(chan error, 1)
	go func() {
		errCh <- playwright.Install(&playwright.RunOptions{Browsers: []string{kind}})
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to install playwright browsers: %w", err)
		}
		return nil
	case <-installCtx.Done():
		return fmt.Errorf("timeout waiting for playwright installation: %w", installCtx.Err())
	}
}

// browserKind maps a configured kind onto a Playwright browser type and release channel.
func browserKind(kind string) (browserType, channel string, err error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "chromium":
		return "chromium", "", nil
	case "chrome":
		return "chromium", "chrome", nil
	case "msedge", "edge":
		return "chromium", "msedge", nil
	case "firefox":
		return "firefox", "", nil
	case "webkit":
		return "webkit", "", nil
	}
	return "", "", fmt.Errorf("%w: browser kind %q", engine.ErrUnsupported, kind)
}

// millis converts a duration into the float milliseconds Playwright options expect.
func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// wrapErr tags Playwright timeouts with engine.ErrTimeout while keeping the original cause.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s: %w: %w", op, engine.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
