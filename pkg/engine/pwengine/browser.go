// pkg/engine/pwengine/browser.go
package pwengine

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

// Browser wraps a Playwright browser and the driver that launched it.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	logger  *zap.Logger
}

func (b *Browser) IsConnected() bool { return b.browser.IsConnected() }
func (b *Browser) Version() string { return b.browser.Version() }

// NewContext creates an isolated context with the recording options applied.
func (b *Browser) NewContext(ctx context.Context, opts engine.ContextOptions) (engine.BrowserContext, error) {
	pwOpts := playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(opts.IgnoreHTTPSErrors),
		AcceptDownloads:   playwright.Bool(true),
	}
	if opts.Viewport.Width > 0 && opts.Viewport.Height > 0 {
		pwOpts.Viewport = &playwright.Size{Width: opts.Viewport.Width, Height: opts.Viewport.Height}
	}
	if opts.RecordHARPath != "" {
		pwOpts.RecordHarPath = playwright.String(opts.RecordHARPath)
	}
	if opts.RecordVideoDir != "" {
		pwOpts.RecordVideo = &playwright.RecordVideo{Dir: opts.RecordVideoDir}
	}

	bc, err := b.browser.NewContext(pwOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	timeout := opts.DefaultTimeout
	if timeout <= 0 {
		timeout = defaultActionTimeout
	}
	bc.SetDefaultTimeout(float64(timeout.Milliseconds()))
	bc.SetDefaultNavigationTimeout(float64(timeout.Milliseconds()))

	return &BrowserContext{ctx: bc, timeout: timeout, downloadDir: opts.DownloadDir}, nil
}

// Close closes the browser and stops its driver.
func (b *Browser) Close(ctx context.Context) error {
	var err error
	if b.browser != nil {
		if cerr := b.browser.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close browser: %w", cerr))
		}
	}
	if b.pw != nil {
		if serr := b.pw.Stop(); serr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to stop playwright driver: %w", serr))
		}
	}
	b.logger.Debug("Playwright browser closed.", zap.Error(err))
	return err
}
