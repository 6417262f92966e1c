// pkg/engine/cdpengine/browser.go
package cdpengine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/security"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

// Browser is a Chrome process owned by a chromedp allocator.
type Browser struct {
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *zap.Logger
	version     string
	closed      atomic.Bool
}

func (b *Browser) IsConnected() bool {
	return !b.closed.Load() && b.ctx.Err() == nil
}

func (b *Browser) Version() string { return b.version }

func (b *Browser) readVersion(ctx context.Context) string {
	runCtx, cancel := opContext(b.ctx, ctx, 5*time.Second)
	defer cancel()

	var product string
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(c context.Context) error {
		_, p, _, _, _, err := browser.GetVersion().Do(c)
		product = p
		return err
	}))
	if err != nil {
		b.logger.Debug("Could not read browser version.", zap.Error(err))
		return "unknown"
	}
	return product
}

// NewContext returns a page factory sharing the default browser profile.
// HAR and video recording are not available over plain CDP and are skipped.
func (b *Browser) NewContext(ctx context.Context, opts engine.ContextOptions) (engine.BrowserContext, error) {
	if !b.IsConnected() {
		return nil, fmt.Errorf("failed to create browser context: browser is closed")
	}
	if opts.RecordHARPath != "" || opts.RecordVideoDir != "" {
		b.logger.Warn("HAR and video recording are not supported by the chromedp engine; skipping.")
	}
	timeout := opts.DefaultTimeout
	if timeout <= 0 {
		timeout = defaultActionTimeout
	}
	return &BrowserContext{browser: b, opts: opts, timeout: timeout}, nil
}

func (b *Browser) Close(ctx context.Context) error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	// Cancel closes the browser gracefully before the allocator kills the process.
	err := chromedp.Cancel(b.ctx)
	b.cancel()
	b.allocCancel()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

// BrowserContext opens tabs in the browser's default profile.
type BrowserContext struct {
	browser *Browser
	opts    engine.ContextOptions
	timeout time.Duration
}

func (c *BrowserContext) NewPage(ctx context.Context) (engine.Page, error) {
	tabCtx, tabCancel := chromedp.NewContext(c.browser.ctx)
	if err := chromedp.Run(tabCtx, c.setupTasks()); err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return c.newPage(tabCtx, tabCancel), nil
}

func (c *BrowserContext) newPage(tabCtx context.Context, cancel context.CancelFunc) *Page {
	return &Page{ctx: tabCtx, cancel: cancel, owner: c, timeout: c.timeout}
}

func (c *BrowserContext) setupTasks() chromedp.Tasks {
	var tasks chromedp.Tasks
	if v := c.opts.Viewport; v.Width > 0 && v.Height > 0 {
		tasks = append(tasks, chromedp.EmulateViewport(int64(v.Width), int64(v.Height)))
	}
	if c.opts.IgnoreHTTPSErrors {
		tasks = append(tasks, security.SetIgnoreCertificateErrors(true))
	}
	return tasks
}

func (c *BrowserContext) StartTracing(ctx context.Context, opts engine.TraceOptions) error {
	return fmt.Errorf("start tracing: %w", engine.ErrUnsupported)
}

func (c *BrowserContext) StopTracing(ctx context.Context, path string) error {
	return fmt.Errorf("stop tracing: %w", engine.ErrUnsupported)
}

// Close is a no-op; tabs are closed individually and the profile goes away with the browser.
func (c *BrowserContext) Close(ctx context.Context) error { return nil }
