// pkg/engine/pwengine/page.go
package pwengine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

// BrowserContext wraps a Playwright browser context.
type BrowserContext struct {
	ctx         playwright.BrowserContext
	timeout     time.Duration
	downloadDir string
}

func (c *BrowserContext) NewPage(ctx context.Context) (engine.Page, error) {
	p, err := c.ctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return c.wrapPage(p), nil
}

func (c *BrowserContext) wrapPage(p playwright.Page) *Page {
	return &Page{page: p, timeout: c.timeout, downloadDir: c.downloadDir}
}

func (c *BrowserContext) StartTracing(ctx context.Context, opts engine.TraceOptions) error {
	err := c.ctx.Tracing().Start(playwright.TracingStartOptions{
		Screenshots: playwright.Bool(opts.Screenshots),
		Snapshots:   playwright.Bool(opts.Snapshots),
	})
	return wrapErr("start tracing", err)
}

func (c *BrowserContext) StopTracing(ctx context.Context, path string) error {
	return wrapErr("stop tracing", c.ctx.Tracing().Stop(path))
}

func (c *BrowserContext) Close(ctx context.Context) error {
	return wrapErr("close context", c.ctx.Close())
}

// Page wraps a Playwright page.
type Page struct {
	page        playwright.Page
	timeout     time.Duration
	downloadDir string
}

func (p *Page) Locator(sel engine.Selector) engine.Locator {
	return &Locator{sel: sel, loc: p.page.Locator(selectorString(sel)), timeout: p.timeout}
}

func (p *Page) Goto(ctx context.Context, url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   millis(engine.TimeoutFrom(ctx, p.timeout)),
	})
	return wrapErr("goto", err)
}

func (p *Page) URL(ctx context.Context) (string, error) { return p.page.URL(), nil }

func (p *Page) Title(ctx context.Context) (string, error) {
	t, err := p.page.Title()
	return t, wrapErr("title", err)
}

func (p *Page) Content(ctx context.Context) (string, error) {
	html, err := p.page.Content()
	return html, wrapErr("content", err)
}

func (p *Page) Screenshot(ctx context.Context, path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:    playwright.String(path),
		Timeout: millis(engine.TimeoutFrom(ctx, p.timeout)),
	})
	return wrapErr("page screenshot", err)
}

func (p *Page) BringToFront(ctx context.Context) error {
	return wrapErr("bring to front", p.page.BringToFront())
}

func (p *Page) Close(ctx context.Context) error {
	return wrapErr("close page", p.page.Close())
}

// ExpectPage registers the popup listener on the owning context, so a page
// opened by target=_blank or window.open is caught even if it loads fast.
func (p *Page) ExpectPage(ctx context.Context, action func() error) (engine.Page, error) {
	np, err := p.page.Context().ExpectPage(action, playwright.BrowserContextExpectPageOptions{
		Timeout: millis(engine.TimeoutFrom(ctx, p.timeout)),
	})
	if err != nil {
		return nil, wrapErr("expect page", err)
	}
	return &Page{page: np, timeout: p.timeout, downloadDir: p.downloadDir}, nil
}

func (p *Page) ExpectDownload(ctx context.Context, action func() error) (engine.Download, error) {
	dl, err := p.page.ExpectDownload(action, playwright.PageExpectDownloadOptions{
		Timeout: millis(engine.TimeoutFrom(ctx, p.timeout)),
	})
	if err != nil {
		return engine.Download{}, wrapErr("expect download", err)
	}

	out := engine.Download{SuggestedFilename: dl.SuggestedFilename(), URL: dl.URL()}
	// Path and SaveAs both block until the download has finished.
	if p.downloadDir != "" {
		if err := dl.SaveAs(filepath.Join(p.downloadDir, out.SuggestedFilename)); err != nil {
			return out, wrapErr("save download", err)
		}
		return out, nil
	}
	if _, err := dl.Path(); err != nil {
		return out, wrapErr("await download", err)
	}
	return out, nil
}

func selectorString(sel engine.Selector) string {
	if sel.Kind == engine.XPath {
		return "xpath=" + sel.Expr
	}
	return "css=" + sel.Expr
}
