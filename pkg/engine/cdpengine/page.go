// pkg/engine/cdpengine/page.go
package cdpengine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/browser"
	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

// Page is one chromedp tab context.
type Page struct {
	ctx     context.Context
	cancel  context.CancelFunc
	owner   *BrowserContext
	timeout time.Duration
}

func (p *Page) run(ctx context.Context, op string, actions ...chromedp.Action) error {
	runCtx, cancel := opContext(p.ctx, ctx, p.timeout)
	defer cancel()
	return wrapErr(op, chromedp.Run(runCtx, actions...))
}

func (p *Page) Locator(sel engine.Selector) engine.Locator {
	return &Locator{sel: sel, page: p}
}

// Goto returns after the load event, which always follows DOMContentLoaded.
func (p *Page) Goto(ctx context.Context, url string) error {
	return p.run(ctx, "goto", chromedp.Navigate(url))
}

func (p *Page) URL(ctx context.Context) (string, error) {
	var u string
	err := p.run(ctx, "url", chromedp.Location(&u))
	return u, err
}

func (p *Page) Title(ctx context.Context) (string, error) {
	var t string
	err := p.run(ctx, "title", chromedp.Title(&t))
	return t, err
}

func (p *Page) Content(ctx context.Context) (string, error) {
	var html string
	err := p.run(ctx, "content", chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (p *Page) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := p.run(ctx, "page screenshot", chromedp.CaptureScreenshot(&buf)); err != nil {
		return err
	}
	return writeImage(path, buf)
}

func (p *Page) BringToFront(ctx context.Context) error {
	return p.run(ctx, "bring to front", cdppage.BringToFront())
}

func (p *Page) Close(ctx context.Context) error {
	err := chromedp.Cancel(p.ctx)
	p.cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close page: %w", err)
	}
	return nil
}

// ExpectPage listens for a page target opened by this tab before running action.
func (p *Page) ExpectPage(ctx context.Context, action func() error) (engine.Page, error) {
	c := chromedp.FromContext(p.ctx)
	if c == nil || c.Target == nil {
		return nil, fmt.Errorf("expect page: tab is not attached")
	}
	openerID := c.Target.TargetID

	newTarget, stopListening, err := listenThenRun(p.ctx, func(info *target.Info) bool {
		return info.Type == "page" && info.OpenerID == openerID
	}, action)
	if err != nil {
		return nil, err
	}
	defer stopListening()

	waitCtx, cancel := opContext(p.ctx, ctx, p.timeout)
	defer cancel()
	select {
	case id := <-newTarget:
		// Parent the new tab on the browser so it survives its opener closing.
		tabCtx, tabCancel := chromedp.NewContext(p.owner.browser.ctx, chromedp.WithTargetID(id))
		if err := chromedp.Run(tabCtx, p.owner.setupTasks()); err != nil {
			tabCancel()
			return nil, fmt.Errorf("expect page: failed to attach: %w", err)
		}
		return p.owner.newPage(tabCtx, tabCancel), nil
	case <-waitCtx.Done():
		return nil, wrapErr("expect page", waitCtx.Err())
	}
}

// waitNewTarget is swapped in tests.
var waitNewTarget = chromedp.WaitNewTarget

// listenThenRun registers a new-target listener on a child of parent and runs
// action. When action fails the listener is already removed; otherwise the
// caller must call stop.
func listenThenRun(parent context.Context, match func(*target.Info) bool, action func() error) (<-chan target.ID, context.CancelFunc, error) {
	listenCtx, stop := context.WithCancel(parent)
	ch := waitNewTarget(listenCtx, match)
	if err := action(); err != nil {
		stop()
		return nil, nil, err
	}
	return ch, stop, nil
}

type downloadStart struct {
	guid string
	info engine.Download
}

// ExpectDownload enables download events, listens for them, then runs action and
// waits for the download to complete. The file is renamed to its suggested name.
func (p *Page) ExpectDownload(ctx context.Context, action func() error) (engine.Download, error) {
	dir := p.owner.opts.DownloadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := p.run(ctx, "enable downloads",
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(dir).
			WithEventsEnabled(true),
	); err != nil {
		return engine.Download{}, err
	}

	started := make(chan downloadStart, 1)
	finished := make(chan error, 1)
	listenCtx, stopListening := context.WithCancel(p.ctx)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *browser.EventDownloadWillBegin:
			select {
			case started <- downloadStart{guid: e.GUID, info: engine.Download{SuggestedFilename: e.SuggestedFilename, URL: e.URL}}:
			default:
			}
		case *browser.EventDownloadProgress:
			var result error
			switch e.State {
			case browser.DownloadProgressStateCompleted:
			case browser.DownloadProgressStateCanceled:
				result = errors.New("download canceled")
			default:
				return
			}
			select {
			case finished <- result:
			default:
			}
		}
	})

	if err := action(); err != nil {
		return engine.Download{}, err
	}

	waitCtx, cancel := opContext(p.ctx, ctx, p.timeout)
	defer cancel()

	var start downloadStart
	select {
	case start = <-started:
	case <-waitCtx.Done():
		return engine.Download{}, wrapErr("expect download", waitCtx.Err())
	}
	select {
	case err := <-finished:
		if err != nil {
			return start.info, fmt.Errorf("expect download: %w", err)
		}
	case <-waitCtx.Done():
		return start.info, wrapErr("await download", waitCtx.Err())
	}

	if start.info.SuggestedFilename != "" {
		from := filepath.Join(dir, start.guid)
		to := filepath.Join(dir, start.info.SuggestedFilename)
		if err := os.Rename(from, to); err != nil {
			return start.info, fmt.Errorf("failed to rename download: %w", err)
		}
	}
	return start.info, nil
}

func writeImage(path string, buf []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	return nil
}
