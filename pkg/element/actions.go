// pkg/element/actions.go
package element

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

// Actions run immediately; the engine performs its own actionability wait.

func (e *Element) Click(ctx context.Context) error {
	if err := e.handle.Click(ctx); err != nil {
		e.sink.Error(fmt.Sprintf("Failed to click on %q", e.Name()), zap.Error(err))
		return e.fail("click", err)
	}
	e.sink.Info(fmt.Sprintf("User clicked on %q", e.Name()))
	return nil
}

func (e *Element) Check(ctx context.Context) error {
	if err := e.handle.Check(ctx); err != nil {
		e.sink.Error(fmt.Sprintf("Failed to check %q", e.Name()), zap.Error(err))
		return e.fail("check", err)
	}
	e.sink.Info(fmt.Sprintf("User checked %q", e.Name()))
	return nil
}

func (e *Element) Uncheck(ctx context.Context) error {
	if err := e.handle.Uncheck(ctx); err != nil {
		e.sink.Error(fmt.Sprintf("Failed to uncheck %q", e.Name()), zap.Error(err))
		return e.fail("uncheck", err)
	}
	e.sink.Info(fmt.Sprintf("User unchecked %q", e.Name()))
	return nil
}

func (e *Element) Clear(ctx context.Context) error {
	if err := e.handle.Clear(ctx); err != nil {
		e.sink.Error(fmt.Sprintf("Failed to clear text in %q", e.Name()), zap.Error(err))
		return e.fail("clear", err)
	}
	e.sink.Info(fmt.Sprintf("User cleared text in %q", e.Name()))
	return nil
}

// Type clears the field and fills it with text. When obscured is set the
// diagnostics carry Mask instead of text, on success and on failure.
func (e *Element) Type(ctx context.Context, text string, obscured bool) error {
	shown := text
	if obscured {
		shown = Mask
	}

	err := e.handle.Clear(ctx)
	if err == nil {
		err = e.handle.Fill(ctx, text)
	}
	if err != nil {
		e.sink.Error(fmt.Sprintf("Failed to type %q into %q", shown, e.Name()))
		return e.fail("type", redact(err, text, obscured))
	}
	e.sink.Info(fmt.Sprintf("User typed %q into %q", shown, e.Name()))
	return nil
}

func (e *Element) PressEnter(ctx context.Context) error {
	return e.Press(ctx, "Enter")
}

func (e *Element) Press(ctx context.Context, key string) error {
	if err := e.handle.Press(ctx, key); err != nil {
		e.sink.Error(fmt.Sprintf("Failed to press %s on %q", key, e.Name()), zap.Error(err))
		return e.fail("press "+key, err)
	}
	e.sink.Info(fmt.Sprintf("User pressed %s on %q", key, e.Name()))
	return nil
}

// ClickOnLink arms a new-page listener, clicks, and returns the page the click
// opened. The page is handed to the new-page handler before returning.
func (e *Element) ClickOnLink(ctx context.Context) (engine.Page, error) {
	page, err := e.page.ExpectPage(ctx, func() error {
		return e.handle.Click(ctx)
	})
	if err != nil {
		e.sink.Error(fmt.Sprintf("Failed to click on link %q", e.Name()), zap.Error(err))
		return nil, e.fail("click on link", err)
	}
	if e.onPage != nil {
		e.onPage(page)
	}
	e.sink.Info(fmt.Sprintf("User clicked on link %q", e.Name()))
	return page, nil
}

// ClickToDownload arms a download listener, clicks, and waits for the
// download to complete.
func (e *Element) ClickToDownload(ctx context.Context) (engine.Download, error) {
	dl, err := e.page.ExpectDownload(ctx, func() error {
		return e.handle.Click(ctx)
	})
	if err != nil {
		e.sink.Error(fmt.Sprintf("Failed to click and download on %q", e.Name()), zap.Error(err))
		return dl, e.fail("click to download", err)
	}
	e.sink.Info(fmt.Sprintf("User clicked on %q and downloaded %q", e.Name(), dl.SuggestedFilename))
	return dl, nil
}

// TakeScreenshot captures the element to <dir>/<name>_<yyMMddHHmmss>.png and returns the path.
func (e *Element) TakeScreenshot(ctx context.Context) (string, error) {
	path := screenshotPath(e.dir, e.Name(), e.now())
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		e.sink.Error(fmt.Sprintf("Failed to take screenshot of %q", e.Name()), zap.Error(err))
		return "", e.fail("take screenshot", err)
	}
	if err := e.handle.Screenshot(ctx, path); err != nil {
		e.sink.Error(fmt.Sprintf("Failed to take screenshot of %q", e.Name()), zap.Error(err))
		return "", e.fail("take screenshot", err)
	}
	e.sink.Info(fmt.Sprintf("User has taken a screenshot of %q", e.Name()))
	return path, nil
}

// redactedError hides typed text that an engine may echo back in its error message.
type redactedError struct {
	msg   string
	cause error
}

func (r *redactedError) Error() string { return r.msg }
func (r *redactedError) Unwrap() error { return r.cause }

func redact(err error, text string, obscured bool) error {
	if !obscured || text == "" {
		return err
	}
	msg := err.Error()
	masked := strings.ReplaceAll(msg, text, Mask)
	if masked == msg {
		return err
	}
	return &redactedError{msg: masked, cause: err}
}
