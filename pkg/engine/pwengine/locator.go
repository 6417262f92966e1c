// pkg/engine/pwengine/locator.go
package pwengine

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

// Locator wraps a Playwright locator. Playwright actions run their own
// actionability checks, bounded by the context deadline or the default timeout.
type Locator struct {
	sel     engine.Selector
	loc     playwright.Locator
	timeout time.Duration
}

func (l *Locator) Selector() engine.Selector { return l.sel }

func (l *Locator) t(ctx context.Context) *float64 {
	return millis(engine.TimeoutFrom(ctx, l.timeout))
}

func (l *Locator) Click(ctx context.Context) error {
	return wrapErr("click", l.loc.Click(playwright.LocatorClickOptions{Timeout: l.t(ctx)}))
}

func (l *Locator) Check(ctx context.Context) error {
	return wrapErr("check", l.loc.Check(playwright.LocatorCheckOptions{Timeout: l.t(ctx)}))
}

func (l *Locator) Uncheck(ctx context.Context) error {
	return wrapErr("uncheck", l.loc.Uncheck(playwright.LocatorUncheckOptions{Timeout: l.t(ctx)}))
}

func (l *Locator) Clear(ctx context.Context) error {
	return wrapErr("clear", l.loc.Clear(playwright.LocatorClearOptions{Timeout: l.t(ctx)}))
}

func (l *Locator) Fill(ctx context.Context, text string) error {
	return wrapErr("fill", l.loc.Fill(text, playwright.LocatorFillOptions{Timeout: l.t(ctx)}))
}

func (l *Locator) Press(ctx context.Context, key string) error {
	return wrapErr("press", l.loc.Press(key, playwright.LocatorPressOptions{Timeout: l.t(ctx)}))
}

func (l *Locator) WaitFor(ctx context.Context, state engine.WaitState, timeout time.Duration) error {
	ws, err := waitState(state)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = engine.TimeoutFrom(ctx, l.timeout)
	}
	return wrapErr("wait for "+string(state), l.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   ws,
		Timeout: millis(timeout),
	}))
}

func (l *Locator) IsVisible(ctx context.Context) (bool, error) {
	v, err := l.loc.IsVisible()
	return v, wrapErr("is visible", err)
}

func (l *Locator) IsEnabled(ctx context.Context) (bool, error) {
	v, err := l.loc.IsEnabled(playwright.LocatorIsEnabledOptions{Timeout: l.t(ctx)})
	return v, wrapErr("is enabled", err)
}

func (l *Locator) IsChecked(ctx context.Context) (bool, error) {
	v, err := l.loc.IsChecked(playwright.LocatorIsCheckedOptions{Timeout: l.t(ctx)})
	return v, wrapErr("is checked", err)
}

// Attribute reports an empty value as absent; Playwright folds a null attribute into "".
func (l *Locator) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := l.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: l.t(ctx)})
	if err != nil {
		return "", false, wrapErr("get attribute "+name, err)
	}
	return v, v != "", nil
}

func (l *Locator) InnerText(ctx context.Context) (string, error) {
	v, err := l.loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: l.t(ctx)})
	return v, wrapErr("inner text", err)
}

func (l *Locator) Count(ctx context.Context) (int, error) {
	n, err := l.loc.Count()
	return n, wrapErr("count", err)
}

func (l *Locator) Screenshot(ctx context.Context, path string) error {
	_, err := l.loc.Screenshot(playwright.LocatorScreenshotOptions{
		Path:    playwright.String(path),
		Timeout: l.t(ctx),
	})
	return wrapErr("element screenshot", err)
}

func waitState(s engine.WaitState) (*playwright.WaitForSelectorState, error) {
	switch s {
	case engine.StateAttached:
		return playwright.WaitForSelectorStateAttached, nil
	case engine.StateDetached:
		return playwright.WaitForSelectorStateDetached, nil
	case engine.StateVisible:
		return playwright.WaitForSelectorStateVisible, nil
	case engine.StateHidden:
		return playwright.WaitForSelectorStateHidden, nil
	}
	return nil, fmt.Errorf("%w: wait state %q", engine.ErrUnsupported, s)
}
