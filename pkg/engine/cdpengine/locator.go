// pkg/engine/cdpengine/locator.go
package cdpengine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

// findAll returns every element matching a css or xpath expression, in document order.
const findAll = `function(kind, expr) {
	if (kind === "xpath") {
		const snap = document.evaluate(expr, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
		const out = [];
		for (let i = 0; i < snap.snapshotLength; i++) out.push(snap.snapshotItem(i));
		return out;
	}
	return Array.from(document.querySelectorAll(expr));
}`

const isVisible = `function(el) {
	if (!el) return false;
	const style = window.getComputedStyle(el);
	const rect = el.getBoundingClientRect();
	return style.visibility !== "hidden" && rect.width > 0 && rect.height > 0;
}`

// Locator evaluates its selector afresh on every call.
type Locator struct {
	sel  engine.Selector
	page *Page
}

func (l *Locator) Selector() engine.Selector { return l.sel }

func (l *Locator) queryOption() chromedp.QueryOption {
	if l.sel.Kind == engine.XPath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// script wraps body in a function that has els, el and visible in scope.
func (l *Locator) script(body string) (string, error) {
	kind, err := json.MarshalToString(l.sel.Kind.String())
	if err != nil {
		return "", err
	}
	expr, err := json.MarshalToString(l.sel.Expr)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(() => { const els = (%s)(%s, %s); const el = els[0]; const visible = %s; %s })()",
		findAll, kind, expr, isVisible, body), nil
}

func (l *Locator) eval(ctx context.Context, op, body string, out any) error {
	js, err := l.script(body)
	if err != nil {
		return fmt.Errorf("%s: failed to encode selector: %w", op, err)
	}
	return l.page.run(ctx, op, chromedp.Evaluate(js, out))
}

type boolResult struct {
	Found bool `json:"found"`
	Value bool `json:"value"`
}

type stringResult struct {
	Found   bool   `json:"found"`
	Present bool   `json:"present"`
	Value   string `json:"value"`
}

func (l *Locator) readBool(ctx context.Context, op, expr string) (bool, error) {
	var res boolResult
	if err := l.eval(ctx, op, fmt.Sprintf("return el ? {found: true, value: !!(%s)} : {found: false};", expr), &res); err != nil {
		return false, err
	}
	if !res.Found {
		return false, fmt.Errorf("%s %s: %w", op, l.sel, engine.ErrNotFound)
	}
	return res.Value, nil
}

func (l *Locator) Click(ctx context.Context) error {
	return l.page.run(ctx, "click", chromedp.Click(l.sel.Expr, l.queryOption(), chromedp.NodeVisible))
}

func (l *Locator) Check(ctx context.Context) error { return l.setChecked(ctx, "check", true) }
func (l *Locator) Uncheck(ctx context.Context) error { return l.setChecked(ctx, "uncheck", false) }

func (l *Locator) setChecked(ctx context.Context, op string, want bool) error {
	checked, err := l.IsChecked(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if checked == want {
		return nil
	}
	return l.page.run(ctx, op, chromedp.Click(l.sel.Expr, l.queryOption(), chromedp.NodeVisible))
}

func (l *Locator) Clear(ctx context.Context) error {
	return l.page.run(ctx, "clear", chromedp.Clear(l.sel.Expr, l.queryOption()))
}

func (l *Locator) Fill(ctx context.Context, text string) error {
	return l.page.run(ctx, "fill",
		chromedp.Clear(l.sel.Expr, l.queryOption()),
		chromedp.SendKeys(l.sel.Expr, text, l.queryOption()),
	)
}

func (l *Locator) Press(ctx context.Context, key string) error {
	return l.page.run(ctx, "press", chromedp.SendKeys(l.sel.Expr, keyFor(key), l.queryOption()))
}

// keyFor maps Playwright-style key names onto the chromedp key table.
func keyFor(key string) string {
	switch strings.ToLower(key) {
	case "enter":
		return kb.Enter
	case "tab":
		return kb.Tab
	case "escape", "esc":
		return kb.Escape
	case "backspace":
		return kb.Backspace
	case "delete":
		return kb.Delete
	case "arrowdown":
		return kb.ArrowDown
	case "arrowup":
		return kb.ArrowUp
	}
	return key
}

// WaitFor polls the document until the state predicate holds or timeout elapses.
func (l *Locator) WaitFor(ctx context.Context, state engine.WaitState, timeout time.Duration) error {
	var predicate string
	switch state {
	case engine.StateAttached:
		predicate = "els.length > 0"
	case engine.StateDetached:
		predicate = "els.length === 0"
	case engine.StateVisible:
		predicate = "visible(el)"
	case engine.StateHidden:
		predicate = "!visible(el)"
	default:
		return fmt.Errorf("%w: wait state %q", engine.ErrUnsupported, state)
	}
	if timeout <= 0 {
		timeout = engine.TimeoutFrom(ctx, l.page.timeout)
	}

	js, err := l.script("return " + predicate + ";")
	if err != nil {
		return fmt.Errorf("wait for %s: %w", state, err)
	}
	var ok bool
	return l.page.run(ctx, "wait for "+string(state), chromedp.Poll(js, &ok,
		chromedp.WithPollingTimeout(timeout),
		chromedp.WithPollingInterval(100*time.Millisecond),
	))
}

// IsVisible reports false for a selector matching nothing.
func (l *Locator) IsVisible(ctx context.Context) (bool, error) {
	var v bool
	err := l.eval(ctx, "is visible", "return visible(el);", &v)
	return v, err
}

func (l *Locator) IsEnabled(ctx context.Context) (bool, error) {
	return l.readBool(ctx, "is enabled", `!el.disabled && el.getAttribute("aria-disabled") !== "true"`)
}

func (l *Locator) IsChecked(ctx context.Context) (bool, error) {
	return l.readBool(ctx, "is checked", `el.checked === true || el.getAttribute("aria-checked") === "true"`)
}

func (l *Locator) Attribute(ctx context.Context, name string) (string, bool, error) {
	attr, err := json.MarshalToString(name)
	if err != nil {
		return "", false, fmt.Errorf("get attribute: %w", err)
	}
	var res stringResult
	body := fmt.Sprintf("if (!el) return {found: false}; const v = el.getAttribute(%s); return {found: true, present: v !== null, value: v || \"\"};", attr)
	if err := l.eval(ctx, "get attribute "+name, body, &res); err != nil {
		return "", false, err
	}
	if !res.Found {
		return "", false, fmt.Errorf("get attribute %s %s: %w", name, l.sel, engine.ErrNotFound)
	}
	return res.Value, res.Present, nil
}

func (l *Locator) InnerText(ctx context.Context) (string, error) {
	var res stringResult
	if err := l.eval(ctx, "inner text", "return el ? {found: true, value: el.innerText} : {found: false};", &res); err != nil {
		return "", err
	}
	if !res.Found {
		return "", fmt.Errorf("inner text %s: %w", l.sel, engine.ErrNotFound)
	}
	return res.Value, nil
}

func (l *Locator) Count(ctx context.Context) (int, error) {
	var n int
	err := l.eval(ctx, "count", "return els.length;", &n)
	return n, err
}

func (l *Locator) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := l.page.run(ctx, "element screenshot", chromedp.Screenshot(l.sel.Expr, &buf, l.queryOption())); err != nil {
		return err
	}
	return writeImage(path, buf)
}
